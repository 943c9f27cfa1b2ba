package orchestrator

import (
	"io"
	"log"
	"os"
	"testing"
)

// captureLog redirects the standard logger for the duration of a test
func captureLog(t *testing.T, w io.Writer) {
	t.Helper()
	flags := log.Flags()
	log.SetOutput(w)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
}
