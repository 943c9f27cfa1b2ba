package history

import (
	"context"
	"fmt"
	"io"

	"github.com/dyluth/hackathon/internal/instance"
	"github.com/dyluth/hackathon/pkg/eventbus"
)

// GetRun retrieves a single run summary and writes it as pretty-printed JSON to the writer.
// Returns a *RunNotFoundError if no summary is stored for runID.
func GetRun(ctx context.Context, store Store, runID string, w io.Writer) error {
	if err := instance.ValidateName(runID); err != nil {
		return fmt.Errorf("invalid run ID: %w", err)
	}

	summary, err := store.GetSummary(ctx, runID)
	if err != nil {
		if eventbus.IsNotFound(err) {
			return &RunNotFoundError{RunID: runID}
		}
		return fmt.Errorf("failed to fetch run summary: %w", err)
	}

	if err := FormatSingleJSON(w, summary); err != nil {
		return fmt.Errorf("failed to format run summary: %w", err)
	}

	return nil
}

// RunNotFoundError represents a specific "run not found" error.
type RunNotFoundError struct {
	RunID string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run '%s' not found", e.RunID)
}

// IsNotFound returns true if the error is a RunNotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*RunNotFoundError)
	return ok
}
