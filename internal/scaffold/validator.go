package scaffold

import (
	"fmt"
	"os"

	"github.com/dyluth/hackathon/internal/config"
)

// CheckExisting checks if hackathon.yml or data/ directory already exist
// Returns an error if they do, nil otherwise
func CheckExisting() error {
	var existingFiles []string

	if _, err := os.Stat(config.DefaultPath); err == nil {
		existingFiles = append(existingFiles, config.DefaultPath)
	}

	if info, err := os.Stat(DataDir); err == nil && info.IsDir() {
		existingFiles = append(existingFiles, DataDir+"/")
	}

	if len(existingFiles) > 0 {
		errMsg := "project already initialized\n\nFound existing"
		if len(existingFiles) == 1 {
			errMsg += fmt.Sprintf(": %s", existingFiles[0])
		} else {
			errMsg += " files:\n"
			for _, file := range existingFiles {
				errMsg += fmt.Sprintf("  - %s\n", file)
			}
		}
		errMsg += "\nUse 'hackathon init --force' to reinitialize (this will overwrite existing configuration)"

		return fmt.Errorf("%s", errMsg)
	}

	return nil
}
