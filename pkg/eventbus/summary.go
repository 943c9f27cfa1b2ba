package eventbus

import (
	"fmt"
)

// RunSummary records the outcome of one pipeline run.
type RunSummary struct {
	RunID            string `json:"run_id"`
	Ideas            int    `json:"ideas"`
	IdeaProducers    int    `json:"idea_producers"`
	Packages         int    `json:"packages"`
	PackageProducers int    `json:"package_producers"`
	Students         int    `json:"students"`
	Algorithm        string `json:"algorithm"`
	IdeasProduced    string `json:"ideas_produced"`    // hex checksum
	PackagesProduced string `json:"packages_produced"` // hex checksum
	IdeasConsumed    string `json:"ideas_consumed"`    // hex checksum
	PackagesConsumed string `json:"packages_consumed"` // hex checksum
	Verified         bool   `json:"verified"`
	DurationMs       int64  `json:"duration_ms"`
	CompletedAtMs    int64  `json:"completed_at_ms"`
}

// Validate checks if the RunSummary has valid field values.
func (s *RunSummary) Validate() error {
	if s.RunID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	if s.Ideas < 1 || s.IdeaProducers < 1 || s.PackageProducers < 1 || s.Students < 1 {
		return fmt.Errorf("run %s: ideas, producers and students must be >= 1", s.RunID)
	}
	if s.Packages < 0 {
		return fmt.Errorf("run %s: packages must be >= 0, got %d", s.RunID, s.Packages)
	}
	return nil
}
