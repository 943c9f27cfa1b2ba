package orchestrator

import (
	"errors"
	"fmt"
	"time"

	"github.com/dyluth/hackathon/internal/checksum"
	"github.com/dyluth/hackathon/internal/student"
	"github.com/dyluth/hackathon/pkg/eventbus"
)

// ErrChecksumMismatch is returned by Verify when produced and consumed checksums differ.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Result holds the merged checksums of a completed run.
type Result struct {
	RunID            string             `json:"run_id"`
	Workload         Workload           `json:"workload"`
	Algorithm        checksum.Algorithm `json:"algorithm"`
	IdeasProduced    checksum.Checksum  `json:"ideas_produced"`
	PackagesProduced checksum.Checksum  `json:"packages_produced"`
	IdeasConsumed    checksum.Checksum  `json:"ideas_consumed"`
	PackagesConsumed checksum.Checksum  `json:"packages_consumed"`
	Students         []student.Result   `json:"students"`
	Events           eventbus.Stats     `json:"events"`
	Duration         time.Duration      `json:"duration_ns"`
	CompletedAt      time.Time          `json:"completed_at"`
}

// Verify checks that every produced idea and package was consumed exactly once.
func (r *Result) Verify() error {
	var errs []error
	if r.IdeasProduced != r.IdeasConsumed {
		errs = append(errs, fmt.Errorf("%w: ideas produced %s, consumed %s", ErrChecksumMismatch, r.IdeasProduced, r.IdeasConsumed))
	}
	if r.PackagesProduced != r.PackagesConsumed {
		errs = append(errs, fmt.Errorf("%w: packages produced %s, consumed %s", ErrChecksumMismatch, r.PackagesProduced, r.PackagesConsumed))
	}
	return errors.Join(errs...)
}

// IdeasBuilt returns the number of ideas built across all students.
func (r *Result) IdeasBuilt() int {
	total := 0
	for _, s := range r.Students {
		total += s.IdeasBuilt
	}
	return total
}

// PackagesUsed returns the number of packages consumed across all students.
func (r *Result) PackagesUsed() int {
	total := 0
	for _, s := range r.Students {
		total += s.PackagesUsed
	}
	return total
}

// Summary converts the result to its stored form.
func (r *Result) Summary() *eventbus.RunSummary {
	return &eventbus.RunSummary{
		RunID:            r.RunID,
		Ideas:            r.Workload.Ideas,
		IdeaProducers:    r.Workload.IdeaProducers,
		Packages:         r.Workload.Packages,
		PackageProducers: r.Workload.PackageProducers,
		Students:         r.Workload.Students,
		Algorithm:        string(r.Algorithm),
		IdeasProduced:    r.IdeasProduced.String(),
		PackagesProduced: r.PackagesProduced.String(),
		IdeasConsumed:    r.IdeasConsumed.String(),
		PackagesConsumed: r.PackagesConsumed.String(),
		Verified:         r.Verify() == nil,
		DurationMs:       r.Duration.Milliseconds(),
		CompletedAtMs:    r.CompletedAt.UnixMilli(),
	}
}
