// Package history lists and shows run summaries stored in Redis.
package history

import (
	"context"
	"fmt"
	"io"

	"github.com/dyluth/hackathon/pkg/eventbus"
)

// OutputFormat specifies how to format the run list output.
type OutputFormat string

const (
	// OutputFormatDefault uses a table format with truncated checksums
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL outputs complete summaries as line-delimited JSON
	OutputFormatJSONL OutputFormat = "jsonl"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", OutputFormatDefault:
		return OutputFormatDefault, nil
	case OutputFormatJSONL:
		return OutputFormatJSONL, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (must be '%s' or '%s')", s, OutputFormatDefault, OutputFormatJSONL)
	}
}

// Store is the read side of the summary store. *eventbus.Client implements it.
type Store interface {
	ListSummaries(ctx context.Context) ([]*eventbus.RunSummary, error)
	GetSummary(ctx context.Context, runID string) (*eventbus.RunSummary, error)
}

// FilterCriteria defines filtering options for the runs command.
// All filters are ANDed together.
type FilterCriteria struct {
	SinceTimestampMs int64 // Unix timestamp in milliseconds, 0 = no filter
	UntilTimestampMs int64 // Unix timestamp in milliseconds, 0 = no filter
	FailedOnly       bool  // only runs whose checksums did not verify
	Limit            int   // maximum number of runs, 0 = no limit
}

// matchesFilter returns true if the summary matches all filter criteria.
func (fc *FilterCriteria) matchesFilter(s *eventbus.RunSummary) bool {
	if fc.SinceTimestampMs > 0 && s.CompletedAtMs < fc.SinceTimestampMs {
		return false
	}
	if fc.UntilTimestampMs > 0 && s.CompletedAtMs > fc.UntilTimestampMs {
		return false
	}
	if fc.FailedOnly && s.Verified {
		return false
	}
	return true
}

// ListRuns retrieves stored run summaries, most recent first, and writes them to w.
func ListRuns(ctx context.Context, store Store, format OutputFormat, filters *FilterCriteria, w io.Writer) error {
	summaries, err := store.ListSummaries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*eventbus.RunSummary, 0, len(summaries))
	for _, s := range summaries {
		if filters != nil && !filters.matchesFilter(s) {
			continue
		}
		runs = append(runs, s)
		if filters != nil && filters.Limit > 0 && len(runs) == filters.Limit {
			break
		}
	}

	switch format {
	case OutputFormatDefault:
		FormatTable(w, runs)
	case OutputFormatJSONL:
		if err := FormatJSONL(w, runs); err != nil {
			return fmt.Errorf("failed to format JSONL output: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	return nil
}
