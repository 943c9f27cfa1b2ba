package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/dyluth/hackathon/pkg/eventbus"
)

// MinPrefixLength is the minimum length of a run ID prefix.
const MinPrefixLength = 6

// ResolveRunID resolves a run ID or a unique prefix of one to a full run ID.
// An exact match always wins, so a run whose ID prefixes another stays reachable.
func ResolveRunID(ctx context.Context, store Store, prefix string) (string, error) {
	if _, err := store.GetSummary(ctx, prefix); err == nil {
		return prefix, nil
	} else if !eventbus.IsNotFound(err) {
		return "", fmt.Errorf("failed to look up run: %w", err)
	}

	if len(prefix) < MinPrefixLength {
		return "", fmt.Errorf("run ID prefix must be at least %d characters (got %d)", MinPrefixLength, len(prefix))
	}

	summaries, err := store.ListSummaries(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to search for run: %w", err)
	}

	var matches []string
	for _, s := range summaries {
		if strings.HasPrefix(s.RunID, prefix) {
			matches = append(matches, s.RunID)
		}
	}

	switch len(matches) {
	case 0:
		return "", &RunNotFoundError{RunID: prefix}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Prefix: prefix, Matches: matches}
	}
}

// AmbiguousError indicates multiple runs matched a prefix.
type AmbiguousError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous run ID '%s' matches %d runs", e.Prefix, len(e.Matches))
}

// FormatAmbiguousError lists the matching run IDs (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	msg := fmt.Sprintf("Error: ambiguous run ID '%s' matches %d runs:\n", err.Prefix, len(err.Matches))

	displayCount := len(err.Matches)
	if displayCount > 10 {
		displayCount = 10
	}

	for i := 0; i < displayCount; i++ {
		msg += fmt.Sprintf("  %s\n", err.Matches[i])
	}

	if len(err.Matches) > 10 {
		msg += fmt.Sprintf("  ...and %d more\n", len(err.Matches)-10)
	}

	msg += "\nUse a longer prefix to uniquely identify the run."
	return msg
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	_, ok := err.(*AmbiguousError)
	return ok
}
