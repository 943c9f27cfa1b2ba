package history

import (
	"fmt"
	"time"
)

// ParseTime turns a --since/--until value into a Unix timestamp in milliseconds.
// It accepts an RFC3339 timestamp or a Go duration, which is taken as "that long before now".
func ParseTime(input string, now time.Time) (int64, error) {
	if input == "" {
		return 0, fmt.Errorf("empty time filter")
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UnixMilli(), nil
	}

	if d, err := time.ParseDuration(input); err == nil {
		return now.Add(-d).UnixMilli(), nil
	}

	return 0, fmt.Errorf("invalid time filter: %s (use duration like '1h30m' or RFC3339 like '2025-10-29T13:00:00Z')", input)
}

// ParseRange fills the time bounds of fc from --since and --until.
// Empty values leave the corresponding bound open.
func (fc *FilterCriteria) ParseRange(since, until string, now time.Time) error {
	var err error

	if since != "" {
		if fc.SinceTimestampMs, err = ParseTime(since, now); err != nil {
			return fmt.Errorf("invalid --since: %w", err)
		}
	}

	if until != "" {
		if fc.UntilTimestampMs, err = ParseTime(until, now); err != nil {
			return fmt.Errorf("invalid --until: %w", err)
		}
	}

	if fc.SinceTimestampMs > 0 && fc.UntilTimestampMs > 0 && fc.SinceTimestampMs >= fc.UntilTimestampMs {
		return fmt.Errorf("--since must be before --until")
	}

	return nil
}
