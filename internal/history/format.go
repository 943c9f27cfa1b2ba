package history

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/hackathon/pkg/eventbus"
)

// FormatTable writes run summaries as a formatted table to the provided writer.
// The table includes columns: RUN, WORKLOAD, ALGO, OK, DURATION, AGE, and the ideas checksum (truncated).
// Returns the number of runs formatted.
func FormatTable(w io.Writer, runs []*eventbus.RunSummary) int {
	if len(runs) == 0 {
		fmt.Fprintf(w, "No runs found\n")
		return 0
	}

	// Print header row
	fmt.Fprintf(w, "%-18s %-22s %-7s %-3s %-9s %-8s %s\n",
		"RUN", "WORKLOAD", "ALGO", "OK", "DURATION", "AGE", "IDEAS")
	fmt.Fprintf(w, "%-18s %-22s %-7s %-3s %-9s %-8s %s\n",
		"------------------", "----------------------", "-------", "---", "---------", "--------", "----------------")

	for _, r := range runs {
		fmt.Fprintf(w, "%-18s %-22s %-7s %-3s %-9s %-8s %s\n",
			formatRunID(r.RunID),
			formatWorkload(r),
			r.Algorithm,
			formatVerified(r.Verified),
			formatDuration(r.DurationMs),
			formatTimestamp(r.CompletedAtMs),
			formatChecksum(r.IdeasProduced),
		)
	}

	countMsg := "run"
	if len(runs) != 1 {
		countMsg = "runs"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(runs), countMsg)

	return len(runs)
}

// FormatJSONL writes run summaries as line-delimited JSON (JSONL) to the provided writer.
func FormatJSONL(w io.Writer, runs []*eventbus.RunSummary) error {
	for _, run := range runs {
		data, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("failed to marshal run summary to JSON: %w", err)
		}

		if _, err := fmt.Fprintf(w, "%s\n", string(data)); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}

	return nil
}

// FormatSingleJSON writes a single run summary as pretty-printed JSON to the provided writer.
func FormatSingleJSON(w io.Writer, run *eventbus.RunSummary) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary to JSON: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)

	return nil
}

// formatRunID truncates long run IDs for compact display.
func formatRunID(id string) string {
	if len(id) > 18 {
		return id[:15] + "..."
	}
	return id
}

// formatWorkload renders the five counts in command-line argument order.
func formatWorkload(r *eventbus.RunSummary) string {
	return fmt.Sprintf("%d/%d/%d/%d/%d", r.Ideas, r.IdeaProducers, r.Packages, r.PackageProducers, r.Students)
}

func formatVerified(ok bool) string {
	if ok {
		return "yes"
	}
	return "NO"
}

// formatChecksum shows the first 16 hex characters of a checksum, or "-" if empty.
func formatChecksum(hex string) string {
	if hex == "" {
		return "-"
	}
	if len(hex) > 16 {
		return hex[:16]
	}
	return hex
}

func formatDuration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}

// formatTimestamp formats Unix timestamp in milliseconds to human-readable time.
// Shows relative time like "2m ago", "1h ago", etc.
func formatTimestamp(timestampMs int64) string {
	if timestampMs == 0 {
		return "-"
	}

	t := time.UnixMilli(timestampMs)
	diff := time.Since(t)

	if diff < time.Minute {
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
