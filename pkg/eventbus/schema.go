package eventbus

import "fmt"

// Redis key pattern helpers
//
// All Redis keys are namespaced by run ID so several runs can share one
// Redis server without seeing each other's events.
//
// Key pattern: hackathon:{run_id}:{entity}

// KeyPrefix is the prefix shared by every key the bus writes.
const KeyPrefix = "hackathon"

// LaneKey returns the Redis list key backing a lane.
// Pattern: hackathon:{run_id}:{lane}
func LaneKey(runID string, l Lane) string {
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, runID, l)
}

// SummaryKey returns the Redis hash key holding a run summary.
// Pattern: hackathon:{run_id}:summary
func SummaryKey(runID string) string {
	return fmt.Sprintf("%s:%s:summary", KeyPrefix, runID)
}

// SummaryKeyPattern matches the summary keys of every run.
func SummaryKeyPattern() string {
	return fmt.Sprintf("%s:*:summary", KeyPrefix)
}
