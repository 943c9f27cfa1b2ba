package eventbus

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Serialization helpers for converting between Go structs and Redis values
//
// Events travel through Redis lists as compact JSON documents. Run summaries
// are stored as Redis hashes with one field per struct field, so individual
// values can be inspected with HGET.

// EncodeEvent validates ev and marshals it to JSON.
func EncodeEvent(ev Event) ([]byte, error) {
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

// DecodeEvent unmarshals and validates a JSON event.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return Event{}, fmt.Errorf("invalid event: %w", err)
	}
	return ev, nil
}

// SummaryToHash converts a RunSummary to a Redis hash format.
func SummaryToHash(s *RunSummary) map[string]interface{} {
	return map[string]interface{}{
		"run_id":            s.RunID,
		"ideas":             s.Ideas,
		"idea_producers":    s.IdeaProducers,
		"packages":          s.Packages,
		"package_producers": s.PackageProducers,
		"students":          s.Students,
		"algorithm":         s.Algorithm,
		"ideas_produced":    s.IdeasProduced,
		"packages_produced": s.PackagesProduced,
		"ideas_consumed":    s.IdeasConsumed,
		"packages_consumed": s.PackagesConsumed,
		"verified":          strconv.FormatBool(s.Verified),
		"duration_ms":       s.DurationMs,
		"completed_at_ms":   s.CompletedAtMs,
	}
}

// HashToSummary converts a Redis hash to a RunSummary.
func HashToSummary(hash map[string]string) (*RunSummary, error) {
	ints := make(map[string]int)
	for _, field := range []string{"ideas", "idea_producers", "packages", "package_producers", "students"} {
		v, err := strconv.Atoi(hash[field])
		if err != nil {
			return nil, fmt.Errorf("invalid %s field: %w", field, err)
		}
		ints[field] = v
	}

	verified, err := strconv.ParseBool(hash["verified"])
	if err != nil {
		return nil, fmt.Errorf("invalid verified field: %w", err)
	}

	durationMs, err := strconv.ParseInt(hash["duration_ms"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid duration_ms field: %w", err)
	}
	completedAtMs, err := strconv.ParseInt(hash["completed_at_ms"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid completed_at_ms field: %w", err)
	}

	return &RunSummary{
		RunID:            hash["run_id"],
		Ideas:            ints["ideas"],
		IdeaProducers:    ints["idea_producers"],
		Packages:         ints["packages"],
		PackageProducers: ints["package_producers"],
		Students:         ints["students"],
		Algorithm:        hash["algorithm"],
		IdeasProduced:    hash["ideas_produced"],
		PackagesProduced: hash["packages_produced"],
		IdeasConsumed:    hash["ideas_consumed"],
		PackagesConsumed: hash["packages_consumed"],
		Verified:         verified,
		DurationMs:       durationMs,
		CompletedAtMs:    completedAtMs,
	}, nil
}
