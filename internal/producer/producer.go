// Package producer generates the work that flows through a hackathon run.
//
// An IdeaProducer emits a contiguous slice of ideas followed by its quota of
// termination signals. A PackageProducer emits a contiguous slice of
// packages and never signals termination. Both fold every name they emit
// into a private checksum that the orchestrator merges after the join.
package producer

import (
	"errors"
)

var (
	// ErrNoIdeas is returned when an idea producer is assigned zero ideas.
	ErrNoIdeas = errors.New("idea producer must emit at least one idea")

	// ErrNoNames is returned when a producer has an empty name space to draw from.
	ErrNoNames = errors.New("name list cannot be empty")
)
