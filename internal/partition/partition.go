// Package partition splits a finite amount of work evenly across a fixed
// number of workers.
//
// Every function here is pure and deterministic: the same (total, workers)
// pair always yields the same shares, which is what lets producers on
// different goroutines agree on their slices without talking to each other.
package partition

import (
	"errors"
	"fmt"
)

// ErrNoWorkers is returned when work is partitioned across zero workers.
var ErrNoWorkers = errors.New("worker count must be at least 1")

// Validate checks that work can be partitioned across the given worker count.
func Validate(workers int) error {
	if workers < 1 {
		return fmt.Errorf("%w: got %d", ErrNoWorkers, workers)
	}
	return nil
}

// Split returns the share of total assigned to the worker at index.
// The first total%workers workers receive one extra unit, so shares differ
// by at most one and always sum to total.
//
// Split panics if workers < 1. Callers validate worker counts up front.
func Split(total, workers, index int) int {
	if workers < 1 {
		panic(fmt.Sprintf("partition: split across %d workers", workers))
	}
	share := total / workers
	if index < total%workers {
		share++
	}
	return share
}

// Shares returns the share of every worker in index order.
func Shares(total, workers int) []int {
	shares := make([]int, workers)
	for i := range shares {
		shares[i] = Split(total, workers, i)
	}
	return shares
}

// Offsets returns the starting offset of each worker's contiguous slice.
// Worker i owns [Offsets[i], Offsets[i]+Split(total, workers, i)).
func Offsets(total, workers int) []int {
	offsets := make([]int, workers)
	next := 0
	for i := range offsets {
		offsets[i] = next
		next += Split(total, workers, i)
	}
	return offsets
}
