// Package student implements the consumer side of a hackathon run.
//
// A Student loops over three states:
//
//	Waiting    -> blocks on the idea lane for the next idea or termination signal
//	Collecting -> blocks on the package lane until the idea's package count is met
//	Done       -> terminal; flushes the build log and returns its checksums
//
// A student stops on the first termination signal it receives. Packages are a
// shared pool rather than being tied to particular ideas, so any package a
// student dequeues counts towards whatever idea it is building.
package student

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/dyluth/hackathon/internal/checksum"
	"github.com/dyluth/hackathon/pkg/eventbus"
)

// ErrProtocolViolation is returned when a student receives an event its
// current state cannot accept. The run has no recovery path for this.
var ErrProtocolViolation = errors.New("event protocol violation")

// State is a student's position in its receive loop.
type State string

const (
	// StateWaiting blocks on the idea lane
	StateWaiting State = "waiting"

	// StateCollecting blocks on the package lane until the current idea is buildable
	StateCollecting State = "collecting"

	// StateDone is terminal
	StateDone State = "done"
)

// Result is what a student hands back to the orchestrator when it stops.
type Result struct {
	ID              int               `json:"id"`
	IdeaChecksum    checksum.Checksum `json:"idea_checksum"`
	PackageChecksum checksum.Checksum `json:"package_checksum"`
	IdeasBuilt      int               `json:"ideas_built"`
	PackagesUsed    int               `json:"packages_used"`
	Log             string            `json:"-"`
}

// Student consumes ideas and packages from the bus and "builds" each idea
// once it holds enough packages.
type Student struct {
	id        int
	bus       eventbus.Receiver
	algorithm checksum.Algorithm
	out       io.Writer

	state           State
	idea            *eventbus.Idea
	packages        []eventbus.Package
	ideaChecksum    checksum.Checksum
	packageChecksum checksum.Checksum
	ideasBuilt      int
	packagesUsed    int
	buildLog        strings.Builder
}

// New creates a student reading from bus. out receives the build log in a
// single Write when the student finishes; nil discards it.
func New(id int, bus eventbus.Receiver, alg checksum.Algorithm, out io.Writer) *Student {
	if alg == "" {
		alg = checksum.DefaultAlgorithm
	}
	if out == nil {
		out = io.Discard
	}
	return &Student{
		id:        id,
		bus:       bus,
		algorithm: alg,
		out:       out,
		state:     StateWaiting,
	}
}

// State returns the student's current state.
func (s *Student) State() State {
	return s.state
}

// Run drives the state machine until the student receives a termination
// signal. Receive errors and protocol violations abort it.
func (s *Student) Run(ctx context.Context) (Result, error) {
	for s.state != StateDone {
		var err error
		switch s.state {
		case StateWaiting:
			err = s.wait(ctx)
		case StateCollecting:
			err = s.collect(ctx)
		}
		if err != nil {
			return Result{}, fmt.Errorf("student %d: %w", s.id, err)
		}
	}

	// one Write keeps this student's log contiguous on a shared writer
	if _, err := io.WriteString(s.out, s.buildLog.String()); err != nil {
		return Result{}, fmt.Errorf("student %d: failed to write build log: %w", s.id, err)
	}

	log.Printf("[DEBUG] Student %d finished: %d ideas built with %d packages", s.id, s.ideasBuilt, s.packagesUsed)

	return Result{
		ID:              s.id,
		IdeaChecksum:    s.ideaChecksum,
		PackageChecksum: s.packageChecksum,
		IdeasBuilt:      s.ideasBuilt,
		PackagesUsed:    s.packagesUsed,
		Log:             s.buildLog.String(),
	}, nil
}

func (s *Student) wait(ctx context.Context) error {
	ev, err := s.bus.ReceiveIdea(ctx)
	if err != nil {
		return fmt.Errorf("failed to receive idea: %w", err)
	}

	switch ev.Kind {
	case eventbus.KindNewIdea:
		idea := *ev.Idea
		s.idea = &idea
		s.packages = s.packages[:0]
		s.state = StateCollecting
	case eventbus.KindOutOfIdeas:
		s.state = StateDone
	default:
		return fmt.Errorf("%w: received %s while waiting for an idea", ErrProtocolViolation, ev.Kind)
	}
	return nil
}

func (s *Student) collect(ctx context.Context) error {
	for len(s.packages) < s.idea.RequiredPackages {
		ev, err := s.bus.ReceivePackage(ctx)
		if err != nil {
			return fmt.Errorf("failed to receive package for %q: %w", s.idea.Name, err)
		}
		if ev.Kind != eventbus.KindPackageReady {
			return fmt.Errorf("%w: received %s while collecting packages for %q (%d of %d)",
				ErrProtocolViolation, ev.Kind, s.idea.Name, len(s.packages), s.idea.RequiredPackages)
		}
		s.packages = append(s.packages, *ev.Package)
	}

	s.build()
	s.idea = nil
	s.packages = s.packages[:0]
	s.state = StateWaiting
	return nil
}

// build folds the idea and its packages into the student's checksums and
// appends a build record.
func (s *Student) build() {
	s.ideaChecksum.UpdateString(s.algorithm, s.idea.Name)
	for _, pkg := range s.packages {
		s.packageChecksum.UpdateString(s.algorithm, pkg.Name)
	}
	s.ideasBuilt++
	s.packagesUsed += len(s.packages)

	fmt.Fprintf(&s.buildLog, "\nStudent %d built %s using %d packages\nIdea checksum: %s\nPackage checksum: %s\n",
		s.id, s.idea.Name, len(s.packages), s.ideaChecksum, s.packageChecksum)
	for _, pkg := range s.packages {
		fmt.Fprintf(&s.buildLog, "> %s\n", pkg.Name)
	}
}
