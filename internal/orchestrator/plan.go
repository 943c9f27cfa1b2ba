package orchestrator

import (
	"errors"
	"fmt"

	"github.com/dyluth/hackathon/internal/partition"
)

// ErrInvalidConfig is returned when a run cannot start with the given workload or inputs.
var ErrInvalidConfig = errors.New("invalid run configuration")

// Workload is the size of a run: how much work exists and how many
// goroutines of each kind share it.
type Workload struct {
	Ideas            int `json:"ideas" yaml:"ideas"`
	IdeaProducers    int `json:"idea_producers" yaml:"idea_producers"`
	Packages         int `json:"packages" yaml:"packages"`
	PackageProducers int `json:"package_producers" yaml:"package_producers"`
	Students         int `json:"students" yaml:"students"`
}

// Validate checks the workload before any goroutine is started.
func (w Workload) Validate() error {
	if w.Ideas < 1 {
		return fmt.Errorf("%w: ideas must be >= 1, got %d", ErrInvalidConfig, w.Ideas)
	}
	if w.Packages < 0 {
		return fmt.Errorf("%w: packages must be >= 0, got %d", ErrInvalidConfig, w.Packages)
	}
	if w.Students < 1 {
		return fmt.Errorf("%w: students must be >= 1, got %d", ErrInvalidConfig, w.Students)
	}
	if err := partition.Validate(w.IdeaProducers); err != nil {
		return fmt.Errorf("%w: idea producers: %v", ErrInvalidConfig, err)
	}
	if err := partition.Validate(w.PackageProducers); err != nil {
		return fmt.Errorf("%w: package producers: %v", ErrInvalidConfig, err)
	}

	// every idea producer must own at least one idea
	if w.IdeaProducers > w.Ideas {
		return fmt.Errorf("%w: %d idea producers cannot share %d ideas", ErrInvalidConfig, w.IdeaProducers, w.Ideas)
	}
	// every idea producer must queue at least one out_of_ideas behind its ideas
	if w.Students < w.IdeaProducers {
		return fmt.Errorf("%w: %d students cannot receive termination signals from %d idea producers", ErrInvalidConfig, w.Students, w.IdeaProducers)
	}
	return nil
}

// IdeaAssignment is one idea producer's share of the run.
type IdeaAssignment struct {
	Offset   int `json:"offset"`
	Ideas    int `json:"ideas"`
	Packages int `json:"packages"`
	Students int `json:"students"`
}

// PackageAssignment is one package producer's share of the run.
type PackageAssignment struct {
	Offset   int `json:"offset"`
	Packages int `json:"packages"`
}

// Plan is the deterministic division of a workload across producers.
type Plan struct {
	IdeaProducers    []IdeaAssignment    `json:"idea_producers"`
	PackageProducers []PackageAssignment `json:"package_producers"`
}

// NewPlan splits w across its producers. Ideas, packages and termination
// signals are all divided with partition.Split, so the same workload always
// yields the same plan.
func NewPlan(w Workload) (*Plan, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{
		IdeaProducers:    make([]IdeaAssignment, w.IdeaProducers),
		PackageProducers: make([]PackageAssignment, w.PackageProducers),
	}

	ideaOffsets := partition.Offsets(w.Ideas, w.IdeaProducers)
	for i := range plan.IdeaProducers {
		plan.IdeaProducers[i] = IdeaAssignment{
			Offset:   ideaOffsets[i],
			Ideas:    partition.Split(w.Ideas, w.IdeaProducers, i),
			Packages: partition.Split(w.Packages, w.IdeaProducers, i),
			Students: partition.Split(w.Students, w.IdeaProducers, i),
		}
	}

	packageOffsets := partition.Offsets(w.Packages, w.PackageProducers)
	for i := range plan.PackageProducers {
		plan.PackageProducers[i] = PackageAssignment{
			Offset:   packageOffsets[i],
			Packages: partition.Split(w.Packages, w.PackageProducers, i),
		}
	}

	return plan, nil
}

// TerminationSignals returns how many out_of_ideas events the plan emits.
func (p *Plan) TerminationSignals() int {
	total := 0
	for _, a := range p.IdeaProducers {
		total += a.Students
	}
	return total
}

// ExpectedEvents returns the number of events a complete run places on the bus.
func (p *Plan) ExpectedEvents() int {
	total := p.TerminationSignals()
	for _, a := range p.IdeaProducers {
		total += a.Ideas
	}
	for _, a := range p.PackageProducers {
		total += a.Packages
	}
	return total
}
