package eventbus

import (
	"fmt"
)

// Idea is a unit of demand: a name and the number of packages needed to build it.
type Idea struct {
	Name             string `json:"name"`
	RequiredPackages int    `json:"required_packages"`
}

// Package is a unit of supply.
type Package struct {
	Name string `json:"name"`
}

// EventKind tags the payload carried by an Event.
type EventKind string

const (
	// KindNewIdea carries a freshly generated Idea
	KindNewIdea EventKind = "new_idea"

	// KindOutOfIdeas tells the receiving student to stop
	KindOutOfIdeas EventKind = "out_of_ideas"

	// KindPackageReady carries a Package students can build with
	KindPackageReady EventKind = "package_ready"
)

// Lane identifies one of the bus's FIFO queues.
type Lane string

const (
	// LaneIdeas carries new_idea and out_of_ideas events
	LaneIdeas Lane = "ideas"

	// LanePackages carries package_ready events
	LanePackages Lane = "packages"
)

// Event is the message placed on the bus.
// Exactly one of Idea and Package is set for new_idea and package_ready;
// neither is set for out_of_ideas.
type Event struct {
	Kind    EventKind `json:"kind"`
	Idea    *Idea     `json:"idea,omitempty"`
	Package *Package  `json:"package,omitempty"`
}

// NewIdeaEvent wraps an idea.
func NewIdeaEvent(idea Idea) Event {
	return Event{Kind: KindNewIdea, Idea: &idea}
}

// OutOfIdeasEvent returns a termination signal.
func OutOfIdeasEvent() Event {
	return Event{Kind: KindOutOfIdeas}
}

// PackageReadyEvent wraps a package.
func PackageReadyEvent(pkg Package) Event {
	return Event{Kind: KindPackageReady, Package: &pkg}
}

// Lane returns the lane events of this kind travel on.
func (k EventKind) Lane() Lane {
	if k == KindPackageReady {
		return LanePackages
	}
	return LaneIdeas
}

// Validate checks if the EventKind is a valid enum value.
func (k EventKind) Validate() error {
	switch k {
	case KindNewIdea, KindOutOfIdeas, KindPackageReady:
		return nil
	default:
		return fmt.Errorf("unknown event kind: %q", k)
	}
}

// Validate checks that the payload matches the kind.
func (e Event) Validate() error {
	if err := e.Kind.Validate(); err != nil {
		return err
	}

	switch e.Kind {
	case KindNewIdea:
		if e.Idea == nil || e.Package != nil {
			return fmt.Errorf("new_idea event must carry only an idea")
		}
		if e.Idea.Name == "" {
			return fmt.Errorf("idea name cannot be empty")
		}
		if e.Idea.RequiredPackages < 0 {
			return fmt.Errorf("idea %q: required packages must be >= 0, got %d", e.Idea.Name, e.Idea.RequiredPackages)
		}
	case KindOutOfIdeas:
		if e.Idea != nil || e.Package != nil {
			return fmt.Errorf("out_of_ideas event cannot carry a payload")
		}
	case KindPackageReady:
		if e.Package == nil || e.Idea != nil {
			return fmt.Errorf("package_ready event must carry only a package")
		}
		if e.Package.Name == "" {
			return fmt.Errorf("package name cannot be empty")
		}
	}

	return nil
}

// String renders the event for logs.
func (e Event) String() string {
	switch {
	case e.Idea != nil:
		return fmt.Sprintf("%s(%s, %d packages)", e.Kind, e.Idea.Name, e.Idea.RequiredPackages)
	case e.Package != nil:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Package.Name)
	default:
		return string(e.Kind)
	}
}
