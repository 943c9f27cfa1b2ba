package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrClosed is returned by bus operations after Close.
var ErrClosed = errors.New("event bus closed")

// Sender places events on the bus.
type Sender interface {
	Send(ctx context.Context, ev Event) error
}

// Receiver takes events off one lane of the bus, blocking while it is empty.
type Receiver interface {
	ReceiveIdea(ctx context.Context) (Event, error)
	ReceivePackage(ctx context.Context) (Event, error)
}

// Bus is a shared multi-producer multi-consumer event channel.
type Bus interface {
	Sender
	Receiver
	Stats() Stats
	Close() error
}

// Stats counts events sent through a bus, by kind.
type Stats struct {
	Ideas        int64 `json:"ideas"`
	Terminations int64 `json:"terminations"`
	Packages     int64 `json:"packages"`
}

// Total returns the number of events sent.
func (s Stats) Total() int64 {
	return s.Ideas + s.Terminations + s.Packages
}

// counters is embedded by both backends to track Stats.
type counters struct {
	ideas        atomic.Int64
	terminations atomic.Int64
	packages     atomic.Int64
}

func (c *counters) record(kind EventKind) {
	switch kind {
	case KindNewIdea:
		c.ideas.Add(1)
	case KindOutOfIdeas:
		c.terminations.Add(1)
	case KindPackageReady:
		c.packages.Add(1)
	}
}

func (c *counters) snapshot() Stats {
	return Stats{
		Ideas:        c.ideas.Load(),
		Terminations: c.terminations.Load(),
		Packages:     c.packages.Load(),
	}
}
