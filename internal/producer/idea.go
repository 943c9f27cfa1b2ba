package producer

import (
	"context"
	"fmt"
	"log"

	"github.com/dyluth/hackathon/internal/checksum"
	"github.com/dyluth/hackathon/internal/partition"
	"github.com/dyluth/hackathon/internal/wordlist"
	"github.com/dyluth/hackathon/pkg/eventbus"
)

// IdeaProducerConfig describes one idea producer's slice of the run.
type IdeaProducerConfig struct {
	ID        int
	NamePairs []wordlist.Pair // shared, read-only
	Offset    int             // index of the first idea in the name space
	Count     int             // ideas to emit
	Packages  int             // packages split across this producer's ideas
	Students  int             // termination signals to emit after the last idea
	Algorithm checksum.Algorithm
	Bus       eventbus.Sender
}

// IdeaProducer emits ideas and termination signals onto the bus.
type IdeaProducer struct {
	cfg IdeaProducerConfig
}

// NewIdeaProducer validates cfg and returns a producer ready to Run.
func NewIdeaProducer(cfg IdeaProducerConfig) (*IdeaProducer, error) {
	if cfg.Count < 1 {
		return nil, fmt.Errorf("idea producer %d: %w", cfg.ID, ErrNoIdeas)
	}
	if len(cfg.NamePairs) == 0 {
		return nil, fmt.Errorf("idea producer %d: %w", cfg.ID, ErrNoNames)
	}
	if cfg.Offset < 0 || cfg.Packages < 0 || cfg.Students < 0 {
		return nil, fmt.Errorf("idea producer %d: offset, packages and students must be >= 0", cfg.ID)
	}
	if cfg.Bus == nil {
		return nil, fmt.Errorf("idea producer %d: bus is required", cfg.ID)
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = checksum.DefaultAlgorithm
	}

	return &IdeaProducer{cfg: cfg}, nil
}

// IdeaName returns the name of idea i. The name space wraps around once i
// reaches len(pairs), so the sequence is periodic.
func IdeaName(pairs []wordlist.Pair, i int) string {
	pair := pairs[i%len(pairs)]
	return fmt.Sprintf("%s for %s", pair.Product, pair.Customer)
}

// Run emits Count ideas, then Students termination signals, and returns the
// checksum of every idea name emitted. The first send error aborts the run.
func (p *IdeaProducer) Run(ctx context.Context) (checksum.Checksum, error) {
	var sum checksum.Checksum

	for i := 0; i < p.cfg.Count; i++ {
		idea := eventbus.Idea{
			Name:             IdeaName(p.cfg.NamePairs, p.cfg.Offset+i),
			RequiredPackages: partition.Split(p.cfg.Packages, p.cfg.Count, i),
		}

		sum.UpdateString(p.cfg.Algorithm, idea.Name)

		if err := p.cfg.Bus.Send(ctx, eventbus.NewIdeaEvent(idea)); err != nil {
			return checksum.Checksum{}, fmt.Errorf("idea producer %d: failed to send idea %q: %w", p.cfg.ID, idea.Name, err)
		}
	}

	for i := 0; i < p.cfg.Students; i++ {
		if err := p.cfg.Bus.Send(ctx, eventbus.OutOfIdeasEvent()); err != nil {
			return checksum.Checksum{}, fmt.Errorf("idea producer %d: failed to send termination signal: %w", p.cfg.ID, err)
		}
	}

	log.Printf("[DEBUG] Idea producer %d emitted %d ideas and %d termination signals", p.cfg.ID, p.cfg.Count, p.cfg.Students)
	return sum, nil
}
