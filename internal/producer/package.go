package producer

import (
	"context"
	"fmt"
	"log"

	"github.com/dyluth/hackathon/internal/checksum"
	"github.com/dyluth/hackathon/pkg/eventbus"
)

// PackageProducerConfig describes one package producer's slice of the run.
type PackageProducerConfig struct {
	ID        int
	Names     []string // shared, read-only
	Offset    int
	Count     int
	Algorithm checksum.Algorithm
	Bus       eventbus.Sender
}

// PackageProducer emits package_ready events onto the bus.
type PackageProducer struct {
	cfg PackageProducerConfig
}

// NewPackageProducer validates cfg and returns a producer ready to Run.
// A zero Count is allowed: the producer then emits nothing.
func NewPackageProducer(cfg PackageProducerConfig) (*PackageProducer, error) {
	if len(cfg.Names) == 0 {
		return nil, fmt.Errorf("package producer %d: %w", cfg.ID, ErrNoNames)
	}
	if cfg.Offset < 0 || cfg.Count < 0 {
		return nil, fmt.Errorf("package producer %d: offset and count must be >= 0", cfg.ID)
	}
	if cfg.Bus == nil {
		return nil, fmt.Errorf("package producer %d: bus is required", cfg.ID)
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = checksum.DefaultAlgorithm
	}

	return &PackageProducer{cfg: cfg}, nil
}

// PackageName returns the name of package i, wrapping around the name list.
func PackageName(names []string, i int) string {
	return names[i%len(names)]
}

// Run emits Count packages and returns the checksum of every name emitted.
func (p *PackageProducer) Run(ctx context.Context) (checksum.Checksum, error) {
	var sum checksum.Checksum

	for i := 0; i < p.cfg.Count; i++ {
		name := PackageName(p.cfg.Names, p.cfg.Offset+i)

		sum.UpdateString(p.cfg.Algorithm, name)

		if err := p.cfg.Bus.Send(ctx, eventbus.PackageReadyEvent(eventbus.Package{Name: name})); err != nil {
			return checksum.Checksum{}, fmt.Errorf("package producer %d: failed to send package %q: %w", p.cfg.ID, name, err)
		}
	}

	log.Printf("[DEBUG] Package producer %d emitted %d packages", p.cfg.ID, p.cfg.Count)
	return sum, nil
}
