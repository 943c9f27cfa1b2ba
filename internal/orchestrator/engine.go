package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/dyluth/hackathon/internal/checksum"
	"github.com/dyluth/hackathon/internal/instance"
	"github.com/dyluth/hackathon/internal/producer"
	"github.com/dyluth/hackathon/internal/student"
	"github.com/dyluth/hackathon/internal/wordlist"
	"github.com/dyluth/hackathon/pkg/eventbus"
	"golang.org/x/sync/errgroup"
)

// SummaryStore persists run summaries. *eventbus.Client implements it.
type SummaryStore interface {
	SaveSummary(ctx context.Context, s *eventbus.RunSummary) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithRunID sets the run identifier used in logs and summaries.
func WithRunID(runID string) Option {
	return func(e *Engine) { e.runID = runID }
}

// WithAlgorithm sets the digest every worker folds into its checksums.
func WithAlgorithm(alg checksum.Algorithm) Option {
	return func(e *Engine) { e.algorithm = alg }
}

// WithBuildLog sets where students flush their build logs.
func WithBuildLog(w io.Writer) Option {
	return func(e *Engine) { e.buildLog = w }
}

// WithSummaryStore saves a summary of every completed run.
func WithSummaryStore(store SummaryStore) Option {
	return func(e *Engine) { e.store = store }
}

// Engine runs one hackathon: it starts every producer and student on a
// shared bus, waits for all of them, and merges their private checksums.
type Engine struct {
	bus       eventbus.Bus
	inputs    *wordlist.Inputs
	workload  Workload
	plan      *Plan
	runID     string
	algorithm checksum.Algorithm
	buildLog  io.Writer
	store     SummaryStore
}

// NewEngine validates the workload and inputs and returns an engine ready to Run.
// Nothing is started until Run is called.
func NewEngine(bus eventbus.Bus, inputs *wordlist.Inputs, workload Workload, opts ...Option) (*Engine, error) {
	if bus == nil {
		return nil, fmt.Errorf("%w: bus is required", ErrInvalidConfig)
	}
	if inputs == nil || len(inputs.IdeaNames) == 0 {
		return nil, fmt.Errorf("%w: idea name space is empty", ErrInvalidConfig)
	}
	if len(inputs.PackageNames) == 0 {
		return nil, fmt.Errorf("%w: package name list is empty", ErrInvalidConfig)
	}

	plan, err := NewPlan(workload)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		bus:       bus,
		inputs:    inputs,
		workload:  workload,
		plan:      plan,
		algorithm: checksum.DefaultAlgorithm,
		buildLog:  io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.runID == "" {
		e.runID = instance.NewRunID()
	}
	if e.buildLog == nil {
		e.buildLog = io.Discard
	}
	if err := e.algorithm.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	// students share the writer; serialise their single Write calls
	e.buildLog = &lockedWriter{w: e.buildLog}

	return e, nil
}

// RunID returns the identifier of the run.
func (e *Engine) RunID() string {
	return e.runID
}

// Plan returns the division of work the engine will run.
func (e *Engine) Plan() *Plan {
	return e.plan
}

// Run starts all workers, waits for them and returns the merged checksums.
// The first worker error cancels the others and is returned; no partial
// result is reported.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	ideaProducers, packageProducers, students, err := e.buildWorkers()
	if err != nil {
		return nil, err
	}

	e.logEvent("run_started", map[string]interface{}{
		"ideas":             e.workload.Ideas,
		"idea_producers":    e.workload.IdeaProducers,
		"packages":          e.workload.Packages,
		"package_producers": e.workload.PackageProducers,
		"students":          e.workload.Students,
		"algorithm":         string(e.algorithm),
	})

	ideaSums := make([]checksum.Checksum, len(ideaProducers))
	packageSums := make([]checksum.Checksum, len(packageProducers))
	studentResults := make([]student.Result, len(students))

	g, gctx := errgroup.WithContext(ctx)

	for i, s := range students {
		i, s := i, s
		g.Go(func() error {
			res, err := s.Run(gctx)
			if err != nil {
				return err
			}
			studentResults[i] = res
			e.logEvent("worker_finished", map[string]interface{}{
				"worker":        "student",
				"id":            i,
				"ideas_built":   res.IdeasBuilt,
				"packages_used": res.PackagesUsed,
			})
			return nil
		})
	}

	for i, p := range packageProducers {
		i, p := i, p
		g.Go(func() error {
			sum, err := p.Run(gctx)
			if err != nil {
				return err
			}
			packageSums[i] = sum
			e.logEvent("worker_finished", map[string]interface{}{
				"worker":   "package_producer",
				"id":       i,
				"packages": e.plan.PackageProducers[i].Packages,
			})
			return nil
		})
	}

	for i, p := range ideaProducers {
		i, p := i, p
		g.Go(func() error {
			sum, err := p.Run(gctx)
			if err != nil {
				return err
			}
			ideaSums[i] = sum
			e.logEvent("worker_finished", map[string]interface{}{
				"worker":   "idea_producer",
				"id":       i,
				"ideas":    e.plan.IdeaProducers[i].Ideas,
				"students": e.plan.IdeaProducers[i].Students,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logEvent("run_failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("run %s aborted: %w", e.runID, err)
	}

	result := &Result{
		RunID:            e.runID,
		Workload:         e.workload,
		Algorithm:        e.algorithm,
		IdeasProduced:    checksum.Merge(ideaSums...),
		PackagesProduced: checksum.Merge(packageSums...),
		Students:         studentResults,
		Events:           e.bus.Stats(),
		Duration:         time.Since(start),
		CompletedAt:      time.Now(),
	}
	for _, r := range studentResults {
		result.IdeasConsumed = result.IdeasConsumed.Combine(r.IdeaChecksum)
		result.PackagesConsumed = result.PackagesConsumed.Combine(r.PackageChecksum)
	}

	e.logEvent("run_completed", map[string]interface{}{
		"verified":    result.Verify() == nil,
		"ideas_built": result.IdeasBuilt(),
		"events":      result.Events.Total(),
		"duration_ms": result.Duration.Milliseconds(),
	})

	if e.store != nil {
		if err := e.store.SaveSummary(ctx, result.Summary()); err != nil {
			return nil, fmt.Errorf("failed to save run summary: %w", err)
		}
	}

	return result, nil
}

// buildWorkers constructs every worker up front so that precondition
// violations surface before any goroutine starts.
func (e *Engine) buildWorkers() ([]*producer.IdeaProducer, []*producer.PackageProducer, []*student.Student, error) {
	ideaProducers := make([]*producer.IdeaProducer, len(e.plan.IdeaProducers))
	for i, a := range e.plan.IdeaProducers {
		p, err := producer.NewIdeaProducer(producer.IdeaProducerConfig{
			ID:        i,
			NamePairs: e.inputs.IdeaNames,
			Offset:    a.Offset,
			Count:     a.Ideas,
			Packages:  a.Packages,
			Students:  a.Students,
			Algorithm: e.algorithm,
			Bus:       e.bus,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		ideaProducers[i] = p
	}

	packageProducers := make([]*producer.PackageProducer, len(e.plan.PackageProducers))
	for i, a := range e.plan.PackageProducers {
		p, err := producer.NewPackageProducer(producer.PackageProducerConfig{
			ID:        i,
			Names:     e.inputs.PackageNames,
			Offset:    a.Offset,
			Count:     a.Packages,
			Algorithm: e.algorithm,
			Bus:       e.bus,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		packageProducers[i] = p
	}

	students := make([]*student.Student, e.workload.Students)
	for i := range students {
		students[i] = student.New(i, e.bus, e.algorithm, e.buildLog)
	}

	return ideaProducers, packageProducers, students, nil
}

// logEvent logs a structured event in JSON format.
func (e *Engine) logEvent(eventType string, data map[string]interface{}) {
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	data["level"] = "info"
	data["component"] = "orchestrator"
	data["event_type"] = eventType
	data["run_id"] = e.runID

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Orchestrator] Failed to marshal log event: %v", err)
		return
	}

	log.Println(string(jsonData))
}

// lockedWriter makes each Write atomic with respect to the others.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
