package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dyluth/hackathon/internal/config"
	"github.com/dyluth/hackathon/internal/instance"
	"github.com/dyluth/hackathon/internal/orchestrator"
	"github.com/dyluth/hackathon/internal/printer"
	"github.com/dyluth/hackathon/internal/wordlist"
	"github.com/dyluth/hackathon/pkg/eventbus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// workloadArgs names the positional arguments of run, in order
var workloadArgs = []string{"ideas", "idea-producers", "packages", "package-producers", "students"}

type runOptions struct {
	configPath       string
	ideas            int
	ideaProducers    int
	packages         int
	packageProducers int
	students         int
	algorithm        string
	backend          string
	redisURL         string
	name             string
	healthAddr       string
	output           string
	quiet            bool
	verbose          bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [ideas] [idea-producers] [packages] [package-producers] [students]",
		Short: "Run the pipeline and verify its checksums",
		Long: `Run the idea/package pipeline to completion and report the global checksums.

Workload counts are taken from hackathon.yml (defaults: 80 2 4000 6 6) and can be
overridden positionally or with flags. Flags win over positional arguments.

Backends:
  memory - in-process queues (default)
  redis  - events travel through Redis lists and a run summary is stored

Exits non-zero if produced and consumed checksums differ.

Examples:
  # Default workload
  hackathon run

  # 10 ideas from 1 producer, 100 packages from 4 producers, 3 students
  hackathon run 10 1 100 4 3

  # Through Redis with BLAKE3 checksums, result as JSON
  hackathon run --backend=redis --algorithm=blake3 --output=json`,
		Args: cobra.MaximumNArgs(len(workloadArgs)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Path to hackathon.yml")
	f.IntVar(&opts.ideas, "ideas", 0, "Number of ideas to generate")
	f.IntVar(&opts.ideaProducers, "idea-producers", 0, "Number of idea producer goroutines")
	f.IntVar(&opts.packages, "packages", 0, "Number of packages to produce")
	f.IntVar(&opts.packageProducers, "package-producers", 0, "Number of package producer goroutines")
	f.IntVar(&opts.students, "students", 0, "Number of student goroutines")
	f.StringVar(&opts.algorithm, "algorithm", "", "Checksum algorithm: sha256 or blake3")
	f.StringVar(&opts.backend, "backend", "", "Queue backend: memory or redis")
	f.StringVar(&opts.redisURL, "redis-url", "", "Redis URL for the redis backend")
	f.StringVarP(&opts.name, "name", "n", "", "Run name (auto-generated if omitted)")
	f.StringVar(&opts.healthAddr, "health-addr", "", "Serve run progress on /healthz at this address (e.g. :8080)")
	f.StringVarP(&opts.output, "output", "o", outputText, "Output format: text or json")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print per-student build records")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Write structured run logs to stderr")

	return cmd
}

func runPipeline(cmd *cobra.Command, opts *runOptions, args []string) error {
	if opts.output != outputText && opts.output != outputJSON {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", opts.output),
			[]string{"Valid formats: text, json"},
		)
	}

	if opts.verbose {
		log.SetOutput(cmd.ErrOrStderr())
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := loadRunConfig(cmd, opts, args)
	if err != nil {
		return err
	}

	runID, err := instance.ResolveName(opts.name)
	if err != nil {
		return printer.Error("invalid run name", err.Error(), []string{"Use lowercase letters, digits and hyphens, e.g. --name nightly-1"})
	}

	inputs, err := wordlist.Load(cfg.Data.Products, cfg.Data.Customers, cfg.Data.Packages)
	if err != nil {
		return printer.ErrorWithContext(
			"failed to load word lists",
			err.Error(),
			map[string]string{
				"Products":  cfg.Data.Products,
				"Customers": cfg.Data.Customers,
				"Packages":  cfg.Data.Packages,
			},
			[]string{"Create sample word lists with:\n  hackathon init"},
		)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workload := cfg.RunWorkload()
	bus, client, err := openBus(ctx, cfg, runID, workload)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
	}
	defer bus.Close()

	out := cmd.OutOrStdout()
	engineOpts := []orchestrator.Option{
		orchestrator.WithRunID(runID),
		orchestrator.WithAlgorithm(cfg.Algorithm()),
	}
	if opts.output == outputText && !opts.quiet {
		engineOpts = append(engineOpts, orchestrator.WithBuildLog(out))
	}
	if client != nil {
		engineOpts = append(engineOpts, orchestrator.WithSummaryStore(client))
	}

	engine, err := orchestrator.NewEngine(bus, inputs, workload, engineOpts...)
	if err != nil {
		return printer.Error("invalid run configuration", err.Error(), nil)
	}

	if opts.healthAddr != "" {
		var pinger orchestrator.Pinger
		if client != nil {
			pinger = client
		}
		health := orchestrator.NewHealthServer(engine, pinger)
		if err := health.Start(opts.healthAddr); err != nil {
			return printer.Error("failed to start health server", err.Error(), []string{"Choose a free address with --health-addr"})
		}
		defer health.Shutdown(context.Background())
		log.Printf("[INFO] Health endpoint listening on http://%s/healthz", health.Addr())
	}

	if opts.output == outputText {
		printer.Step("Starting run %s: %d ideas, %d packages, %d students\n", runID, workload.Ideas, workload.Packages, workload.Students)
	}

	result, err := engine.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return printer.Error("run interrupted", fmt.Sprintf("Run %s was cancelled before completion.", runID), nil)
		}
		return printer.ErrorWithContext("run failed", err.Error(), map[string]string{"Run": runID}, nil)
	}

	if opts.output == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to write JSON output: %w", err)
		}
	} else {
		fmt.Fprintln(out)
		printer.WriteReport(out, printer.Checksums{
			IdeaGenerator:     result.IdeasProduced,
			StudentIdea:       result.IdeasConsumed,
			PackageDownloader: result.PackagesProduced,
			StudentPackage:    result.PackagesConsumed,
		})
	}

	if err := result.Verify(); err != nil {
		return printer.ErrorWithContext(
			"checksum mismatch",
			err.Error(),
			map[string]string{"Run": runID},
			[]string{"Re-run with --verbose to see which workers finished and what they consumed"},
		)
	}

	if opts.output == outputText {
		printer.Success("Checksums verified in %s\n", result.Duration)
	}

	return nil
}

// loadRunConfig reads hackathon.yml and applies command-line overrides.
// A missing default config file is not an error; an explicit --config must exist.
func loadRunConfig(cmd *cobra.Command, opts *runOptions, args []string) (*config.HackathonConfig, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, printer.ErrorWithContext(
				"failed to load configuration",
				err.Error(),
				map[string]string{"Config": opts.configPath},
				[]string{"Create a default configuration with:\n  hackathon init"},
			)
		}
		cfg = config.Default()
	}

	fields := []**int{
		&cfg.Workload.Ideas,
		&cfg.Workload.IdeaProducers,
		&cfg.Workload.Packages,
		&cfg.Workload.PackageProducers,
		&cfg.Workload.Students,
	}
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, printer.Error(
				"invalid argument",
				fmt.Sprintf("%s must be an integer, got %q", workloadArgs[i], arg),
				[]string{"Usage: hackathon run [ideas] [idea-producers] [packages] [package-producers] [students]"},
			)
		}
		*fields[i] = &n
	}

	flagValues := []int{opts.ideas, opts.ideaProducers, opts.packages, opts.packageProducers, opts.students}
	for i, name := range workloadArgs {
		if cmd.Flags().Changed(name) {
			v := flagValues[i]
			*fields[i] = &v
		}
	}

	if opts.algorithm != "" {
		cfg.Checksum.Algorithm = opts.algorithm
	}
	if opts.backend != "" {
		cfg.Queue.Backend = opts.backend
	}
	if opts.redisURL != "" {
		cfg.Queue.RedisURL = opts.redisURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, printer.Error(
			"invalid configuration",
			err.Error(),
			[]string{"Counts must be >= 1 (packages may be 0) and idea-producers must not exceed ideas or students"},
		)
	}

	return cfg, nil
}

// openBus creates the event bus for a run. The returned client is nil for the memory backend.
func openBus(ctx context.Context, cfg *config.HackathonConfig, runID string, w orchestrator.Workload) (eventbus.Bus, *eventbus.Client, error) {
	if cfg.Queue.Backend == config.BackendMemory {
		return eventbus.NewMemoryBus(), nil, nil
	}

	redisOpts, err := redis.ParseURL(cfg.Queue.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	// every worker may hold a connection in BLPOP at once
	redisOpts.PoolSize = w.IdeaProducers + w.PackageProducers + w.Students + 4

	client, err := eventbus.NewClient(redisOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create event bus client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, nil, printer.ErrorWithContext(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", cfg.Queue.RedisURL),
			map[string]string{"Error": err.Error()},
			[]string{
				"Start Redis locally:\n  docker run --rm -p 6379:6379 redis:7-alpine",
				"Or use the in-process queue:\n  hackathon run --backend=memory",
			},
		)
	}

	bus, err := client.NewBus(ctx, runID)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to create Redis event bus: %w", err)
	}

	return bus, client, nil
}
