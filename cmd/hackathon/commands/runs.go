package commands

import (
	"fmt"
	"time"

	"github.com/dyluth/hackathon/internal/config"
	"github.com/dyluth/hackathon/internal/history"
	"github.com/dyluth/hackathon/internal/printer"
	"github.com/dyluth/hackathon/pkg/eventbus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

type runsOptions struct {
	redisURL string
	output   string
	since    string
	until    string
	failed   bool
	limit    int
}

func newRunsCmd() *cobra.Command {
	opts := &runsOptions{}

	cmd := &cobra.Command{
		Use:   "runs [RUN_ID]",
		Short: "Inspect summaries of runs made with the redis backend",
		Long: `Inspect stored run summaries in list or get mode.

List Mode (no RUN_ID):
  Displays run summaries, most recent first, as a table or JSONL stream.

Get Mode (with RUN_ID):
  Displays a single run summary as pretty-printed JSON.
  Accepts a unique prefix (at least 6 characters) instead of the full ID.

Output Formats (list mode only):
  default - Human-readable table
  jsonl   - Line-delimited JSON, one run per line

Examples:
  # List all runs
  hackathon runs

  # Runs from the last two hours whose checksums did not verify
  hackathon runs --since=2h --failed

  # Stream summaries to jq
  hackathon runs --output=jsonl | jq 'select(.algorithm=="blake3") | .run_id'

  # Show one run by ID or unique prefix
  hackathon runs run-3f2a`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.redisURL, "redis-url", config.DefaultRedisURL, "Redis URL holding run summaries")
	f.StringVarP(&opts.output, "output", "o", string(history.OutputFormatDefault), "Output format: default or jsonl (ignored in get mode)")
	f.StringVar(&opts.since, "since", "", "Show runs completed after time (duration or RFC3339)")
	f.StringVar(&opts.until, "until", "", "Show runs completed before time (duration or RFC3339)")
	f.BoolVar(&opts.failed, "failed", false, "Only show runs whose checksums did not verify")
	f.IntVar(&opts.limit, "limit", 0, "Maximum number of runs to show (0 = all)")

	return cmd
}

func runRuns(cmd *cobra.Command, opts *runsOptions, args []string) error {
	ctx := cmd.Context()
	isGetMode := len(args) > 0

	format, err := history.ParseOutputFormat(opts.output)
	if err != nil && !isGetMode {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", opts.output),
			[]string{"Valid formats: default, jsonl"},
		)
	}

	redisOpts, err := redis.ParseURL(opts.redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client, err := eventbus.NewClient(redisOpts)
	if err != nil {
		return fmt.Errorf("failed to create event bus client: %w", err)
	}
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		return printer.ErrorWithContext(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", opts.redisURL),
			map[string]string{"Error": err.Error()},
			[]string{"Run summaries are only stored by runs made with --backend=redis"},
		)
	}

	out := cmd.OutOrStdout()

	if isGetMode {
		runID, err := history.ResolveRunID(ctx, client, args[0])
		if err != nil {
			if history.IsNotFound(err) {
				return printer.Error(
					fmt.Sprintf("run '%s' not found", args[0]),
					"No stored run matches this ID.",
					[]string{"List stored runs:\n  hackathon runs"},
				)
			}
			if history.IsAmbiguousError(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), history.FormatAmbiguousError(err.(*history.AmbiguousError)))
				return fmt.Errorf("ambiguous run ID")
			}
			return fmt.Errorf("failed to resolve run ID: %w", err)
		}

		if err := history.GetRun(ctx, client, runID, out); err != nil {
			if history.IsNotFound(err) {
				return printer.Error(
					fmt.Sprintf("run '%s' not found", runID),
					"No summary is stored for this run.",
					[]string{"List stored runs:\n  hackathon runs"},
				)
			}
			return fmt.Errorf("failed to get run: %w", err)
		}
		return nil
	}

	filters := &history.FilterCriteria{FailedOnly: opts.failed, Limit: opts.limit}
	if err := filters.ParseRange(opts.since, opts.until, time.Now()); err != nil {
		return printer.Error(
			"invalid time filter",
			err.Error(),
			[]string{"Use duration format like '1h30m' or RFC3339 like '2025-10-29T13:00:00Z'"},
		)
	}

	if err := history.ListRuns(ctx, client, format, filters, out); err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	return nil
}
