package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/hackathon/internal/orchestrator"
	"github.com/dyluth/hackathon/internal/printer"
	"github.com/dyluth/hackathon/pkg/eventbus"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// execute runs a fresh root command with args and returns its stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	root.SilenceErrors = true
	root.SilenceUsage = true

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

// writeProject writes word lists and a hackathon.yml pointing at them, returning the config path
func writeProject(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"products.txt":  "Uber\nAirbnb\nNetflix\n",
		"customers.txt": "Dogs\nCats\n",
		"packages.txt":  "serde\ntokio\nrand\nclap\nregex\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	cfg := `version: "1.0"
data:
  products: ` + filepath.Join(dir, "products.txt") + `
  customers: ` + filepath.Join(dir, "customers.txt") + `
  packages: ` + filepath.Join(dir, "packages.txt") + `
` + extra
	configPath := filepath.Join(dir, "hackathon.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0644))
	return configPath
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(originalDir) })
}

func TestRootCommand_ShowsHelpWhenNoSubcommand(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "hackathon")
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "runs")
	assert.Contains(t, out, "init")
}

func TestRootCommand_RejectsUnknownFlags(t *testing.T) {
	_, err := execute(t, "--unknown-flag", "value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2025-01-01")
	assert.Equal(t, "1.2.3 (commit: abc123, built: 2025-01-01)", rootCmd.Version)
}

func TestRunCommand_TextOutput(t *testing.T) {
	configPath := writeProject(t, "")

	out, err := execute(t, "run", "--config", configPath, "4", "1", "10", "2", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Global checksums:")
	assert.Contains(t, out, "Idea Generator: ")
	assert.Contains(t, out, "Student Package: ")
	assert.Equal(t, 4, strings.Count(out, " built "), "one build record per idea")
	assert.Equal(t, 10, strings.Count(out, "\n> "), "one line per package used")
}

func TestRunCommand_Quiet(t *testing.T) {
	configPath := writeProject(t, "")

	out, err := execute(t, "run", "-c", configPath, "-q", "--ideas", "3", "--idea-producers", "1", "--packages", "6", "--package-producers", "1", "--students", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, " built ")
	assert.Contains(t, out, "Global checksums:")
}

func TestRunCommand_JSONOutput(t *testing.T) {
	configPath := writeProject(t, `checksum:
  algorithm: blake3
`)

	out, err := execute(t, "run", "-c", configPath, "--output", "json", "--name", "json-run", "6", "2", "12", "3", "3")
	require.NoError(t, err)

	var result orchestrator.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "json-run", result.RunID)
	assert.Equal(t, orchestrator.Workload{Ideas: 6, IdeaProducers: 2, Packages: 12, PackageProducers: 3, Students: 3}, result.Workload)
	assert.EqualValues(t, "blake3", result.Algorithm)
	assert.Len(t, result.Students, 3)
	assert.Equal(t, result.IdeasProduced, result.IdeasConsumed)
	assert.Equal(t, result.PackagesProduced, result.PackagesConsumed)
	assert.NoError(t, result.Verify())
}

func TestRunCommand_HealthServer(t *testing.T) {
	configPath := writeProject(t, "")

	out, err := execute(t, "run", "-c", configPath, "-q", "--health-addr", "127.0.0.1:0", "4", "1", "4", "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Global checksums:")

	_, err = execute(t, "run", "-c", configPath, "--health-addr", "not-an-address")
	require.Error(t, err)
	assert.Equal(t, "failed to start health server", err.Error())
}

func TestRunCommand_FlagsOverridePositional(t *testing.T) {
	configPath := writeProject(t, "")

	out, err := execute(t, "run", "-c", configPath, "-o", "json", "--students", "1", "4", "1", "4", "1", "3")
	require.NoError(t, err)

	var result orchestrator.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Workload.Students)
	assert.Equal(t, 4, result.Workload.Ideas)
}

func TestRunCommand_Errors(t *testing.T) {
	configPath := writeProject(t, "")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "non-integer argument",
			args:    []string{"run", "-c", configPath, "four"},
			wantErr: "invalid argument",
		},
		{
			name:    "too many arguments",
			args:    []string{"run", "-c", configPath, "1", "1", "1", "1", "1", "1"},
			wantErr: "accepts at most 5 arg(s)",
		},
		{
			name:    "zero students",
			args:    []string{"run", "-c", configPath, "4", "1", "4", "1", "0"},
			wantErr: "invalid configuration",
		},
		{
			name:    "more idea producers than ideas",
			args:    []string{"run", "-c", configPath, "2", "3"},
			wantErr: "invalid configuration",
		},
		{
			name:    "fewer students than idea producers",
			args:    []string{"run", "-c", configPath, "10", "3", "7", "5", "1"},
			wantErr: "invalid configuration",
		},
		{
			name:    "unknown algorithm",
			args:    []string{"run", "-c", configPath, "--algorithm", "md5"},
			wantErr: "invalid configuration",
		},
		{
			name:    "unknown output",
			args:    []string{"run", "-c", configPath, "-o", "xml"},
			wantErr: "invalid output format",
		},
		{
			name:    "invalid run name",
			args:    []string{"run", "-c", configPath, "--name", "Bad Name"},
			wantErr: "invalid run name",
		},
		{
			name:    "explicit config missing",
			args:    []string{"run", "-c", filepath.Join(t.TempDir(), "missing.yml")},
			wantErr: "failed to load configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunCommand_MissingDefaultConfigUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	// no hackathon.yml and no data/: defaults apply, then the word lists are missing
	_, err := execute(t, "run")
	require.Error(t, err)
	assert.True(t, printer.IsDisplayed(err))
	assert.Equal(t, "failed to load word lists", err.Error())
}

func TestInitThenRun(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := execute(t, "init")
	require.NoError(t, err)

	_, err = execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project already initialized")

	_, err = execute(t, "init", "--force")
	require.NoError(t, err)

	out, err := execute(t, "run", "-q", "16", "2", "64", "3", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Global checksums:")
}

func TestRunAndRunsCommands_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	redisURL := "redis://" + mr.Addr()
	configPath := writeProject(t, `queue:
  backend: redis
  redis_url: `+redisURL+`
`)

	_, err := execute(t, "run", "-c", configPath, "-q", "--name", "redis-run", "4", "1", "8", "2", "2")
	require.NoError(t, err)

	assert.True(t, mr.Exists(eventbus.SummaryKey("redis-run")))
	assert.False(t, mr.Exists(eventbus.LaneKey("redis-run", eventbus.LaneIdeas)))

	t.Run("list", func(t *testing.T) {
		out, err := execute(t, "runs", "--redis-url", redisURL)
		require.NoError(t, err)
		assert.Contains(t, out, "redis-run")
		assert.Contains(t, out, "4/1/8/2/2")
		assert.Contains(t, out, "1 run found")
	})

	t.Run("list jsonl failed only", func(t *testing.T) {
		out, err := execute(t, "runs", "--redis-url", redisURL, "-o", "jsonl", "--failed")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("get", func(t *testing.T) {
		out, err := execute(t, "runs", "--redis-url", redisURL, "redis-run")
		require.NoError(t, err)

		var summary eventbus.RunSummary
		require.NoError(t, json.Unmarshal([]byte(out), &summary))
		assert.Equal(t, "redis-run", summary.RunID)
		assert.True(t, summary.Verified)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := execute(t, "runs", "--redis-url", redisURL, "run-missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("get by prefix", func(t *testing.T) {
		out, err := execute(t, "runs", "--redis-url", redisURL, "redis-r")
		require.NoError(t, err)
		assert.Contains(t, out, `"run_id": "redis-run"`)
	})

	t.Run("invalid time filter", func(t *testing.T) {
		_, err := execute(t, "runs", "--redis-url", redisURL, "--since", "later")
		require.Error(t, err)
		assert.Equal(t, "invalid time filter", err.Error())
	})
}
