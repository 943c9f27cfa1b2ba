package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/dyluth/hackathon/internal/checksum"
	"github.com/dyluth/hackathon/internal/orchestrator"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the run command looks for configuration when --config is not given.
const DefaultPath = "hackathon.yml"

// Queue backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Defaults used when a field is omitted from hackathon.yml
const (
	DefaultIdeas            = 80
	DefaultIdeaProducers    = 2
	DefaultPackages         = 4000
	DefaultPackageProducers = 6
	DefaultStudents         = 6

	DefaultProductsPath  = "data/ideas-products.txt"
	DefaultCustomersPath = "data/ideas-customers.txt"
	DefaultPackagesPath  = "data/packages.txt"

	DefaultRedisURL = "redis://localhost:6379"
)

// HackathonConfig represents the top-level hackathon.yml configuration
type HackathonConfig struct {
	Version  string          `yaml:"version"`
	Workload *WorkloadConfig `yaml:"workload,omitempty"`
	Data     *DataConfig     `yaml:"data,omitempty"`
	Checksum *ChecksumConfig `yaml:"checksum,omitempty"`
	Queue    *QueueConfig    `yaml:"queue,omitempty"`
}

// WorkloadConfig sizes a run. Nil fields take the defaults, so an explicit 0 is preserved.
type WorkloadConfig struct {
	Ideas            *int `yaml:"ideas,omitempty"`
	IdeaProducers    *int `yaml:"idea_producers,omitempty"`
	Packages         *int `yaml:"packages,omitempty"`
	PackageProducers *int `yaml:"package_producers,omitempty"`
	Students         *int `yaml:"students,omitempty"`
}

// DataConfig points at the three word-list files
type DataConfig struct {
	Products  string `yaml:"products"`
	Customers string `yaml:"customers"`
	Packages  string `yaml:"packages"`
}

// ChecksumConfig selects the digest folded into checksums
type ChecksumConfig struct {
	Algorithm string `yaml:"algorithm"`
}

// QueueConfig selects the event bus backend
type QueueConfig struct {
	Backend  string `yaml:"backend"`
	RedisURL string `yaml:"redis_url,omitempty"`
}

// Default returns a validated configuration with every default applied.
func Default() *HackathonConfig {
	cfg := &HackathonConfig{Version: "1.0"}
	// defaults always validate
	_ = cfg.Validate()
	return cfg
}

// RunWorkload converts the configured counts into an orchestrator workload.
// Call Validate first so every field is set.
func (c *HackathonConfig) RunWorkload() orchestrator.Workload {
	return orchestrator.Workload{
		Ideas:            *c.Workload.Ideas,
		IdeaProducers:    *c.Workload.IdeaProducers,
		Packages:         *c.Workload.Packages,
		PackageProducers: *c.Workload.PackageProducers,
		Students:         *c.Workload.Students,
	}
}

// Algorithm returns the configured checksum algorithm.
func (c *HackathonConfig) Algorithm() checksum.Algorithm {
	return checksum.Algorithm(c.Checksum.Algorithm)
}

// Validate applies defaults and performs strict validation on the configuration
func (c *HackathonConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Workload == nil {
		c.Workload = &WorkloadConfig{}
	}
	c.Workload.applyDefaults()
	if err := c.RunWorkload().Validate(); err != nil {
		return fmt.Errorf("workload: %w", err)
	}

	if c.Data == nil {
		c.Data = &DataConfig{}
	}
	if c.Data.Products == "" {
		c.Data.Products = DefaultProductsPath
	}
	if c.Data.Customers == "" {
		c.Data.Customers = DefaultCustomersPath
	}
	if c.Data.Packages == "" {
		c.Data.Packages = DefaultPackagesPath
	}

	if c.Checksum == nil {
		c.Checksum = &ChecksumConfig{}
	}
	alg, err := checksum.ParseAlgorithm(c.Checksum.Algorithm)
	if err != nil {
		return fmt.Errorf("checksum.algorithm: %w", err)
	}
	c.Checksum.Algorithm = string(alg)

	if c.Queue == nil {
		c.Queue = &QueueConfig{}
	}
	if c.Queue.Backend == "" {
		c.Queue.Backend = BackendMemory
	}
	switch c.Queue.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Queue.RedisURL == "" {
			c.Queue.RedisURL = DefaultRedisURL
		}
		u, err := url.Parse(c.Queue.RedisURL)
		if err != nil {
			return fmt.Errorf("queue.redis_url: %w", err)
		}
		if u.Scheme != "redis" && u.Scheme != "rediss" {
			return fmt.Errorf("queue.redis_url must use redis:// or rediss://, got %q", c.Queue.RedisURL)
		}
	default:
		return fmt.Errorf("invalid queue.backend: %s (must be '%s' or '%s')", c.Queue.Backend, BackendMemory, BackendRedis)
	}

	return nil
}

func (w *WorkloadConfig) applyDefaults() {
	setDefault(&w.Ideas, DefaultIdeas)
	setDefault(&w.IdeaProducers, DefaultIdeaProducers)
	setDefault(&w.Packages, DefaultPackages)
	setDefault(&w.PackageProducers, DefaultPackageProducers)
	setDefault(&w.Students, DefaultStudents)
}

func setDefault(field **int, value int) {
	if *field == nil {
		v := value
		*field = &v
	}
}

// Load reads and validates hackathon.yml from the specified path
func Load(path string) (*HackathonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config HackathonConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
