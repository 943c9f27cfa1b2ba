// Package instance names hackathon runs.
//
// A run name namespaces every Redis key the run writes, so names must be
// safe to embed in keys and unique across concurrent runs.
package instance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// RunNamePrefix is the prefix for auto-generated run names
	RunNamePrefix = "run-"

	// MaxNameLength is the maximum length for a run name
	MaxNameLength = 63

	// shortIDLength is how many UUID hex characters a generated name keeps
	shortIDLength = 12
)

var (
	// NamePattern is the regex pattern for valid run names
	// Lowercase alphanumeric, hyphens allowed (but not at start/end)
	// Allows single character or multiple characters with optional hyphens in between
	NamePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)
)

// ValidateName checks if a run name is valid.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("run name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("run name too long: %d characters (max: %d)", len(name), MaxNameLength)
	}

	if !NamePattern.MatchString(name) {
		return fmt.Errorf("invalid run name '%s': must be lowercase alphanumeric with hyphens (not at start/end)", name)
	}

	return nil
}

// NewRunID returns a fresh run-<id> name derived from a random UUID.
func NewRunID() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return RunNamePrefix + id[:shortIDLength]
}

// ResolveName returns name if it is set and valid, or a generated name if it is empty.
func ResolveName(name string) (string, error) {
	if name == "" {
		return NewRunID(), nil
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}
