// Package checksum provides an order-independent digest accumulator.
//
// Every item folded into a Checksum is hashed to a fixed-width digest and
// XORed into the running value. XOR is commutative and associative with the
// zero value as identity, so workers can keep private accumulators and merge
// them once at the end: the result does not depend on which goroutine saw
// which item or in which order.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
)

// Size is the width of a checksum in bytes.
const Size = 32

// Checksum is an accumulated digest. The zero value is the identity.
type Checksum [Size]byte

// Algorithm selects the digest folded into a Checksum.
type Algorithm string

const (
	// SHA256 hashes items with SHA-256
	SHA256 Algorithm = "sha256"

	// BLAKE3 hashes items with BLAKE3 (32-byte output)
	BLAKE3 Algorithm = "blake3"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = SHA256

// ParseAlgorithm parses an algorithm name, case-insensitively.
// An empty name yields DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return DefaultAlgorithm, nil
	}
	alg := Algorithm(strings.ToLower(name))
	if err := alg.Validate(); err != nil {
		return "", err
	}
	return alg, nil
}

// Validate checks that the algorithm is supported.
func (a Algorithm) Validate() error {
	switch a {
	case SHA256, BLAKE3:
		return nil
	default:
		return fmt.Errorf("unknown checksum algorithm: %q (must be 'sha256' or 'blake3')", string(a))
	}
}

// Sum returns the digest of data as a Checksum.
// Unknown algorithms fall back to SHA-256.
func (a Algorithm) Sum(data []byte) Checksum {
	if a == BLAKE3 {
		return Checksum(blake3.Sum256(data))
	}
	return Checksum(sha256.Sum256(data))
}

// Update folds the digest of data into c.
func (c *Checksum) Update(alg Algorithm, data []byte) {
	*c = c.Combine(alg.Sum(data))
}

// UpdateString folds the digest of s into c.
func (c *Checksum) UpdateString(alg Algorithm, s string) {
	c.Update(alg, []byte(s))
}

// Combine returns the merge of c and other.
func (c Checksum) Combine(other Checksum) Checksum {
	var out Checksum
	for i := range out {
		out[i] = c[i] ^ other[i]
	}
	return out
}

// Merge combines any number of checksums. Merge() is the identity.
func Merge(sums ...Checksum) Checksum {
	var out Checksum
	for _, s := range sums {
		out = out.Combine(s)
	}
	return out
}

// IsZero reports whether c is the identity value.
func (c Checksum) IsZero() bool {
	return c == Checksum{}
}

// String returns the lowercase hex encoding of c.
func (c Checksum) String() string {
	return hex.EncodeToString(c[:])
}

// MarshalText implements encoding.TextMarshaler.
func (c Checksum) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Checksum) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse decodes a hex-encoded checksum.
func Parse(s string) (Checksum, error) {
	var c Checksum
	raw, err := hex.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("invalid checksum %q: %w", s, err)
	}
	if len(raw) != Size {
		return c, fmt.Errorf("invalid checksum length: got %d bytes, want %d", len(raw), Size)
	}
	copy(c[:], raw)
	return c, nil
}
