// Package wordlist loads the name lists that seed a hackathon run.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Pair is one (product, customer) combination from the idea name space.
type Pair struct {
	Product  string
	Customer string
}

// ReadFile reads one entry per line from path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()

	lines, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	return lines, nil
}

// Read reads one entry per line. Surrounding whitespace is trimmed and blank
// lines are skipped.
func Read(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// CrossProduct pairs every product with every customer, product-major.
func CrossProduct(products, customers []string) []Pair {
	pairs := make([]Pair, 0, len(products)*len(customers))
	for _, p := range products {
		for _, c := range customers {
			pairs = append(pairs, Pair{Product: p, Customer: c})
		}
	}
	return pairs
}

// Inputs is the full name space a run draws from.
type Inputs struct {
	IdeaNames    []Pair
	PackageNames []string
}

// Load reads the three word lists and builds the idea name space.
func Load(productsPath, customersPath, packagesPath string) (*Inputs, error) {
	products, err := ReadFile(productsPath)
	if err != nil {
		return nil, err
	}
	customers, err := ReadFile(customersPath)
	if err != nil {
		return nil, err
	}
	packages, err := ReadFile(packagesPath)
	if err != nil {
		return nil, err
	}

	return &Inputs{
		IdeaNames:    CrossProduct(products, customers),
		PackageNames: packages,
	}, nil
}
