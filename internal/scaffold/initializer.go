package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/hackathon/internal/config"
	"github.com/dyluth/hackathon/internal/printer"
	"github.com/dyluth/hackathon/internal/wordlist"
)

//go:embed templates/*
var templatesFS embed.FS

// DataDir holds the word lists referenced by the default hackathon.yml
const DataDir = "data"

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// templateFiles maps embedded templates to the paths they are written to
var templateFiles = []struct {
	template string
	path     string
}{
	{"templates/hackathon.yml.tmpl", config.DefaultPath},
	{"templates/ideas-products.txt", config.DefaultProductsPath},
	{"templates/ideas-customers.txt", config.DefaultCustomersPath},
	{"templates/packages.txt", config.DefaultPackagesPath},
}

// Initialize creates hackathon.yml and the sample word lists in the current directory
// If force is true, it will remove existing hackathon.yml and data/ directory
func Initialize(force bool) error {
	if force {
		if err := handleForce(); err != nil {
			return err
		}
	}

	files, err := getTemplateFiles()
	if err != nil {
		return err
	}

	if err := createDirectories(); err != nil {
		return err
	}

	if err := writeFiles(files); err != nil {
		return err
	}

	if err := validateCreatedFiles(); err != nil {
		return err
	}

	return nil
}

// handleForce removes existing files if --force was specified
func handleForce() error {
	if _, err := os.Stat(config.DefaultPath); err == nil {
		printer.Warning("Removing existing %s...\n", config.DefaultPath)
		if err := os.Remove(config.DefaultPath); err != nil {
			return fmt.Errorf("failed to remove %s: %w", config.DefaultPath, err)
		}
	}

	if info, err := os.Stat(DataDir); err == nil && info.IsDir() {
		printer.Warning("Removing existing %s/ directory...\n", DataDir)
		if err := os.RemoveAll(DataDir); err != nil {
			return fmt.Errorf("failed to remove %s/ directory: %w", DataDir, err)
		}
	}

	return nil
}

// getTemplateFiles reads all template files
func getTemplateFiles() ([]FileInfo, error) {
	files := make([]FileInfo, 0, len(templateFiles))
	for _, tf := range templateFiles {
		content, err := templatesFS.ReadFile(tf.template)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s template: %w", filepath.Base(tf.path), err)
		}
		files = append(files, FileInfo{
			Path:        tf.path,
			Content:     content,
			Permissions: 0644,
		})
	}
	return files, nil
}

// createDirectories creates the necessary directory structure
func createDirectories() error {
	if err := os.MkdirAll(DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", DataDir, err)
	}
	return nil
}

// writeFiles writes all template files to disk
func writeFiles(files []FileInfo) error {
	for _, file := range files {
		if err := os.WriteFile(file.Path, file.Content, file.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}

	return nil
}

// validateCreatedFiles checks that the written config and word lists load
func validateCreatedFiles() error {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		return fmt.Errorf("created %s is not valid: %w", config.DefaultPath, err)
	}

	if _, err := wordlist.Load(cfg.Data.Products, cfg.Data.Customers, cfg.Data.Packages); err != nil {
		return fmt.Errorf("created word lists are not valid: %w", err)
	}

	return nil
}

// PrintSuccess prints the success message with created files
func PrintSuccess() {
	printer.Success("Successfully initialized hackathon project!\n")
	fmt.Println("\nCreated:")
	for _, tf := range templateFiles {
		fmt.Printf("  ✓ %s\n", tf.path)
	}
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the word lists in data/ to change idea and package names")
	fmt.Println("  2. Tune the workload in hackathon.yml")
	fmt.Println("  3. Run 'hackathon run' to start the pipeline")
}
