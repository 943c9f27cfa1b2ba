package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dyluth/hackathon/internal/config"
	"github.com/dyluth/hackathon/internal/wordlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(originalDir) })
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name      string
		force     bool
		setupFunc func(string)
	}{
		{
			name:      "fresh initialization",
			force:     false,
			setupFunc: func(dir string) {},
		},
		{
			name:  "force initialization removes existing files",
			force: true,
			setupFunc: func(dir string) {
				os.WriteFile(filepath.Join(dir, "hackathon.yml"), []byte("old content"), 0644)
				os.MkdirAll(filepath.Join(dir, "data", "old"), 0755)
				os.WriteFile(filepath.Join(dir, "data", "old", "old.txt"), []byte("old"), 0644)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			chdir(t, tmpDir)
			tt.setupFunc(tmpDir)

			require.NoError(t, Initialize(tt.force))

			for _, path := range []string{
				"hackathon.yml",
				filepath.Join("data", "ideas-products.txt"),
				filepath.Join("data", "ideas-customers.txt"),
				filepath.Join("data", "packages.txt"),
			} {
				info, err := os.Stat(path)
				require.NoError(t, err, "expected %s to exist", path)
				assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
			}

			_, err := os.Stat(filepath.Join("data", "old"))
			assert.True(t, os.IsNotExist(err), "old data should be removed")

			cfg, err := config.Load("hackathon.yml")
			require.NoError(t, err)
			assert.Equal(t, config.DefaultIdeas, cfg.RunWorkload().Ideas)
			assert.Equal(t, config.BackendMemory, cfg.Queue.Backend)

			inputs, err := wordlist.Load(cfg.Data.Products, cfg.Data.Customers, cfg.Data.Packages)
			require.NoError(t, err)
			assert.Len(t, inputs.IdeaNames, config.DefaultIdeas)
			assert.NotEmpty(t, inputs.PackageNames)
		})
	}
}

func TestGetTemplateFiles(t *testing.T) {
	files, err := getTemplateFiles()
	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, "hackathon.yml", files[0].Path)
	for _, f := range files {
		assert.NotEmpty(t, f.Content, f.Path)
	}
}
