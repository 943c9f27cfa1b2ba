package commands

import (
	"fmt"

	"github.com/dyluth/hackathon/internal/scaffold"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new hackathon project",
		Long: `Initialize a new hackathon project with default configuration and sample word lists.

Creates:
  • hackathon.yml - Workload, data, checksum and queue configuration
  • data/ideas-products.txt, data/ideas-customers.txt - Idea name word lists
  • data/packages.txt - Package names

Use --force to reinitialize an existing project (WARNING: destroys existing configuration).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if err := scaffold.CheckExisting(); err != nil {
					return err
				}
			}

			if err := scaffold.Initialize(force); err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}

			scaffold.PrintSuccess()
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Force reinitialization (removes existing hackathon.yml and data/)")
	return cmd
}
