package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/NomaTechnologiesLTD/Pump-Town/internal/defaults"
	"github.com/NomaTechnologiesLTD/Pump-Town/internal/export"
)

func (c *cli) newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default assemble.yml into --dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// runInit writes the embedded default config into the project directory.
func (c *cli) runInit(force bool) error {
	abs, err := filepath.Abs(c.dir)
	if err != nil {
		return fmt.Errorf("resolving project dir: %w", err)
	}
	dest := filepath.Join(abs, defaults.FileName)

	if !force {
		if _, err := os.Stat(dest); err == nil {
			fmt.Fprintf(c.out, "  skipped %s (exists, use --force to overwrite)\n", defaults.FileName)
			return nil
		}
	}

	if err := export.WriteArtifact(dest, defaults.AssembleYAML); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	fmt.Fprintf(c.out, "  created %s\n", defaults.FileName)
	return nil
}
