package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/DataDog/agent-packager/internal/output"
)

func NewCleanCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove downloaded sources and build state",
		Long: `Clean removes the source trees downloaded under the packager home.
With --all it also removes installed binaries and wrappers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Also remove installed binaries and wrappers")

	return cmd
}

func runClean(all bool) error {
	logger := output.DefaultLogger

	targets := []string{filepath.Join(homeDir, "src")}
	if all {
		prompt := promptui.Prompt{
			Label:     "Remove all installed agent binaries as well",
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			return fmt.Errorf("clean aborted")
		}
		targets = append(targets,
			filepath.Join(homeDir, "versions"),
			filepath.Join(homeDir, "bin"),
		)
	}

	for _, dir := range targets {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			logger.Debug("Nothing to remove at %s", dir)
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
		logger.Success("Removed %s", dir)
	}

	return nil
}
