package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DataDog/agent-packager/internal/output"
	"github.com/DataDog/agent-packager/internal/platform"
)

func NewPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported target platforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := platform.Current()
			if err != nil {
				// An unsupported host can still cross-build, so only note it.
				output.DefaultLogger.Warn("%v", err)
			}

			logger := output.DefaultLogger
			logger.Bold("%-16s %-10s %-10s %s", "PLATFORM", "OS", "ARCH", "")
			for _, p := range platform.All {
				marker := ""
				if err == nil && p == host {
					marker = "(host)"
				}
				logger.Info("%-16s %-10s %-10s %s", p.Name(), p.OS, p.Arch, marker)
			}
			fmt.Fprintln(logger.Writer())
			logger.Info("Build with: agent-packager build --platform <platform>")
			return nil
		},
	}
}
