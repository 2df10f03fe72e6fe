package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DataDog/agent-packager/internal/version"
)

func NewVersionCmd() *cobra.Command {
	var (
		long     bool
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()

			switch {
			case jsonMode:
				out, err := info.JSON()
				if err != nil {
					return err
				}
				fmt.Println(out)
			case long:
				out, err := info.Long()
				if err != nil {
					return err
				}
				fmt.Print(out)
			default:
				fmt.Println(info.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&long, "long", false, "Print full build details")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Output in JSON format")

	return cmd
}
