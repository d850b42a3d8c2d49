package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"conspect-web/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Print("conspect"))
			return nil
		},
	}
}
