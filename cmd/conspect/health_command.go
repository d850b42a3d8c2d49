package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the gateway is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.newClient()
			if err != nil {
				return err
			}

			colorize := shouldColorize(cmd.OutOrStdout())
			if err := c.Health(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderStatusLine(ctx.serverURL(), statusError, err.Error(), colorize))
				return fmt.Errorf("gateway unhealthy")
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderStatusLine(ctx.serverURL(), statusOK, "reachable", colorize))
			return nil
		},
	}
}
