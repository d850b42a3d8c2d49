package main

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"conspect-web/internal/client"
)

const (
	defaultServer = "http://localhost:8080"
	envServer     = "CONSPECT_SERVER"
)

type commandContext struct {
	serverFlag  *string
	timeoutFlag *time.Duration
}

func (c *commandContext) serverURL() string {
	if c.serverFlag != nil {
		if s := strings.TrimSpace(*c.serverFlag); s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(os.Getenv(envServer)); s != "" {
		return s
	}
	return defaultServer
}

func (c *commandContext) newClient() (*client.Client, error) {
	var opts []client.Option
	if c.timeoutFlag != nil && *c.timeoutFlag > 0 {
		opts = append(opts, client.WithTimeout(*c.timeoutFlag))
	}
	return client.New(c.serverURL(), opts...)
}

func newRootCommand() *cobra.Command {
	var serverFlag string
	var timeoutFlag time.Duration

	ctx := &commandContext{serverFlag: &serverFlag, timeoutFlag: &timeoutFlag}

	rootCmd := &cobra.Command{
		Use:           "conspect",
		Short:         "Turn audio recordings into PDF notes through a conspect-web gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "Gateway base URL (default $"+envServer+" or "+defaultServer+")")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 15*time.Minute, "Give up on a request after this long")

	rootCmd.AddCommand(newUploadCommand(ctx))
	rootCmd.AddCommand(newHealthCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
