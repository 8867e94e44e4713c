package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type commandContext struct {
	server string
	client *http.Client
}

func (c *commandContext) url(path string) string {
	return strings.TrimRight(c.server, "/") + path
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{client: &http.Client{Timeout: 5 * time.Minute}}

	rootCmd := &cobra.Command{
		Use:           "pipelinectl",
		Short:         "Upload media and fetch generated subtitle projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.server, "server", "http://localhost:8080", "Base URL of the subtitle service")

	rootCmd.AddCommand(newUploadCommand(ctx))
	rootCmd.AddCommand(newWaitCommand(ctx))
	rootCmd.AddCommand(newRenderCommand())

	return rootCmd
}
