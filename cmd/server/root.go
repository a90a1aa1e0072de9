package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command of the forum CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "forum",
		Short:        "Forum REST API",
		Long:         `Forum serves the users, categories, threads and comments API behind cookie sessions.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
