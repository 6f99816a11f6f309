// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rg-import/internal/ingesterr"
	"github.com/pdiddy/rg-import/internal/versions"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Inspect recorded harvest snapshots",
}

var versionsShowCmd = &cobra.Command{
	Use:   "show <source>",
	Short: "Print the last fully imported snapshot of a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString(keyVersions)
		if dir == "" {
			return ingesterr.Configuration("please provide a versions folder (%s)", keyVersions)
		}

		id, ok, err := versions.NewStore(dir).Read(args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no snapshot recorded\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], id)
		return nil
	},
}

func init() {
	versionsCmd.AddCommand(versionsShowCmd)
	rootCmd.AddCommand(versionsCmd)
}
