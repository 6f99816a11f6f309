// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rg-import/internal/graphdb"
	"github.com/pdiddy/rg-import/internal/ingesterr"
	"github.com/pdiddy/rg-import/internal/report"
	"github.com/pdiddy/rg-import/pkg/types"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect the graph database (stats, export)",
}

// --- stats subcommand ---

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show node counts per label and relationship counts per type",
	RunE: func(cmd *cobra.Command, args []string) error {
		format := types.StatsFormat(viper.GetString(keyStatsFormat))
		if err := validateStatsFormat(format); err != nil {
			return err
		}

		db, err := openGraph()
		if err != nil {
			return err
		}
		defer db.Close()

		counts, err := db.Counts(cmd.Context())
		if err != nil {
			return err
		}
		return report.Write(os.Stdout, format, counts)
	},
}

// --- export subcommand ---

var graphExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the stored graph as YAML or JSON",
	Long: `Export writes every node and relationship in the graph database to
stdout, or to --output when given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		db, err := openGraph()
		if err != nil {
			return err
		}
		defer db.Close()

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return errors.Wrap(err, "creating export file")
			}
			defer f.Close()
			w = f
		}

		return db.Export(cmd.Context(), w, graphdb.ExportFormat(format))
	},
}

func openGraph() (*graphdb.Database, error) {
	folder := viper.GetString(keyGraphDB)
	if folder == "" {
		return nil, ingesterr.Configuration("please provide a graph database folder (%s)", keyGraphDB)
	}
	return graphdb.Open(folder, graphdb.Options{})
}

func init() {
	graphExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	graphExportCmd.Flags().String("output", "", "write to this file instead of stdout")

	graphCmd.AddCommand(graphStatsCmd)
	graphCmd.AddCommand(graphExportCmd)

	rootCmd.AddCommand(graphCmd)
}
