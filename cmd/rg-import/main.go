// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rg-import CLI, which loads harvested
// Research Graph XML into a graph database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rg-import/internal/report"
	"github.com/pdiddy/rg-import/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

var rootCmd = &cobra.Command{
	Use:   "rg-import",
	Short: "Load harvested Research Graph XML into a graph database",
	Long: `rg-import discovers harvested XML documents, either in the latest snapshot
of an S3 prefix or under a local folder, optionally normalizes them with an
XSLT stylesheet, converts them into graph nodes and relationships, and
imports the result into a SQLite-backed graph database.

For S3 sources the snapshot id is recorded in the versions folder once the
whole snapshot has been imported.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		report.ConfigureStyling(os.Stdout, viper.GetBool(keyNoColor))

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./rg-import.yaml or ~/.config/rg-import/config.yaml)")
	pf.String("graph-db", "", "graph database folder")
	pf.String("versions-folder", "", "folder holding one version record per source")
	pf.Bool("verbose", false, "log every converted node and relationship")
	pf.Bool("log-json", false, "write diagnostics as JSON lines")
	pf.String("stats-format", "table", "statistics format: table or yaml")
	pf.Bool("no-color", false, "disable colours in statistics tables (always off when stdout is not a terminal)")

	bindFlags(pf, map[string]string{
		keyGraphDB:     "graph-db",
		keyVersions:    "versions-folder",
		keyVerbose:     "verbose",
		keyLogJSON:     "log-json",
		keyStatsFormat: "stats-format",
		keyNoColor:     "no-color",
	})
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rg-import")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rg-import"))
		}
	}

	viper.SetEnvPrefix("RG_IMPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
