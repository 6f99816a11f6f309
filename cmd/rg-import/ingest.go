// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/rg-import/internal/crosswalk"
	"github.com/pdiddy/rg-import/internal/graphdb"
	"github.com/pdiddy/rg-import/internal/logging"
	"github.com/pdiddy/rg-import/internal/pipeline"
	"github.com/pdiddy/rg-import/internal/secrets"
	"github.com/pdiddy/rg-import/internal/source"
	"github.com/pdiddy/rg-import/internal/transform"
	"github.com/pdiddy/rg-import/internal/versions"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Import harvested XML documents into the graph database",
	Long: `Ingest reads documents from exactly one source:

  --s3-bucket and --s3-prefix   the snapshot named by <prefix>/latest.txt
  --xml-folder                  every .xml file under a local folder

Each document is optionally transformed with the --crosswalk stylesheet,
converted into nodes and relationships, and imported in its own transaction.
The first failure stops the run. For S3 sources the snapshot id is written to
<versions-folder>/<source> only after every document has been imported.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := loadIngestConfig(viper.GetViper())
	spec, xmlType, err := validateIngest(cfg)
	if err != nil {
		return err
	}

	log := logging.New(os.Stdout, logging.Options{Verbose: cfg.Verbose, JSON: cfg.LogJSON})
	defer log.Sync()

	obs := pipeline.NewLogObserver(log)
	obs.ConfigEcho(cfg)

	opts := source.Options{SourceName: cfg.SourceName, Events: obs}
	if spec.Kind == source.KindRemote {
		creds, err := secrets.AWS(loadedSecrets)
		if err != nil {
			return err
		}
		client, err := source.NewS3Client(cfg.AWS, creds)
		if err != nil {
			return err
		}
		opts.Client = client
		opts.Versions = versions.NewStore(cfg.VersionsFolder)
	}
	discovery, err := source.New(spec, opts)
	if err != nil {
		return err
	}

	pcfg := pipelineConfig(cfg, os.Stdout)
	if cfg.Crosswalk != "" {
		tmpl, err := transform.Compile(cfg.Crosswalk)
		if err != nil {
			return err
		}
		defer tmpl.Close()
		pcfg.Transformer = transform.NewStage(tmpl)
	}

	cw := crosswalk.New(crosswalk.Options{
		Source: cfg.SourceName,
		Type:   xmlType,
		Format: cfg.StatsFormat,
		Logger: log.Named("crosswalk"),
	})

	db, err := graphdb.Open(cfg.GraphDB, graphdb.Options{
		Format: cfg.StatsFormat,
		Logger: log.Named("graphdb"),
	})
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := pipeline.New(pcfg, discovery, cw, db, obs).Run(cmd.Context())
	if err != nil {
		return err
	}

	log.Info("run complete",
		zap.String("run", stats.RunID),
		zap.Int("documents", stats.Documents),
		zap.String("source", spec.Kind.String()))
	return nil
}

func init() {
	f := ingestCmd.Flags()
	f.String("s3-bucket", "", "S3 bucket holding harvested snapshots")
	f.String("s3-prefix", "", "S3 key prefix containing latest.txt")
	f.String("xml-folder", "", "local folder scanned recursively for .xml files")
	f.String("xml-type", "", "crosswalk document type (default rg)")
	f.String("source", "", "harvest source name, used for the version record and node labels")
	f.String("crosswalk", "", "XSLT stylesheet applied to every document before conversion")
	f.Bool("profiling", false, "report per-stage timings for every document")
	f.String("aws-region", "", "AWS region")
	f.String("aws-profile", "", "shared credentials profile")
	f.Int("aws-max-retries", 10, "maximum SDK retries for throttled or failed S3 requests")

	bindFlags(f, map[string]string{
		keyBucket:     "s3-bucket",
		keyPrefix:     "s3-prefix",
		keyXMLFolder:  "xml-folder",
		keyXMLType:    "xml-type",
		keySource:     "source",
		keyCrosswalk:  "crosswalk",
		keyProfiling:  "profiling",
		keyRegion:     "aws-region",
		keyProfile:    "aws-profile",
		keyMaxRetries: "aws-max-retries",
	})

	rootCmd.AddCommand(ingestCmd)
}
