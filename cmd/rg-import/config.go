// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/rg-import/internal/crosswalk"
	"github.com/pdiddy/rg-import/internal/ingesterr"
	"github.com/pdiddy/rg-import/internal/pipeline"
	"github.com/pdiddy/rg-import/internal/source"
	"github.com/pdiddy/rg-import/pkg/types"
)

// Configuration keys. Each is also read from RG_IMPORT_<KEY> with dots and
// dashes replaced by underscores.
const (
	keyBucket      = "s3.bucket"
	keyPrefix      = "s3.prefix"
	keyXMLFolder   = "xml.folder"
	keyXMLType     = "xml.type"
	keySource      = "source"
	keyCrosswalk   = "crosswalk"
	keyVersions    = "versions.folder"
	keyVerbose     = "verbose"
	keyProfiling   = "profiling"
	keyGraphDB     = "graph.db"
	keyRegion      = "aws.region"
	keyProfile     = "aws.profile"
	keyMaxRetries  = "aws.max-retries"
	keyLogJSON     = "log.json"
	keyStatsFormat = "stats.format"
	keyNoColor     = "no-color"
)

// bindFlags binds each configuration key to the named flag of fs.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		cobra.CheckErr(viper.BindPFlag(key, fs.Lookup(name)))
	}
}

// loadIngestConfig reads the ingest settings from v.
func loadIngestConfig(v *viper.Viper) types.IngestConfig {
	return types.IngestConfig{
		Source: types.SourceConfig{
			Bucket:    v.GetString(keyBucket),
			Prefix:    v.GetString(keyPrefix),
			XMLFolder: v.GetString(keyXMLFolder),
		},
		AWS: types.AWSConfig{
			Region:     v.GetString(keyRegion),
			Profile:    v.GetString(keyProfile),
			MaxRetries: v.GetInt(keyMaxRetries),
		},
		XMLType:        v.GetString(keyXMLType),
		SourceName:     v.GetString(keySource),
		Crosswalk:      v.GetString(keyCrosswalk),
		VersionsFolder: v.GetString(keyVersions),
		GraphDB:        v.GetString(keyGraphDB),
		Verbose:        v.GetBool(keyVerbose),
		Profiling:      v.GetBool(keyProfiling),
		LogJSON:        v.GetBool(keyLogJSON),
		StatsFormat:    types.StatsFormat(v.GetString(keyStatsFormat)),
	}
}

// validateIngest checks cfg and resolves the discovery strategy and crosswalk
// document type. Every failure is a configuration error.
func validateIngest(cfg types.IngestConfig) (source.Spec, crosswalk.XMLType, error) {
	spec, err := source.Select(cfg.Source)
	if err != nil {
		return source.Spec{}, "", err
	}
	if cfg.GraphDB == "" {
		return source.Spec{}, "", ingesterr.Configuration("please provide a graph database folder (%s)", keyGraphDB)
	}
	if spec.Kind == source.KindRemote {
		if cfg.SourceName == "" {
			return source.Spec{}, "", ingesterr.Configuration("S3 sources need a source name (%s)", keySource)
		}
		if cfg.VersionsFolder == "" {
			return source.Spec{}, "", ingesterr.Configuration("S3 sources need a versions folder (%s)", keyVersions)
		}
	}
	if err := validateStatsFormat(cfg.StatsFormat); err != nil {
		return source.Spec{}, "", err
	}
	xmlType, err := crosswalk.ParseXMLType(cfg.XMLType)
	if err != nil {
		return source.Spec{}, "", err
	}
	return spec, xmlType, nil
}

func validateStatsFormat(f types.StatsFormat) error {
	switch f {
	case types.StatsTable, types.StatsYAML, "":
		return nil
	default:
		return ingesterr.Configuration("unknown statistics format %q: use table or yaml", f)
	}
}

// pipelineConfig returns the run switches for cfg. Crosswalk statistics are
// printed only when a stylesheet is configured; the transformer itself is
// attached once the stylesheet compiles.
func pipelineConfig(cfg types.IngestConfig, out io.Writer) pipeline.Config {
	return pipeline.Config{
		Profiling:           cfg.Profiling,
		CrosswalkStatistics: cfg.Crosswalk != "",
		Out:                 out,
	}
}
