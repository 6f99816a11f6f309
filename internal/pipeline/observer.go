// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/rg-import/internal/source"
	"github.com/pdiddy/rg-import/pkg/types"
)

// Observer receives run diagnostics. It never affects control flow.
type Observer interface {
	source.Events
	DocumentStarted(key string)
	StageTimed(stage string, d time.Duration)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) DirectoryDone(string)             {}
func (NopObserver) SnapshotResolved(string, string)  {}
func (NopObserver) SnapshotDone(string, string)      {}
func (NopObserver) DocumentStarted(string)           {}
func (NopObserver) StageTimed(string, time.Duration) {}

// LogObserver writes each event as one zap entry.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver returns an observer logging to log.
func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// ConfigEcho logs the effective configuration at the start of a run.
func (o *LogObserver) ConfigEcho(cfg types.IngestConfig) {
	fields := []zap.Field{
		zap.Bool("verbose", cfg.Verbose),
		zap.Bool("profiling", cfg.Profiling),
		zap.String("versions", cfg.VersionsFolder),
		zap.String("graph", cfg.GraphDB),
		zap.String("xslt", cfg.Crosswalk),
	}
	if cfg.Source.HasRemote() {
		fields = append(fields,
			zap.String("bucket", cfg.Source.Bucket),
			zap.String("prefix", cfg.Source.Prefix),
			zap.String("source", cfg.SourceName))
	} else {
		fields = append(fields, zap.String("xml", cfg.Source.XMLFolder))
	}
	o.log.Info("configuration", fields...)
}

func (o *LogObserver) DocumentStarted(key string) {
	o.log.Info("Processing file: " + key)
}

func (o *LogObserver) StageTimed(stage string, d time.Duration) {
	o.log.Info("stage timing", zap.String("stage", stage), zap.Int64("ms", d.Milliseconds()))
}

func (o *LogObserver) DirectoryDone(dir string) {
	o.log.Info(dir + " is done.")
}

func (o *LogObserver) SnapshotResolved(snapshotID, folder string) {
	o.log.Info("S3 Repository: "+snapshotID, zap.String("folder", folder))
}

func (o *LogObserver) SnapshotDone(bucket, prefix string) {
	o.log.Info(bucket + prefix + " is done.")
}
