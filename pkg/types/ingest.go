// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceConfig identifies where harvested documents come from. Exactly one of
// the object-storage pair (Bucket, Prefix) or XMLFolder is set for a run.
type SourceConfig struct {
	// Bucket is the S3 bucket holding harvested snapshots.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is the key prefix under which latest.txt and the snapshot folders live.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// XMLFolder is a local directory scanned recursively for .xml files.
	XMLFolder string `json:"xml_folder,omitempty" yaml:"xml_folder,omitempty"`
}

// HasRemote reports whether both object-storage fields are set.
func (c SourceConfig) HasRemote() bool {
	return c.Bucket != "" && c.Prefix != ""
}

// HasLocal reports whether a local folder is set.
func (c SourceConfig) HasLocal() bool {
	return c.XMLFolder != ""
}

// AWSConfig holds object-storage client settings.
type AWSConfig struct {
	// Region overrides the SDK default region when set.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Profile selects a shared-credentials profile when set.
	Profile string `json:"profile,omitempty" yaml:"profile,omitempty"`

	// MaxRetries bounds the SDK's retries on throttling and transient errors (default 10).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// StatsFormat selects how end-of-run statistics are printed.
type StatsFormat string

const (
	StatsTable StatsFormat = "table"
	StatsYAML  StatsFormat = "yaml"
)

// IngestConfig groups everything an ingest run needs. It is built once from
// flags, environment and config file, and passed down explicitly.
type IngestConfig struct {
	Source SourceConfig `json:"source" yaml:"source"`
	AWS    AWSConfig    `json:"aws" yaml:"aws"`

	// XMLType is the crosswalk document-type tag (e.g. "rg").
	XMLType string `json:"xml_type" yaml:"xml_type"`

	// SourceName names the harvest source; it keys the version record and is
	// stamped on every imported node.
	SourceName string `json:"source_name" yaml:"source_name"`

	// Crosswalk is the path to an optional XSLT stylesheet applied before conversion.
	Crosswalk string `json:"crosswalk,omitempty" yaml:"crosswalk,omitempty"`

	// VersionsFolder holds one version record file per source.
	VersionsFolder string `json:"versions_folder" yaml:"versions_folder"`

	// GraphDB is the folder of the embedded graph database.
	GraphDB string `json:"graph_db" yaml:"graph_db"`

	Verbose     bool        `json:"verbose" yaml:"verbose"`
	Profiling   bool        `json:"profiling" yaml:"profiling"`
	LogJSON     bool        `json:"log_json" yaml:"log_json"`
	StatsFormat StatsFormat `json:"stats_format" yaml:"stats_format"`
}
