// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source discovers harvested XML documents, either by walking a local
// directory tree or by listing the latest snapshot folder of an S3 prefix.
// Both strategies sit behind the Discovery interface and are chosen once at
// startup by Select and New.
package source

import (
	"context"
	"io"
	"iter"

	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/pdiddy/rg-import/internal/ingesterr"
	"github.com/pdiddy/rg-import/internal/versions"
	"github.com/pdiddy/rg-import/pkg/types"
)

// Document references one discovered file or object. Its content is opened on
// demand; the caller owns the returned stream and must close it.
type Document struct {
	// Key is the file path or object key.
	Key string

	open func(ctx context.Context) (io.ReadCloser, error)
}

// NewDocument returns a Document whose content is produced by open.
func NewDocument(key string, open func(ctx context.Context) (io.ReadCloser, error)) *Document {
	return &Document{Key: key, open: open}
}

// Open returns the document content.
func (d *Document) Open(ctx context.Context) (io.ReadCloser, error) {
	return d.open(ctx)
}

// Discovery yields documents lazily, in discovery order. Iteration stops at
// the first error, which is yielded with a nil Document.
type Discovery interface {
	// Describe names the source for diagnostics.
	Describe() string

	// Documents returns the sequence of discovered documents. Stopping the
	// range early is allowed and counts as an incomplete pass.
	Documents(ctx context.Context) iter.Seq2[*Document, error]
}

// Events receives discovery progress notices. Implementations must not
// influence control flow.
type Events interface {
	DirectoryDone(dir string)
	SnapshotResolved(snapshotID, folder string)
	SnapshotDone(bucket, prefix string)
}

type nopEvents struct{}

func (nopEvents) DirectoryDone(string)            {}
func (nopEvents) SnapshotResolved(string, string) {}
func (nopEvents) SnapshotDone(string, string)     {}

// Kind tags which discovery strategy a run uses.
type Kind int

const (
	KindLocal Kind = iota + 1
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindRemote:
		return "s3"
	default:
		return "unknown"
	}
}

// Spec is the resolved harvest source: Local(Folder) or Remote(Bucket, Prefix).
type Spec struct {
	Kind   Kind
	Folder string
	Bucket string
	Prefix string
}

// Select resolves the source configuration into exactly one strategy. Setting
// both kinds, neither, or only half of the bucket/prefix pair is a
// configuration error.
func Select(cfg types.SourceConfig) (Spec, error) {
	if (cfg.Bucket == "") != (cfg.Prefix == "") {
		return Spec{}, ingesterr.Configuration("S3 bucket and prefix must be provided together (bucket %q, prefix %q)", cfg.Bucket, cfg.Prefix)
	}
	switch {
	case cfg.HasRemote() && cfg.HasLocal():
		return Spec{}, ingesterr.Configuration("provide either S3 bucket and prefix or a path to an XML folder, not both")
	case cfg.HasRemote():
		return Spec{Kind: KindRemote, Bucket: cfg.Bucket, Prefix: cfg.Prefix}, nil
	case cfg.HasLocal():
		return Spec{Kind: KindLocal, Folder: cfg.XMLFolder}, nil
	default:
		return Spec{}, ingesterr.Configuration("please provide either S3 bucket and prefix or a path to an XML folder")
	}
}

// Options carries the collaborators a Discovery may need. Client, Versions and
// SourceName are required for remote sources only.
type Options struct {
	Client     s3iface.S3API
	Versions   *versions.Store
	SourceName string
	Events     Events
}

// New builds the Discovery for spec.
func New(spec Spec, opts Options) (Discovery, error) {
	events := opts.Events
	if events == nil {
		events = nopEvents{}
	}
	switch spec.Kind {
	case KindLocal:
		return NewLocalWalker(spec.Folder, events), nil
	case KindRemote:
		if opts.Client == nil {
			return nil, ingesterr.Configuration("S3 discovery needs an object storage client")
		}
		if opts.SourceName == "" {
			return nil, ingesterr.Configuration("S3 discovery needs a source name for the version record")
		}
		if opts.Versions == nil || opts.Versions.Dir() == "" {
			return nil, ingesterr.Configuration("S3 discovery needs a versions folder")
		}
		return NewSnapshotLister(opts.Client, spec.Bucket, spec.Prefix, opts.SourceName, opts.Versions, events), nil
	default:
		return nil, ingesterr.Configuration("unknown source kind %d", int(spec.Kind))
	}
}
