// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs discovered documents through the optional transform,
// the crosswalk and the graph import, one document at a time.
//
// The first failure aborts the run. Remaining documents are skipped, no
// statistics are printed, and a remote source's version record is left as it
// was, so a failed run can be retried from the start.
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/pdiddy/rg-import/internal/source"
	"github.com/pdiddy/rg-import/pkg/types"
)

// Stage names reported with profiling enabled.
const (
	StageTransform = "transform"
	StageCrosswalk = "crosswalk.process"
	StageImport    = "graph.import"
	StageCompleted = "completed"
)

// Transformer rewrites a document stream before conversion.
type Transformer interface {
	Transform(r io.Reader) (io.Reader, error)
}

// Crosswalk converts one document into a graph.
type Crosswalk interface {
	Process(r io.Reader) (*types.Graph, error)
	PrintStatistics(w io.Writer) error
}

// Importer writes graphs to the graph database.
type Importer interface {
	ImportGraph(ctx context.Context, g *types.Graph, profiling bool) error
	PrintStatistics(w io.Writer) error
}

// Config holds the per-run switches.
type Config struct {
	// Transformer is applied to every document when set. A nil Transformer
	// hands the raw stream to the crosswalk.
	Transformer Transformer

	// Profiling reports one timing per executed stage per document.
	Profiling bool

	// CrosswalkStatistics prints the crosswalk counters after a successful run.
	CrosswalkStatistics bool

	// Out receives the end-of-run statistics. Defaults to io.Discard.
	Out io.Writer
}

// Stats summarises a completed run.
type Stats struct {
	RunID     string
	Documents int
	// StageTime accumulates time per stage name; empty unless profiling.
	StageTime map[string]time.Duration
}

// Pipeline is one configured ingestion run.
type Pipeline struct {
	cfg       Config
	discovery source.Discovery
	crosswalk Crosswalk
	importer  Importer
	observer  Observer
}

// New returns a Pipeline. A nil observer discards diagnostics.
func New(cfg Config, discovery source.Discovery, cw Crosswalk, importer Importer, observer Observer) *Pipeline {
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Pipeline{
		cfg:       cfg,
		discovery: discovery,
		crosswalk: cw,
		importer:  importer,
		observer:  observer,
	}
}

// Run processes every discovered document in order and prints statistics.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	stats := Stats{RunID: uuid.NewString(), StageTime: map[string]time.Duration{}}

	for doc, err := range p.discovery.Documents(ctx) {
		if err != nil {
			return stats, errors.Wrapf(err, "discovering documents in %s", p.discovery.Describe())
		}
		if err := p.process(ctx, doc, &stats); err != nil {
			return stats, errors.Wrapf(err, "processing %s", doc.Key)
		}
		stats.Documents++
	}

	if p.cfg.CrosswalkStatistics {
		if err := p.crosswalk.PrintStatistics(p.cfg.Out); err != nil {
			return stats, errors.Wrap(err, "printing crosswalk statistics")
		}
	}
	if err := p.importer.PrintStatistics(p.cfg.Out); err != nil {
		return stats, errors.Wrap(err, "printing graph statistics")
	}

	return stats, nil
}

func (p *Pipeline) process(ctx context.Context, doc *source.Document, stats *Stats) error {
	p.observer.DocumentStarted(doc.Key)
	begin := time.Now()

	rc, err := doc.Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	var r io.Reader = rc
	if p.cfg.Transformer != nil {
		start := time.Now()
		r, err = p.cfg.Transformer.Transform(rc)
		if err != nil {
			return err
		}
		p.timed(stats, StageTransform, start)
	}

	start := time.Now()
	g, err := p.crosswalk.Process(r)
	if err != nil {
		return errors.Wrap(err, "crosswalk")
	}
	p.timed(stats, StageCrosswalk, start)

	start = time.Now()
	if err := p.importer.ImportGraph(ctx, g, p.cfg.Profiling); err != nil {
		return errors.Wrap(err, "graph import")
	}
	p.timed(stats, StageImport, start)

	p.timed(stats, StageCompleted, begin)
	return nil
}

func (p *Pipeline) timed(stats *Stats, stage string, start time.Time) {
	if !p.cfg.Profiling {
		return
	}
	d := time.Since(start)
	stats.StageTime[stage] += d
	p.observer.StageTimed(stage, d)
}
