// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graphdb persists research graphs in a SQLite database.
//
// Nodes are merged by key: labels are unioned and properties overwritten.
// Relationships are unique on (from, to, type). Each imported graph is applied
// in one transaction and recorded in an import log.
package graphdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/rg-import/internal/report"
	"github.com/pdiddy/rg-import/pkg/types"
)

// DBFile is the database file name inside the graph folder.
const DBFile = "graph.db"

// Database is an open graph store. It is not safe for concurrent imports.
type Database struct {
	db     *sql.DB
	folder string
	format types.StatsFormat
	log    *zap.Logger
	stats  Statistics
}

// Options configure a Database.
type Options struct {
	Format types.StatsFormat
	// Logger receives a debug entry per imported graph.
	Logger *zap.Logger
}

// Open opens or creates folder/graph.db and its schema.
func Open(folder string, opts Options) (*Database, error) {
	if folder == "" {
		return nil, errors.New("graph database folder is empty")
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating graph database folder")
	}

	path := filepath.Join(folder, DBFile)
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "opening graph database")
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	d := &Database{db: db, folder: folder, format: opts.Format, log: log}
	if err := d.createSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}
	return d, nil
}

// Folder returns the directory holding the database file.
func (d *Database) Folder() string { return d.folder }

// Close releases the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			key TEXT PRIMARY KEY,
			labels TEXT NOT NULL,
			properties TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS relationships (
			from_key TEXT NOT NULL,
			to_key TEXT NOT NULL,
			type TEXT NOT NULL,
			UNIQUE(from_key, to_key, type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships(to_key)`,
		`CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			imported_at TEXT NOT NULL,
			nodes INTEGER NOT NULL,
			relationships INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := d.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "executing schema statement")
		}
	}
	return nil
}

// ImportGraph merges g into the database in a single transaction. With
// profiling set, the time spent on nodes and on relationships is added to the
// statistics. Counters change only when the transaction commits.
func (d *Database) ImportGraph(ctx context.Context, g *types.Graph, profiling bool) error {
	if g == nil {
		return errors.New("importing nil graph")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	var delta Statistics

	start := time.Now()
	for _, n := range g.Nodes {
		created, err := mergeNode(ctx, tx, n)
		if err != nil {
			return errors.Wrapf(err, "merging node %s", n.Key)
		}
		if created {
			delta.NodesCreated++
		} else {
			delta.NodesUpdated++
		}
	}
	nodeTime := time.Since(start)

	start = time.Now()
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO relationships (from_key, to_key, type) VALUES (?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing relationship insert")
	}
	defer stmt.Close()

	for _, r := range g.Relationships {
		res, err := stmt.ExecContext(ctx, r.From, r.To, r.Type)
		if err != nil {
			return errors.Wrapf(err, "inserting relationship %s -[%s]-> %s", r.From, r.Type, r.To)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			delta.RelationshipsCreated++
		} else {
			delta.RelationshipsExisting++
		}
	}
	relTime := time.Since(start)

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO imports (id, imported_at, nodes, relationships) VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), len(g.Nodes), len(g.Relationships),
	)
	if err != nil {
		return errors.Wrap(err, "recording import")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing import")
	}

	delta.GraphsImported = 1
	if profiling {
		delta.NodeTime = nodeTime
		delta.RelationshipTime = relTime
	}
	d.stats.add(delta)

	d.log.Debug("graph imported",
		zap.String("import", id),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("relationships", len(g.Relationships)))
	return nil
}

func mergeNode(ctx context.Context, tx *sql.Tx, n types.Node) (bool, error) {
	var labelsJSON, propsJSON string
	err := tx.QueryRowContext(ctx,
		`SELECT labels, properties FROM nodes WHERE key = ?`, n.Key,
	).Scan(&labelsJSON, &propsJSON)

	created := errors.Is(err, sql.ErrNoRows)
	if err != nil && !created {
		return false, errors.Wrap(err, "reading node")
	}

	labels := []string{}
	props := map[string]string{}
	if !created {
		if err := json.Unmarshal([]byte(labelsJSON), &labels); err != nil {
			return false, errors.Wrap(err, "decoding stored labels")
		}
		if err := json.Unmarshal([]byte(propsJSON), &props); err != nil {
			return false, errors.Wrap(err, "decoding stored properties")
		}
	}

	labels = unionLabels(labels, n.Labels)
	for k, v := range n.Properties {
		props[k] = v
	}

	lj, err := json.Marshal(labels)
	if err != nil {
		return false, errors.Wrap(err, "encoding labels")
	}
	pj, err := json.Marshal(props)
	if err != nil {
		return false, errors.Wrap(err, "encoding properties")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO nodes (key, labels, properties) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET labels=excluded.labels, properties=excluded.properties`,
		n.Key, string(lj), string(pj),
	)
	if err != nil {
		return false, errors.Wrap(err, "writing node")
	}
	return created, nil
}

// unionLabels appends the labels of b missing from a, keeping a's order.
func unionLabels(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, l := range append(append([]string{}, a...), b...) {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// Statistics returns the counters accumulated by this Database since Open.
func (d *Database) Statistics() Statistics { return d.stats }

// PrintStatistics writes the import counters to w.
func (d *Database) PrintStatistics(w io.Writer) error {
	return report.Write(w, d.format, d.stats)
}

// Statistics counts what ImportGraph wrote.
type Statistics struct {
	GraphsImported        int           `json:"graphs_imported" yaml:"graphs_imported"`
	NodesCreated          int           `json:"nodes_created" yaml:"nodes_created"`
	NodesUpdated          int           `json:"nodes_updated" yaml:"nodes_updated"`
	RelationshipsCreated  int           `json:"relationships_created" yaml:"relationships_created"`
	RelationshipsExisting int           `json:"relationships_existing" yaml:"relationships_existing"`
	NodeTime              time.Duration `json:"node_time,omitempty" yaml:"node_time,omitempty"`
	RelationshipTime      time.Duration `json:"relationship_time,omitempty" yaml:"relationship_time,omitempty"`
}

func (s *Statistics) add(o Statistics) {
	s.GraphsImported += o.GraphsImported
	s.NodesCreated += o.NodesCreated
	s.NodesUpdated += o.NodesUpdated
	s.RelationshipsCreated += o.RelationshipsCreated
	s.RelationshipsExisting += o.RelationshipsExisting
	s.NodeTime += o.NodeTime
	s.RelationshipTime += o.RelationshipTime
}

// Title implements report.Tabular.
func (s Statistics) Title() string { return "graph import" }

// Rows implements report.Tabular.
func (s Statistics) Rows() [][]string {
	rows := [][]string{
		report.Row("graphs imported", s.GraphsImported),
		report.Row("nodes created", s.NodesCreated),
		report.Row("nodes updated", s.NodesUpdated),
		report.Row("relationships created", s.RelationshipsCreated),
		report.Row("relationships existing", s.RelationshipsExisting),
	}
	if s.NodeTime > 0 || s.RelationshipTime > 0 {
		rows = append(rows,
			report.Row("node time (ms)", s.NodeTime.Milliseconds()),
			report.Row("relationship time (ms)", s.RelationshipTime.Milliseconds()),
		)
	}
	return rows
}

// Counts summarises the stored graph.
type Counts struct {
	Nodes         int            `json:"nodes" yaml:"nodes"`
	Relationships int            `json:"relationships" yaml:"relationships"`
	Imports       int            `json:"imports" yaml:"imports"`
	ByLabel       map[string]int `json:"by_label" yaml:"by_label"`
	ByType        map[string]int `json:"by_type" yaml:"by_type"`
}

// Counts queries node counts per label and relationship counts per type.
func (d *Database) Counts(ctx context.Context) (Counts, error) {
	c := Counts{ByLabel: map[string]int{}, ByType: map[string]int{}}

	for q, dst := range map[string]*int{
		`SELECT count(*) FROM nodes`:         &c.Nodes,
		`SELECT count(*) FROM relationships`: &c.Relationships,
		`SELECT count(*) FROM imports`:       &c.Imports,
	} {
		if err := d.db.QueryRowContext(ctx, q).Scan(dst); err != nil {
			return Counts{}, errors.Wrap(err, "counting")
		}
	}

	rows, err := d.db.QueryContext(ctx,
		`SELECT j.value, count(*) FROM nodes, json_each(nodes.labels) AS j GROUP BY j.value`)
	if err != nil {
		return Counts{}, errors.Wrap(err, "counting labels")
	}
	if err := scanCounts(rows, c.ByLabel); err != nil {
		return Counts{}, errors.Wrap(err, "counting labels")
	}

	rows, err = d.db.QueryContext(ctx, `SELECT type, count(*) FROM relationships GROUP BY type`)
	if err != nil {
		return Counts{}, errors.Wrap(err, "counting relationship types")
	}
	if err := scanCounts(rows, c.ByType); err != nil {
		return Counts{}, errors.Wrap(err, "counting relationship types")
	}

	return c, nil
}

func scanCounts(rows *sql.Rows, into map[string]int) error {
	defer rows.Close()
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return err
		}
		into[k] = n
	}
	return rows.Err()
}

// Title implements report.Tabular.
func (c Counts) Title() string { return "graph" }

// Rows implements report.Tabular.
func (c Counts) Rows() [][]string {
	rows := [][]string{
		report.Row("nodes", c.Nodes),
		report.Row("relationships", c.Relationships),
		report.Row("imports", c.Imports),
	}
	for _, k := range sortedKeys(c.ByLabel) {
		rows = append(rows, report.Row("label "+k, c.ByLabel[k]))
	}
	for _, k := range sortedKeys(c.ByType) {
		rows = append(rows, report.Row("type "+k, c.ByType[k]))
	}
	return rows
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
