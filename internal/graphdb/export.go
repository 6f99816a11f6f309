// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphdb

import (
	"context"
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rg-import/pkg/types"
)

// ExportFormat names a graph dump encoding.
type ExportFormat string

const (
	ExportYAML ExportFormat = "yaml"
	ExportJSON ExportFormat = "json"
)

// Snapshot reads the whole stored graph, nodes ordered by key and
// relationships by (from, type, to).
func (d *Database) Snapshot(ctx context.Context) (*types.Graph, error) {
	g := &types.Graph{Nodes: []types.Node{}, Relationships: []types.Relationship{}}

	rows, err := d.db.QueryContext(ctx, `SELECT key, labels, properties FROM nodes ORDER BY key`)
	if err != nil {
		return nil, errors.Wrap(err, "querying nodes")
	}
	defer rows.Close()
	for rows.Next() {
		var n types.Node
		var labels, props string
		if err := rows.Scan(&n.Key, &labels, &props); err != nil {
			return nil, errors.Wrap(err, "scanning node")
		}
		if err := json.Unmarshal([]byte(labels), &n.Labels); err != nil {
			return nil, errors.Wrapf(err, "decoding labels of %s", n.Key)
		}
		if err := json.Unmarshal([]byte(props), &n.Properties); err != nil {
			return nil, errors.Wrapf(err, "decoding properties of %s", n.Key)
		}
		g.AddNode(n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating nodes")
	}

	rels, err := d.db.QueryContext(ctx,
		`SELECT from_key, to_key, type FROM relationships ORDER BY from_key, type, to_key`)
	if err != nil {
		return nil, errors.Wrap(err, "querying relationships")
	}
	defer rels.Close()
	for rels.Next() {
		var r types.Relationship
		if err := rels.Scan(&r.From, &r.To, &r.Type); err != nil {
			return nil, errors.Wrap(err, "scanning relationship")
		}
		g.AddRelationship(r)
	}
	if err := rels.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating relationships")
	}

	return g, nil
}

// Export writes the stored graph to w.
func (d *Database) Export(ctx context.Context, w io.Writer, format ExportFormat) error {
	g, err := d.Snapshot(ctx)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case ExportYAML, "":
		data, err = yaml.Marshal(g)
	case ExportJSON:
		data, err = json.MarshalIndent(g, "", "  ")
		data = append(data, '\n')
	default:
		return errors.Newf("unsupported export format %q: use yaml or json", format)
	}
	if err != nil {
		return errors.Wrapf(err, "marshaling %s", format)
	}

	_, err = w.Write(data)
	return err
}
