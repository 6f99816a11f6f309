// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crosswalk converts Research Graph XML documents into graphs.
//
// A document holds any number of researcher, publication, dataset, grant and
// organisation records plus relation records, typically grouped under
// <registryObjects>. Records may appear at any depth, so OAI-PMH envelopes
// around the payload are transparent.
package crosswalk

import (
	"encoding/xml"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/pdiddy/rg-import/internal/ingesterr"
	"github.com/pdiddy/rg-import/internal/report"
	"github.com/pdiddy/rg-import/pkg/types"
)

// XMLType identifies the document dialect the crosswalk reads.
type XMLType string

// TypeRG is the Research Graph interchange format.
const TypeRG XMLType = "rg"

// ParseXMLType validates a document-type tag. An empty tag means TypeRG.
func ParseXMLType(s string) (XMLType, error) {
	switch XMLType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeRG, "":
		return TypeRG, nil
	default:
		return "", ingesterr.Configuration("unknown XML type %q: supported types are %q", s, TypeRG)
	}
}

// recordTypes are the elements that become nodes.
var recordTypes = map[string]bool{
	"researcher":   true,
	"publication":  true,
	"dataset":      true,
	"grant":        true,
	"organisation": true,
}

const (
	elemRelation        = "relation"
	fieldKey            = "key"
	fieldSource         = "source"
	defaultRelationType = "relatedTo"
)

type field struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type record struct {
	Fields []field `xml:",any"`
}

type relation struct {
	FromKey string `xml:"from_key"`
	ToURI   string `xml:"to_uri"`
	Label   string `xml:"label"`
}

// Crosswalk converts documents for one harvest source and accumulates
// statistics across calls. It is not safe for concurrent use.
type Crosswalk struct {
	source  string
	xmlType XMLType
	format  types.StatsFormat
	log     *zap.Logger
	stats   Statistics
}

// Options configure a Crosswalk.
type Options struct {
	// Source is stamped on nodes that do not name their own source.
	Source string
	Type   XMLType
	Format types.StatsFormat
	// Logger receives a debug entry per converted node and relationship.
	Logger *zap.Logger
}

// New returns a Crosswalk.
func New(opts Options) *Crosswalk {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	t := opts.Type
	if t == "" {
		t = TypeRG
	}
	return &Crosswalk{
		source:  opts.Source,
		xmlType: t,
		format:  opts.Format,
		log:     log,
		stats:   Statistics{Records: map[string]int{}},
	}
}

// Type returns the document dialect.
func (c *Crosswalk) Type() XMLType { return c.xmlType }

// Process decodes one document and returns its graph.
func (c *Crosswalk) Process(r io.Reader) (*types.Graph, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	g := &types.Graph{}
	records := map[string]int{}
	var rels, skipped int

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parsing XML")
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		name := start.Name.Local
		switch {
		case recordTypes[name]:
			var rec record
			if err := dec.DecodeElement(&rec, &start); err != nil {
				return nil, errors.Wrapf(err, "decoding %s record", name)
			}
			node, ok := c.node(name, rec)
			if !ok {
				skipped++
				c.log.Debug("skipping record without key", zap.String("type", name))
				continue
			}
			g.AddNode(node)
			records[name]++
			c.log.Debug("node", zap.String("key", node.Key), zap.Strings("labels", node.Labels))

		case name == elemRelation:
			var rel relation
			if err := dec.DecodeElement(&rel, &start); err != nil {
				return nil, errors.Wrap(err, "decoding relation")
			}
			r, ok := toRelationship(rel)
			if !ok {
				skipped++
				c.log.Debug("skipping relation without endpoints")
				continue
			}
			g.AddRelationship(r)
			rels++
			c.log.Debug("relationship", zap.String("from", r.From), zap.String("to", r.To), zap.String("type", r.Type))
		}
	}

	// Counters move only for documents that converted cleanly.
	c.stats.Documents++
	for k, n := range records {
		c.stats.Records[k] += n
	}
	c.stats.Relationships += rels
	c.stats.Skipped += skipped

	return g, nil
}

func (c *Crosswalk) node(recordType string, rec record) (types.Node, bool) {
	props := make(map[string]string, len(rec.Fields))
	for _, f := range rec.Fields {
		name := f.XMLName.Local
		value := strings.TrimSpace(f.Value)
		if value == "" {
			continue
		}
		if prev, ok := props[name]; ok {
			props[name] = prev + "; " + value
			continue
		}
		props[name] = value
	}

	key := props[fieldKey]
	if key == "" {
		return types.Node{}, false
	}
	delete(props, fieldKey)

	src := props[fieldSource]
	if src == "" && c.source != "" {
		src = c.source
		props[fieldSource] = src
	}

	labels := []string{recordType}
	if src != "" && src != recordType {
		labels = append(labels, src)
	}

	return types.Node{Key: key, Labels: labels, Properties: props}, true
}

func toRelationship(rel relation) (types.Relationship, bool) {
	from := strings.TrimSpace(rel.FromKey)
	to := strings.TrimSpace(rel.ToURI)
	if from == "" || to == "" {
		return types.Relationship{}, false
	}
	label := strings.TrimSpace(rel.Label)
	if label == "" {
		label = defaultRelationType
	}
	return types.Relationship{From: from, To: to, Type: label}, true
}

// Statistics returns a copy of the accumulated counters.
func (c *Crosswalk) Statistics() Statistics {
	out := c.stats
	out.Records = make(map[string]int, len(c.stats.Records))
	for k, v := range c.stats.Records {
		out.Records[k] = v
	}
	return out
}

// PrintStatistics writes the accumulated counters to w.
func (c *Crosswalk) PrintStatistics(w io.Writer) error {
	return report.Write(w, c.format, c.Statistics())
}

// Statistics counts what the crosswalk converted.
type Statistics struct {
	Documents     int            `json:"documents" yaml:"documents"`
	Records       map[string]int `json:"records" yaml:"records"`
	Relationships int            `json:"relationships" yaml:"relationships"`
	Skipped       int            `json:"skipped" yaml:"skipped"`
}

// Title implements report.Tabular.
func (s Statistics) Title() string { return "crosswalk" }

// Rows implements report.Tabular.
func (s Statistics) Rows() [][]string {
	rows := [][]string{report.Row("documents", s.Documents)}

	kinds := make([]string, 0, len(s.Records))
	for k := range s.Records {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		rows = append(rows, report.Row(k+" records", s.Records[k]))
	}

	rows = append(rows,
		report.Row("relationships", s.Relationships),
		report.Row("skipped", s.Skipped),
	)
	return rows
}
