// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Graph is the output of a crosswalk conversion for one document: the nodes it
// describes and the relationships between them. Graph import consumes it; the
// ingestion pipeline itself never looks inside.
type Graph struct {
	Nodes         []Node         `json:"nodes" yaml:"nodes"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// Node is one research-graph entity (researcher, publication, dataset, grant...).
type Node struct {
	// Key is the globally unique record key, e.g. "researchgraph.org/orcid/0000-0002-...".
	Key string `json:"key" yaml:"key"`

	// Labels classify the node; the first is the entity type, the rest are
	// source tags.
	Labels []string `json:"labels" yaml:"labels"`

	// Properties hold the record's scalar fields by element name.
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Type returns the node's primary label, or "" if it has none.
func (n Node) Type() string {
	if len(n.Labels) == 0 {
		return ""
	}
	return n.Labels[0]
}

// Relationship links two nodes by key. The target need not exist yet; harvests
// routinely reference records that arrive in a later document.
type Relationship struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Type string `json:"type" yaml:"type"`
}

// AddNode appends a node to the graph.
func (g *Graph) AddNode(n Node) {
	g.Nodes = append(g.Nodes, n)
}

// AddRelationship appends a relationship to the graph.
func (g *Graph) AddRelationship(r Relationship) {
	g.Relationships = append(g.Relationships, r)
}
