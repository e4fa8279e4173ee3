package graph

import "strings"

// NodeKind is resolved once at parse time; downstream code switches on the
// enum rather than re-comparing vendor type strings.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindSource
	KindTarget
	KindExpression
	KindFilter
	KindJoiner
	KindAggregator
	KindRouter
	KindSorter
	KindRank
	KindLookup
	KindUnion
	KindUpdateStrategy
)

func (k NodeKind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindTarget:
		return "target"
	case KindExpression:
		return "expression"
	case KindFilter:
		return "filter"
	case KindJoiner:
		return "joiner"
	case KindAggregator:
		return "aggregator"
	case KindRouter:
		return "router"
	case KindSorter:
		return "sorter"
	case KindRank:
		return "rank"
	case KindLookup:
		return "lookup"
	case KindUnion:
		return "union"
	case KindUpdateStrategy:
		return "update_strategy"
	}
	return "other"
}

// ParseNodeKind resolves a vendor transformation type string.
func ParseNodeKind(s string) NodeKind {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SOURCE", "SOURCE DEFINITION", "SOURCE QUALIFIER":
		return KindSource
	case "TARGET", "TARGET DEFINITION":
		return KindTarget
	case "EXPRESSION", "EXPRESSION TRANSFORMER":
		return KindExpression
	case "FILTER":
		return KindFilter
	case "JOINER", "JOIN":
		return KindJoiner
	case "AGGREGATOR":
		return KindAggregator
	case "ROUTER":
		return KindRouter
	case "SORTER":
		return KindSorter
	case "RANK":
		return KindRank
	case "LOOKUP", "LOOKUP PROCEDURE":
		return KindLookup
	case "UNION", "UNION TRANSFORMATION":
		return KindUnion
	case "UPDATE STRATEGY":
		return KindUpdateStrategy
	}
	return KindOther
}

// Port is one field of a node. PortType distinguishes INPUT/OUTPUT/VARIABLE/
// GROUP roles; Expression is set on computed output ports.
type Port struct {
	Name       string
	DataType   string
	Precision  int
	Scale      int
	PortType   string
	Expression string
}

// Node is one transformation step with its kind resolved.
type Node struct {
	Name        string
	Kind        NodeKind
	RawType     string
	Description string
	Ports       []Port
	Properties  map[string]string
}

// OutputPorts returns ports with the OUTPUT role, in declaration order.
func (n *Node) OutputPorts() []Port {
	var out []Port
	for _, p := range n.Ports {
		if strings.EqualFold(p.PortType, "OUTPUT") {
			out = append(out, p)
		}
	}
	return out
}

// GroupPorts returns ports with the GROUP role, in declaration order.
func (n *Node) GroupPorts() []Port {
	var out []Port
	for _, p := range n.Ports {
		if strings.EqualFold(p.PortType, "GROUP") {
			out = append(out, p)
		}
	}
	return out
}

// Property does a case-insensitive property lookup.
func (n *Node) Property(name string) string {
	for k, v := range n.Properties {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Field is a column of a source or target entity.
type Field struct {
	Name      string
	DataType  string
	Precision int
	Scale     int
	Nullable  bool
	KeyType   string
}

// Entity is a declared source or target table.
type Entity struct {
	Name         string
	DatabaseType string
	Owner        string
	Fields       []Field
}

func (e *Entity) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Edge is one data-flow connection between node fields.
type Edge struct {
	FromNode  string
	FromField string
	ToNode    string
	ToField   string
}

// Mapping is one parsed transformation graph.
type Mapping struct {
	Name        string
	Description string
	Sources     []*Entity
	Targets     []*Entity
	Nodes       []*Node
	Edges       []Edge
}

// Node looks up a node by name.
func (m *Mapping) Node(name string) *Node {
	for _, n := range m.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Lineage traces a target column backwards through the edges, returning the
// upstream NODE.FIELD steps from origin to the step feeding the target.
func (m *Mapping) Lineage(targetNode, column string) []string {
	var lineage []string
	node, field := targetNode, column

	for {
		found := false
		for _, e := range m.Edges {
			if e.ToNode == node && e.ToField == field {
				lineage = append([]string{e.FromNode + "." + e.FromField}, lineage...)
				node, field = e.FromNode, e.FromField
				found = true
				break
			}
		}
		if !found {
			return lineage
		}
	}
}
