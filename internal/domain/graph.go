package domain

import (
	"fmt"
	"strings"
)

// EntityKind classifies a node in the knowledge graph.
type EntityKind string

const (
	KindProblem       EntityKind = "problem"
	KindAlgorithm     EntityKind = "algorithm"
	KindDataStructure EntityKind = "data_structure"
	KindTechnique     EntityKind = "technique"
	KindConcept       EntityKind = "concept"
)

// KindPriority is the static lookup order when no kind hint is supplied.
var KindPriority = []EntityKind{
	KindProblem,
	KindAlgorithm,
	KindDataStructure,
	KindTechnique,
	KindConcept,
}

// ParseKind accepts both the wire spelling ("data_structure") and the
// graph label spelling ("DataStructure").
func ParseKind(raw string) (EntityKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "problem":
		return KindProblem, true
	case "algorithm":
		return KindAlgorithm, true
	case "data_structure", "datastructure":
		return KindDataStructure, true
	case "technique":
		return KindTechnique, true
	case "concept":
		return KindConcept, true
	default:
		return "", false
	}
}

// Label returns the Neo4j node label for a kind.
func (k EntityKind) Label() string {
	switch k {
	case KindProblem:
		return "Problem"
	case KindAlgorithm:
		return "Algorithm"
	case KindDataStructure:
		return "DataStructure"
	case KindTechnique:
		return "Technique"
	case KindConcept:
		return "Concept"
	default:
		return ""
	}
}

// EntityKey is the canonical, kind-qualified identifier for a graph entity.
// It is the single identifier encoding established at the API boundary;
// legacy prefix conventions are decoded once, in the resolver.
type EntityKey struct {
	Kind EntityKind `json:"kind"`
	Key  string     `json:"key"`
}

func (k EntityKey) String() string {
	return string(k.Kind) + ":" + k.Key
}

func (k EntityKey) IsZero() bool {
	return k.Kind == "" && k.Key == ""
}

// ParseEntityKey inverts EntityKey.String. It only accepts known kinds;
// anything else is not a canonical key.
func ParseEntityKey(raw string) (EntityKey, error) {
	idx := strings.Index(raw, ":")
	if idx <= 0 || idx == len(raw)-1 {
		return EntityKey{}, fmt.Errorf("not a canonical entity key: %q", raw)
	}
	kind, ok := ParseKind(raw[:idx])
	if !ok {
		return EntityKey{}, fmt.Errorf("unknown entity kind in key: %q", raw)
	}
	return EntityKey{Kind: kind, Key: raw[idx+1:]}, nil
}

type LayoutType string

const (
	LayoutForce  LayoutType = "force"
	LayoutRadial LayoutType = "radial"
	LayoutTree   LayoutType = "tree"
)

// GraphNode is a visualization-ready node. Properties contain only
// sanitizer-safe values, never driver handles.
type GraphNode struct {
	ID         EntityKey      `json:"id"`
	Label      string         `json:"label"`
	Kind       EntityKind     `json:"kind"`
	Properties map[string]any `json:"properties,omitempty"`
	IsCenter   bool           `json:"is_center"`
	Clickable  bool           `json:"clickable"`
}

type GraphEdge struct {
	Source       EntityKey      `json:"source"`
	Target       EntityKey      `json:"target"`
	Relationship string         `json:"relationship"`
	Properties   map[string]any `json:"properties,omitempty"`
}

// GraphData is the payload consumed by the client-side renderer. The
// renderer draws only when Nodes is a non-empty list; a nil GraphData in
// the enclosing payload means "do not render".
type GraphData struct {
	Nodes      []GraphNode `json:"nodes"`
	Edges      []GraphEdge `json:"edges"`
	CenterNode EntityKey   `json:"center_node"`
	LayoutType LayoutType  `json:"layout_type"`
}
