package domain

// RawEntity is the structured form of a graph read. It replaces the
// driver's duck-typed node handle with an explicit present/missing union,
// so sanitization is a total function instead of runtime shape-sniffing.
type RawEntity struct {
	Present    bool
	Kind       EntityKind
	Labels     []string
	Properties map[string]any
}

// Missing is the absent arm of the union.
var Missing = RawEntity{}

// Name returns the display name of the entity, preferring the name
// property over title.
func (e RawEntity) Name() string {
	if !e.Present {
		return ""
	}
	for _, key := range []string{"name", "title"} {
		if v, ok := e.Properties[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// EntityKey derives the canonical key for a present entity.
func (e RawEntity) EntityKey() EntityKey {
	if !e.Present {
		return EntityKey{}
	}
	return EntityKey{Kind: e.Kind, Key: e.Name()}
}

// RawEdge is a 1-hop connection out of a center entity. Neighbor carries
// the far node so assemblers do not need a second round trip for display
// attributes.
type RawEdge struct {
	From         EntityKey
	Relationship string
	Properties   map[string]any
	Neighbor     RawEntity
}
