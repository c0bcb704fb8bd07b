package graph

import (
	"reflect"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/codeatlas/kgqa-backend/internal/domain"
)

func TestSanitizePrimitivesPassThrough(t *testing.T) {
	for _, v := range []any{nil, true, false, 42, int64(7), 3.14, "plain text"} {
		if got := Sanitize(v, nil); !reflect.DeepEqual(got, v) {
			t.Fatalf("Sanitize(%v) = %v, want unchanged", v, got)
		}
	}
}

func TestSanitizeHandleStringExtractsName(t *testing.T) {
	got := Sanitize("<Node id=4 name='Backtracking' labels=Algorithm>", nil)
	if got != "Backtracking" {
		t.Fatalf("expected extracted name, got %v", got)
	}
}

func TestSanitizeHandleStringWithoutNameBecomesPlaceholder(t *testing.T) {
	got := Sanitize("<Node id=4 labels=Algorithm>", nil)
	if got != "graph node" {
		t.Fatalf("expected placeholder, got %v", got)
	}
}

func TestSanitizeNodeWhitelist(t *testing.T) {
	node := dbtype.Node{
		Labels: []string{"Algorithm"},
		Props: map[string]any{
			"name":        "Backtracking",
			"description": "explore and undo",
			"internal_id": int64(99),
		},
	}
	got, ok := Sanitize(node, nil).(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", Sanitize(node, nil))
	}
	if got["name"] != "Backtracking" || got["description"] != "explore and undo" {
		t.Fatalf("whitelist fields not extracted: %v", got)
	}
	if got["title"] != "" || got["category"] != "" || got["kind"] != "" {
		t.Fatalf("missing whitelist fields should default to empty string: %v", got)
	}
	if _, leaked := got["internal_id"]; leaked {
		t.Fatalf("non-whitelisted field leaked: %v", got)
	}
}

func TestSanitizeNodePropValuesThatAreHandles(t *testing.T) {
	node := dbtype.Node{Props: map[string]any{
		"name":        "<Node id=7 name='Two Sum'>",
		"description": "<Relationship id=3>",
	}}
	once, ok := Sanitize(node, nil).(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", Sanitize(node, nil))
	}
	if once["name"] != "Two Sum" {
		t.Fatalf("handle-valued property should reduce to its name: %v", once["name"])
	}
	if once["description"] != "graph node" {
		t.Fatalf("nameless handle value should become placeholder: %v", once["description"])
	}
	for field, v := range once {
		if s, ok := v.(string); ok && handlePattern.MatchString(s) {
			t.Fatalf("sanitized property %q still matches handle pattern: %q", field, s)
		}
	}
	twice := Sanitize(once, nil)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent: once=%v twice=%v", once, twice)
	}
}

func TestSanitizeMissingEntityIsNil(t *testing.T) {
	if got := Sanitize(domain.Missing, nil); got != nil {
		t.Fatalf("missing entity should sanitize to nil, got %v", got)
	}
}

func TestSanitizeMapDropsEmptiedCollections(t *testing.T) {
	in := map[string]any{
		"keep":  "value",
		"empty": []any{nil, nil},
		"list":  []any{"a", nil, "b"},
	}
	got := Sanitize(in, nil).(map[string]any)
	if _, present := got["empty"]; present {
		t.Fatalf("emptied collection key should be dropped: %v", got)
	}
	if !reflect.DeepEqual(got["list"], []any{"a", "b"}) {
		t.Fatalf("list should drop nils preserving order: %v", got["list"])
	}
	if got["keep"] != "value" {
		t.Fatalf("plain key mangled: %v", got)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []any{
		"<Node name='Two Sum'>",
		"<Node id=1>",
		map[string]any{
			"title": "<Node name='DFS'>",
			"tags":  []any{"<Node name='Graph'>", nil, "Tree"},
			"node": dbtype.Node{Props: map[string]any{
				"name": "Heap",
			}},
		},
		[]any{1, "x", nil, map[string]any{"empty": []any{}}},
	}
	for _, in := range inputs {
		once := Sanitize(in, nil)
		twice := Sanitize(once, nil)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("not idempotent for %v: once=%v twice=%v", in, once, twice)
		}
	}
}

func TestSanitizedOutputNeverMatchesHandlePattern(t *testing.T) {
	inputs := []string{
		"<Node name='Backtracking'>",
		"<Node name='<inner>'>",
		"<Relationship id=3>",
	}
	for _, in := range inputs {
		got, ok := Sanitize(in, nil).(string)
		if !ok {
			t.Fatalf("expected string for %q", in)
		}
		if handlePattern.MatchString(got) {
			t.Fatalf("sanitized output still matches handle pattern: %q", got)
		}
	}
}

func TestSanitizeUnknownTypeDegradesToString(t *testing.T) {
	type custom struct{ X int }
	got := Sanitize(custom{X: 1}, nil)
	if _, ok := got.(string); !ok {
		t.Fatalf("unknown type should degrade to string, got %T", got)
	}
}
