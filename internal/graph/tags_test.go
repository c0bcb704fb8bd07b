package graph

import (
	"reflect"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/codeatlas/kgqa-backend/internal/domain"
)

func TestNormalizeTagsDedupesAcrossForms(t *testing.T) {
	got := NormalizeTags([]any{"A", "A", "<Node name='A'>"}, nil)
	if !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("expected {A}, got %v", got)
	}
}

func TestNormalizeTagsMixedStringAndHandle(t *testing.T) {
	got := NormalizeTags([]any{"Array", "<Node name='Backtracking'>", "Array"}, nil)
	if !reflect.DeepEqual(got, []string{"Array", "Backtracking"}) {
		t.Fatalf("expected {Array, Backtracking}, got %v", got)
	}
}

func TestNormalizeTagsDropsEmptyAndNil(t *testing.T) {
	got := NormalizeTags([]any{nil, "", "  ", "Tree"}, nil)
	if !reflect.DeepEqual(got, []string{"Tree"}) {
		t.Fatalf("expected {Tree}, got %v", got)
	}
}

func TestNormalizeTagsNodeLikeValues(t *testing.T) {
	got := NormalizeTags([]any{
		dbtype.Node{Props: map[string]any{"name": "Heap"}},
		map[string]any{"title": "Stack"},
		domain.RawEntity{Present: true, Properties: map[string]any{"name": "Queue"}},
	}, nil)
	if !reflect.DeepEqual(got, []string{"Heap", "Queue", "Stack"}) {
		t.Fatalf("expected {Heap, Queue, Stack}, got %v", got)
	}
}

func TestNormalizeTagsDiscardsUnextractableHandles(t *testing.T) {
	got := NormalizeTags([]any{"<Node id=9>", "Graph"}, nil)
	if !reflect.DeepEqual(got, []string{"Graph"}) {
		t.Fatalf("handle without a name should be discarded, got %v", got)
	}
}

func TestNormalizeTagsOutputNeverMatchesHandlePattern(t *testing.T) {
	got := NormalizeTags([]any{
		"<Node name='Backtracking'>",
		"<Node name=''>",
		"<Relationship id=3>",
		"Graph",
	}, nil)
	if !reflect.DeepEqual(got, []string{"Backtracking", "Graph"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
	for _, tag := range got {
		if handlePattern.MatchString(tag) {
			t.Fatalf("normalized tag still matches handle pattern: %q", tag)
		}
	}
}
