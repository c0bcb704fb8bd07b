package graph

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
)

// placeholderValue replaces a driver serialization whose name could not be
// recovered. Raw driver text must never reach an output boundary.
const placeholderValue = "graph node"

var (
	// A stringified driver handle looks like a single bracketed tag,
	// e.g. <Node id=4 labels=frozenset({'Algorithm'}) name='Backtracking'>.
	handlePattern     = regexp.MustCompile(`^<\s*[A-Za-z][\w.-]*(?:\s+[^<>]*)?\s*>$`)
	handleNamePattern = regexp.MustCompile(`\bname\s*[:=]\s*['"]([^'"]*)['"]`)
)

// nodeFieldWhitelist is the fixed set of fields extracted from node-like
// values. Missing fields default to empty string.
var nodeFieldWhitelist = []string{"name", "title", "description", "category", "kind"}

// Sanitize converts any value that might contain graph-driver records into
// plain serializable data: nil, bool, number, string, map, or list. It
// never panics and is idempotent; unrecognized types degrade to their
// string form.
func Sanitize(v any, log *logger.Logger) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return val
	case string:
		return sanitizeString(val, log)
	case dbtype.Node:
		return sanitizeNodeProps(val.Props, log)
	case *dbtype.Node:
		if val == nil {
			return nil
		}
		return sanitizeNodeProps(val.Props, log)
	case dbtype.Relationship:
		return sanitizeNodeProps(val.Props, log)
	case domain.RawEntity:
		if !val.Present {
			return nil
		}
		return sanitizeNodeProps(val.Properties, log)
	case map[string]any:
		return sanitizeMap(val, log)
	case []any:
		return sanitizeList(val, log)
	case []string:
		out := make([]any, 0, len(val))
		for _, s := range val {
			if clean := sanitizeString(s, log); clean != nil {
				out = append(out, clean)
			}
		}
		return out
	default:
		return sanitizeString(fmt.Sprint(val), log)
	}
}

func sanitizeString(s string, log *logger.Logger) any {
	trimmed := strings.TrimSpace(s)
	if !handlePattern.MatchString(trimmed) {
		return s
	}
	if m := handleNamePattern.FindStringSubmatch(trimmed); m != nil {
		name := strings.TrimSpace(m[1])
		if name != "" && !handlePattern.MatchString(name) {
			return name
		}
	}
	if log != nil {
		log.Warn("unrecognized graph handle serialization replaced", "len", len(trimmed))
	}
	return placeholderValue
}

func sanitizeNodeProps(props map[string]any, log *logger.Logger) map[string]any {
	out := make(map[string]any, len(nodeFieldWhitelist))
	for _, field := range nodeFieldWhitelist {
		out[field] = ""
		if raw, ok := props[field]; ok {
			if s, ok := raw.(string); ok {
				// Property values can themselves be stringified handles.
				if clean, ok := sanitizeString(s, log).(string); ok {
					out[field] = clean
				}
			}
		}
	}
	return out
}

func sanitizeMap(m map[string]any, log *logger.Logger) map[string]any {
	out := make(map[string]any, len(m))
	for k, raw := range m {
		clean := Sanitize(raw, log)
		if wasCollection(raw) && isEmptyCollection(clean) {
			continue
		}
		out[k] = clean
	}
	return out
}

func sanitizeList(list []any, log *logger.Logger) []any {
	out := make([]any, 0, len(list))
	for _, raw := range list {
		clean := Sanitize(raw, log)
		if clean == nil {
			continue
		}
		out = append(out, clean)
	}
	return out
}

func wasCollection(v any) bool {
	switch v.(type) {
	case map[string]any, []any, []string:
		return true
	default:
		return false
	}
}

func isEmptyCollection(v any) bool {
	switch val := v.(type) {
	case map[string]any:
		return len(val) == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
