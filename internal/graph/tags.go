package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
)

// NormalizeTags cleans a free-form tag collection into a deduplicated set
// of display names. Null and empty entries are dropped silently; anything
// that still looks like a driver serialization after coercion is
// discarded. Output is sorted for determinism.
func NormalizeTags(raw []any, log *logger.Logger) []string {
	seen := map[string]struct{}{}
	for _, item := range raw {
		name := tagName(item, log)
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func tagName(item any, log *logger.Logger) string {
	switch val := item.(type) {
	case nil:
		return ""
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return ""
		}
		if !handlePattern.MatchString(trimmed) {
			return trimmed
		}
		if m := handleNamePattern.FindStringSubmatch(trimmed); m != nil {
			name := strings.TrimSpace(m[1])
			if name != "" && !handlePattern.MatchString(name) {
				return name
			}
		}
		return ""
	case dbtype.Node:
		return nameFromProps(val.Props)
	case *dbtype.Node:
		if val == nil {
			return ""
		}
		return nameFromProps(val.Props)
	case domain.RawEntity:
		return val.Name()
	case map[string]any:
		return nameFromProps(val)
	case domain.TagRecord:
		return strings.TrimSpace(val.Name)
	default:
		coerced := strings.TrimSpace(fmt.Sprint(val))
		if coerced == "" || handlePattern.MatchString(coerced) {
			if log != nil && coerced != "" {
				log.Warn("discarding unrecognized tag value", "len", len(coerced))
			}
			return ""
		}
		return coerced
	}
}

func nameFromProps(props map[string]any) string {
	for _, key := range []string{"name", "title"} {
		if v, ok := props[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
