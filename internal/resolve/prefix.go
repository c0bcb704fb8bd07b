package resolve

import "strings"

// legacyPrefixes are the identifier conventions accumulated by upstream
// callers over time: a graph-source prefix plus title, and synthetic
// prefixes plus slug-cased names. Decoding lives here and nowhere else;
// everything past this adapter speaks canonical EntityKey.
// Longest-match-first so "gsrc_" wins over "g_"-style collisions.
var legacyPrefixes = []string{
	"gsrc_",
	"gnode_",
	"syn_",
	"kg_",
}

// stripLegacyPrefix removes at most one recognized prefix from the start
// of the identifier. A prefix-like substring later in a title is left
// alone.
func stripLegacyPrefix(raw string) (name string, hadPrefix bool) {
	for _, prefix := range legacyPrefixes {
		if strings.HasPrefix(raw, prefix) && len(raw) > len(prefix) {
			return raw[len(prefix):], true
		}
	}
	return raw, false
}

// candidateNames expands a decoded identifier into the name variants
// worth trying against the graph: the literal form, and a de-slugged form
// for synthetic slug-cased identifiers ("two-sum" -> "Two Sum").
func candidateNames(name string) []string {
	out := []string{name}
	if strings.ContainsAny(name, "-_") {
		deslugged := deslug(name)
		if deslugged != name {
			out = append(out, deslugged)
		}
	}
	return out
}

func deslug(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
