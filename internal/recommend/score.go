package recommend

import (
	"math"
	"strings"
)

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := 0; i < len(a); i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// embeddingSimilarity maps cosine output onto [0,1].
func embeddingSimilarity(a, b []float32) float64 {
	return clamp01(cosine(a, b))
}

// tagSimilarity is Jaccard overlap over case-folded tag sets.
func tagSimilarity(a, b []string) (float64, []string) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}
	setA := map[string]string{}
	for _, tag := range a {
		setA[strings.ToLower(tag)] = tag
	}
	shared := make([]string, 0, len(b))
	union := len(setA)
	seenB := map[string]struct{}{}
	for _, tag := range b {
		folded := strings.ToLower(tag)
		if _, dup := seenB[folded]; dup {
			continue
		}
		seenB[folded] = struct{}{}
		if orig, ok := setA[folded]; ok {
			shared = append(shared, orig)
		} else {
			union++
		}
	}
	if union == 0 {
		return 0, nil
	}
	return clamp01(float64(len(shared)) / float64(union)), shared
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
