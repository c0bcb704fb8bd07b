package domain

// Strength labels how a recommendation earned its slot.
type Strength string

const (
	StrengthDirectMatch Strength = "direct_match"
	StrengthStrong      Strength = "strong"
	StrengthBasic       Strength = "basic"
	StrengthFallback    Strength = "fallback"
)

// ScoreComponents are all clamped to [0,1].
type ScoreComponents struct {
	EmbeddingSimilarity float64 `json:"embedding_similarity"`
	TagSimilarity       float64 `json:"tag_similarity"`
	HybridScore         float64 `json:"hybrid_score"`
}

type RecommendationItem struct {
	Title      string          `json:"title"`
	Scores     ScoreComponents `json:"scores"`
	SharedTags []string        `json:"shared_tags"`
	Rationale  string          `json:"rationale"`
	Strength   Strength        `json:"strength"`
	Detail     *NodeDetail     `json:"detail,omitempty"`
}
