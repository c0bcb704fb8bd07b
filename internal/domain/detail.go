package domain

// BasicInfo holds the display attributes of a resolved entity. Its
// presence on NodeDetail is the success signal: a detail response without
// BasicInfo is a resolution failure, never a malformed entity.
type BasicInfo struct {
	Title       string     `json:"title"`
	Kind        EntityKind `json:"kind"`
	Description string     `json:"description,omitempty"`
	Difficulty  string     `json:"difficulty,omitempty"`
	Platform    string     `json:"platform,omitempty"`
	Category    string     `json:"category,omitempty"`
}

// TagRecord is the sanitized, display-safe form of a tag, whether it
// started life as a plain string or a graph node.
type TagRecord struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

type NodeDetail struct {
	BasicInfo      *BasicInfo  `json:"basic_info,omitempty"`
	Algorithms     []TagRecord `json:"algorithms"`
	DataStructures []TagRecord `json:"data_structures"`
	Techniques     []TagRecord `json:"techniques"`
	Related        []EntityKey `json:"related"`
}
