package model

// Point is one record of a vector index collection: a content-addressed id,
// its similarity score when returned from a query, and the full payload.
type Point struct {
	ID      string   `json:"id"`
	Score   float64  `json:"score"`
	Payload Metadata `json:"payload"`
}

// RetrievalResult represents a single similarity hit.
// It is query-scoped and never persisted.
type RetrievalResult struct {
	Score    float64  `json:"score"`    // Cosine similarity score, higher is more similar
	Content  string   `json:"content"`  // Raw text, or base64-encoded image data
	Metadata Metadata `json:"metadata"` // Full payload of the matched point
}
