package model

// Source attributes part of an answer to a retrieved chunk
type Source struct {
	Source string  `json:"source"`
	Page   int     `json:"page"`
	Score  float64 `json:"score"`
}

// SubAnswer records one decomposed sub-question and its individual answer
type SubAnswer struct {
	SubQuery string `json:"subquery"`
	Answer   string `json:"answer"`
}

// Answer is the result of answering a query. Sources preserve retrieval rank
// order; for decomposed queries they are the in-order concatenation of every
// sub-question's sources, without deduplication. SubQueries carries the full
// decomposition trace and is empty for direct answers.
type Answer struct {
	Text       string      `json:"answer"`
	Sources    []Source    `json:"sources"`
	SubQueries []SubAnswer `json:"subqueries,omitempty"`
}
