package model

// SearchConfig represents configuration for a retrieval query
type SearchConfig struct {
	// Modality selects the target vector space. Defaults to text.
	Modality Modality `json:"modality,omitempty"`

	// Filters are conjunctive exact-match conditions on payload fields.
	// AND-only; no OR or negation support.
	Filters Metadata `json:"filters,omitempty"`

	// Limit caps the number of returned results
	Limit int `json:"limit"`
}

// DefaultSearchConfig returns a sensible default configuration
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Modality: ModalityText,
		Limit:    5,
	}
}
