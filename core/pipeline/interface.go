package pipeline

// Unit is one extractable portion of a text document, for example a page of a
// PDF or a row of a CSV file. Page numbering starts at 1.
type Unit struct {
	Text string
	Page int
}

// ExtractFunc converts raw document bytes into text units
type ExtractFunc func(data []byte) ([]Unit, error)
