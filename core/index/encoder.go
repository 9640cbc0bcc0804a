package index

import "context"

// TextEncoder maps text into a vector space
type TextEncoder interface {
	EncodeText(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// QueryEncoder is implemented by text encoders that embed queries differently
// from documents, like the Gemini embedding API with its retrieval task types.
type QueryEncoder interface {
	EncodeQuery(ctx context.Context, text string) ([]float32, error)
}

// JointEncoder maps text and images into one shared vector space.
// Encoding a query text with the same encoder that embedded the images is
// what makes text to image search work.
type JointEncoder interface {
	TextEncoder
	EncodeImage(ctx context.Context, data []byte) ([]float32, error)
}
