package index

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Task types the Gemini embedding API distinguishes between. Stored documents
// and search queries are embedded with their matching task type.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// GeminiEncoder embeds text through the Gemini embedding API.
// It implements QueryEncoder, so documents are embedded with
// RETRIEVAL_DOCUMENT and queries with RETRIEVAL_QUERY.
type GeminiEncoder struct {
	model     string
	dimension int
	embed     func(ctx context.Context, text string, taskType string) ([]float32, error)
}

// NewGeminiEncoder creates a remote text encoder
func NewGeminiEncoder(apiKey string, modelName string, dimension int) *GeminiEncoder {
	apiKey = strings.TrimSpace(apiKey)

	encoder := &GeminiEncoder{
		model:     modelName,
		dimension: dimension,
	}
	encoder.embed = func(ctx context.Context, text string, taskType string) ([]float32, error) {
		if apiKey == "" {
			return nil, fmt.Errorf("missing api key")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, err
		}

		response, err := client.Models.EmbedContent(
			ctx,
			encoder.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
			&genai.EmbedContentConfig{TaskType: taskType},
		)
		if err != nil {
			return nil, err
		}
		if len(response.Embeddings) == 0 {
			return nil, fmt.Errorf("no embedding values returned")
		}

		return response.Embeddings[0].Values, nil
	}

	return encoder
}

// EncodeText generates the embedding for a document text
func (e *GeminiEncoder) EncodeText(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, TaskRetrievalDocument)
}

// EncodeQuery generates the embedding for a search query
func (e *GeminiEncoder) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, TaskRetrievalQuery)
}

// Dimension returns the length of the produced embedding vectors
func (e *GeminiEncoder) Dimension() int {
	return e.dimension
}
