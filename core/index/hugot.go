package index

import (
	"context"
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/siherrmann/quester/helper"
)

// DefaultTextModel produces 384-dimensional sentence embeddings
const DefaultTextModel = "sentence-transformers/all-MiniLM-L6-v2"

// HugotEncoder runs a local sentence transformer model in-process
type HugotEncoder struct {
	session   *hugot.Session
	embed     func(text string) ([]float32, error)
	dimension int
}

// NewHugotEncoder downloads the model if needed and creates an encoder for it
func NewHugotEncoder(modelName string, dimension int) (*HugotEncoder, error) {
	// Prepare model (download if needed)
	modelPath, err := helper.PrepareModel(modelName)
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "text-encoder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return &HugotEncoder{
		session: session,
		embed: func(text string) ([]float32, error) {
			result, err := sentencePipeline.RunPipeline([]string{text})
			if err != nil {
				return nil, fmt.Errorf("failed to generate embedding: %w", err)
			}
			if len(result.Embeddings) == 0 {
				return nil, fmt.Errorf("no embedding generated")
			}
			return result.Embeddings[0], nil
		},
		dimension: dimension,
	}, nil
}

// EncodeText generates the embedding for a single text
func (e *HugotEncoder) EncodeText(_ context.Context, text string) ([]float32, error) {
	return e.embed(text)
}

// Dimension returns the length of the produced embedding vectors
func (e *HugotEncoder) Dimension() int {
	return e.dimension
}

// Close destroys the underlying model session
func (e *HugotEncoder) Close() error {
	return e.session.Destroy()
}
