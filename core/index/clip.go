package index

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ClipEncoder talks to a CLIP inference service over HTTP.
// The service exposes POST /embed/text and POST /embed/image, both returning
// {"embedding": [...]}. Text and images land in the same vector space.
type ClipEncoder struct {
	baseURL   string
	dimension int
	client    *http.Client
}

// NewClipEncoder creates a joint encoder backed by the service at baseURL
func NewClipEncoder(baseURL string, dimension int) *ClipEncoder {
	return &ClipEncoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		dimension: dimension,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// EncodeText embeds a text into the joint vector space
func (e *ClipEncoder) EncodeText(ctx context.Context, text string) ([]float32, error) {
	return e.post(ctx, "/embed/text", map[string]string{"text": text})
}

// EncodeImage embeds raw image bytes into the joint vector space
func (e *ClipEncoder) EncodeImage(ctx context.Context, data []byte) ([]float32, error) {
	return e.post(ctx, "/embed/image", map[string]string{
		"image": base64.StdEncoding.EncodeToString(data),
	})
}

// Dimension returns the length of the produced embedding vectors
func (e *ClipEncoder) Dimension() int {
	return e.dimension
}

func (e *ClipEncoder) post(ctx context.Context, path string, payload map[string]string) ([]float32, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := e.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to call encoder service: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		return nil, fmt.Errorf("encoder service returned status %d: %s", response.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return parsed.Embedding, nil
}
