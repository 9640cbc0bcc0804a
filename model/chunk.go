package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Modality classifies the content of a chunk or the target of a query
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
)

// Chunk represents the atomic retrievable unit: a text window or a single image.
// Its ID is content-addressed, so identical content always maps to the same ID
// and re-ingestion overwrites instead of duplicating.
type Chunk struct {
	ID        string    `json:"id"`
	Modality  Modality  `json:"modality"`
	Content   string    `json:"content,omitempty"`
	Data      []byte    `json:"data,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentID derives the content-addressed identifier for raw chunk content.
// Identical bytes always produce the identical ID.
func ContentID(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])[:16]
}

// NewTextChunk creates a text chunk with a freshly computed content-addressed ID
func NewTextChunk(content string, metadata Metadata) *Chunk {
	if metadata == nil {
		metadata = Metadata{}
	}
	return &Chunk{
		ID:        ContentID([]byte(content)),
		Modality:  ModalityText,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}

// NewImageChunk creates an image chunk with a freshly computed content-addressed ID
func NewImageChunk(data []byte, metadata Metadata) *Chunk {
	if metadata == nil {
		metadata = Metadata{}
	}
	return &Chunk{
		ID:        ContentID(data),
		Modality:  ModalityImage,
		Data:      data,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}
