package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/siherrmann/quester/model"
)

const (
	// DefaultChunkSize is the target character length of one text chunk
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the number of characters carried over between
	// adjacent chunks to preserve context across boundaries
	DefaultChunkOverlap = 200
)

// defaultSeparators are tried in order, so splits prefer paragraph breaks
// over line breaks over word breaks.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Chunker splits documents into content-addressed chunks.
// Text documents are split into overlapping windows along natural boundaries,
// images always become exactly one chunk.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given window size and overlap in
// characters. Non-positive values fall back to the defaults.
func NewChunker(chunkSize int, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Chunk splits a document into chunks according to its file type
func (c *Chunker) Chunk(document *model.Document) ([]*model.Chunk, error) {
	modality, ok := document.FileType.Modality()
	if !ok {
		return nil, model.UnsupportedFormat(document.FileType)
	}

	if modality == model.ModalityImage {
		return c.chunkImage(document)
	}
	return c.chunkText(document)
}

func (c *Chunker) chunkText(document *model.Document) ([]*model.Chunk, error) {
	extract, ok := extractorFor(document.FileType)
	if !ok {
		return nil, model.UnsupportedFormat(document.FileType)
	}

	units, err := extract(document.Data)
	if err != nil {
		return nil, model.ExtractionFailure(document.Source, err)
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)

	var chunks []*model.Chunk
	for _, unit := range units {
		var unitChunks []*model.Chunk
		for _, window := range c.splitText(unit.Text, defaultSeparators) {
			window = strings.TrimSpace(window)
			if window == "" {
				continue
			}

			unitChunks = append(unitChunks, model.NewTextChunk(window, model.Metadata{
				"source":     document.Source,
				"file_type":  string(document.FileType),
				"page":       unit.Page,
				"created_at": createdAt,
			}))
		}

		// Position metadata is scoped to the unit, so every page or row
		// restarts at chunk_1
		for i, chunk := range unitChunks {
			chunk.Metadata["chunk_id"] = chunk.ID
			chunk.Metadata["section"] = fmt.Sprintf("chunk_%d", i+1)
			chunk.Metadata["chunk_index"] = i
			chunk.Metadata["total_chunks"] = len(unitChunks)
		}

		chunks = append(chunks, unitChunks...)
	}

	return chunks, nil
}

func (c *Chunker) chunkImage(document *model.Document) ([]*model.Chunk, error) {
	config, format, err := image.DecodeConfig(bytes.NewReader(document.Data))
	if err != nil {
		return nil, model.ExtractionFailure(document.Source, err)
	}

	chunk := model.NewImageChunk(document.Data, model.Metadata{
		"source":     document.Source,
		"file_type":  string(document.FileType),
		"page":       1,
		"width":      config.Width,
		"height":     config.Height,
		"format":     format,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
	chunk.Metadata["chunk_id"] = chunk.ID

	return []*model.Chunk{chunk}, nil
}

// splitText recursively splits text along the first separator that occurs in
// it, then merges the pieces back into windows of at most chunkSize characters.
func (c *Chunker) splitText(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var nextSeparators []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			separator = candidate
			nextSeparators = separators[i+1:]
			break
		}
	}

	var splits []string
	for _, split := range splitOn(text, separator) {
		if split != "" {
			splits = append(splits, split)
		}
	}

	var windows []string
	var mergeable []string
	for _, split := range splits {
		if len(split) < c.chunkSize {
			mergeable = append(mergeable, split)
			continue
		}

		if len(mergeable) > 0 {
			windows = append(windows, c.mergeSplits(mergeable, separator)...)
			mergeable = nil
		}

		// Oversized split with no finer separator left stays as is
		if len(nextSeparators) == 0 {
			windows = append(windows, split)
		} else {
			windows = append(windows, c.splitText(split, nextSeparators)...)
		}
	}
	if len(mergeable) > 0 {
		windows = append(windows, c.mergeSplits(mergeable, separator)...)
	}

	return windows
}

// mergeSplits joins consecutive splits into windows of at most chunkSize
// characters, carrying up to chunkOverlap characters into the next window.
func (c *Chunker) mergeSplits(splits []string, separator string) []string {
	separatorLen := len(separator)

	var windows []string
	var current []string
	currentLen := 0

	appendWindow := func() {
		window := strings.TrimSpace(strings.Join(current, separator))
		if window != "" {
			windows = append(windows, window)
		}
	}

	for _, split := range splits {
		joinLen := len(split)
		if len(current) > 0 {
			joinLen += separatorLen
		}

		if currentLen+joinLen > c.chunkSize && len(current) > 0 {
			appendWindow()

			for currentLen > c.chunkOverlap && len(current) > 0 {
				removed := len(current[0])
				if len(current) > 1 {
					removed += separatorLen
				}
				currentLen -= removed
				current = current[1:]
			}
		}

		if len(current) > 0 {
			currentLen += separatorLen
		}
		current = append(current, split)
		currentLen += len(split)
	}

	if len(current) > 0 {
		appendWindow()
	}

	return windows
}

func splitOn(text string, separator string) []string {
	if separator == "" {
		return strings.Split(text, "")
	}
	return strings.Split(text, separator)
}
