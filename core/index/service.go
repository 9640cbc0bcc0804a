package index

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siherrmann/quester/model"
)

// Collection names of the two vector spaces
const (
	CollectionText  = "text_chunks"
	CollectionImage = "image_chunks"
)

// payload keys holding the retrievable content itself
const (
	payloadKeyText  = "text"
	payloadKeyImage = "image_data"
)

// filterableKeys are the payload fields search filters may reference.
// Unknown keys are dropped instead of failing the whole query.
var filterableKeys = map[string]struct{}{
	"source":       {},
	"page":         {},
	"section":      {},
	"file_type":    {},
	"format":       {},
	"width":        {},
	"height":       {},
	"created_at":   {},
	"chunk_index":  {},
	"total_chunks": {},
}

// Service embeds chunks into their modality's vector space and searches them.
// Text chunks live in the text collection, image chunks in the image
// collection. Queries against the image collection are encoded with the joint
// encoder, so plain text finds images.
type Service struct {
	store Store
	text  TextEncoder
	joint JointEncoder
	log   *slog.Logger
}

// NewService creates an index service. The joint encoder may be nil, in which
// case image ingestion and image search report the backend as unavailable.
func NewService(store Store, text TextEncoder, joint JointEncoder, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if text == nil {
		return nil, fmt.Errorf("text encoder is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store: store,
		text:  text,
		joint: joint,
		log:   logger,
	}, nil
}

// Init creates the text collection, and the image collection if a joint
// encoder is configured.
func (s *Service) Init(ctx context.Context) error {
	err := s.store.InitCollection(ctx, CollectionText, s.text.Dimension())
	if err != nil {
		return model.RetrievalUnavailable(err)
	}

	if s.joint != nil {
		err = s.store.InitCollection(ctx, CollectionImage, s.joint.Dimension())
		if err != nil {
			return model.RetrievalUnavailable(err)
		}
	}

	return nil
}

// EmbedAndStore embeds every chunk and upserts it into its collection.
// Chunks with identical content share an id, so re-ingestion overwrites
// instead of duplicating. Returns the number of stored chunks.
func (s *Service) EmbedAndStore(ctx context.Context, chunks []*model.Chunk) (int, error) {
	stored := 0
	for _, chunk := range chunks {
		var err error
		switch chunk.Modality {
		case model.ModalityText:
			err = s.storeText(ctx, chunk)
		case model.ModalityImage:
			err = s.storeImage(ctx, chunk)
		default:
			err = fmt.Errorf("unknown modality %q", chunk.Modality)
		}
		if err != nil {
			return stored, err
		}
		stored++
	}

	s.log.Debug("Stored chunks", slog.Int("count", stored))

	return stored, nil
}

func (s *Service) storeText(ctx context.Context, chunk *model.Chunk) error {
	embedding, err := s.text.EncodeText(ctx, chunk.Content)
	if err != nil {
		return model.RetrievalUnavailable(err)
	}

	payload := chunk.Metadata.Clone()
	payload[payloadKeyText] = chunk.Content

	err = s.store.Upsert(ctx, CollectionText, chunk.ID, embedding, payload)
	if err != nil {
		return model.RetrievalUnavailable(err)
	}

	return nil
}

func (s *Service) storeImage(ctx context.Context, chunk *model.Chunk) error {
	if s.joint == nil {
		return model.RetrievalUnavailable(fmt.Errorf("no joint encoder configured"))
	}

	embedding, err := s.joint.EncodeImage(ctx, chunk.Data)
	if err != nil {
		return model.RetrievalUnavailable(err)
	}

	payload := chunk.Metadata.Clone()
	payload[payloadKeyImage] = base64.StdEncoding.EncodeToString(chunk.Data)

	err = s.store.Upsert(ctx, CollectionImage, chunk.ID, embedding, payload)
	if err != nil {
		return model.RetrievalUnavailable(err)
	}

	return nil
}

// Search embeds the query text and returns the most similar chunks of the
// requested modality, ordered by descending similarity. Zero matches is a
// successful empty result, not an error.
func (s *Service) Search(ctx context.Context, queryText string, config *model.SearchConfig) ([]model.RetrievalResult, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, model.ErrEmptyQuery
	}

	resolved := model.DefaultSearchConfig()
	if config != nil {
		if config.Modality != "" {
			resolved.Modality = config.Modality
		}
		if config.Limit > 0 {
			resolved.Limit = config.Limit
		}
		resolved.Filters = s.sanitizeFilters(config.Filters)
	}

	var collection string
	var embedding []float32
	var err error

	switch resolved.Modality {
	case model.ModalityText:
		collection = CollectionText
		embedding, err = encodeQuery(ctx, s.text, queryText)
	case model.ModalityImage:
		if s.joint == nil {
			return nil, model.RetrievalUnavailable(fmt.Errorf("no joint encoder configured"))
		}
		collection = CollectionImage
		embedding, err = encodeQuery(ctx, s.joint, queryText)
	default:
		return nil, fmt.Errorf("unknown modality %q", resolved.Modality)
	}
	if err != nil {
		return nil, model.RetrievalUnavailable(err)
	}

	points, err := s.store.Query(ctx, collection, embedding, resolved.Filters, resolved.Limit)
	if err != nil {
		return nil, model.RetrievalUnavailable(err)
	}

	results := make([]model.RetrievalResult, 0, len(points))
	for _, point := range points {
		results = append(results, resultFromPoint(point, resolved.Modality))
	}

	s.log.Debug("Search finished", slog.String("collection", collection), slog.Int("results", len(results)))

	return results, nil
}

// encodeQuery uses the encoder's dedicated query path when it has one
func encodeQuery(ctx context.Context, encoder TextEncoder, text string) ([]float32, error) {
	if queryEncoder, ok := encoder.(QueryEncoder); ok {
		return queryEncoder.EncodeQuery(ctx, text)
	}
	return encoder.EncodeText(ctx, text)
}

// sanitizeFilters drops filter keys that are not queryable payload fields
func (s *Service) sanitizeFilters(filters model.Metadata) model.Metadata {
	if len(filters) == 0 {
		return nil
	}

	sanitized := model.Metadata{}
	for key, value := range filters {
		if _, ok := filterableKeys[key]; !ok {
			s.log.Warn("Dropping unknown filter key", slog.String("key", key))
			continue
		}
		sanitized[key] = value
	}

	if len(sanitized) == 0 {
		return nil
	}
	return sanitized
}

func resultFromPoint(point model.Point, modality model.Modality) model.RetrievalResult {
	contentKey := payloadKeyText
	if modality == model.ModalityImage {
		contentKey = payloadKeyImage
	}

	content, _ := point.Payload[contentKey].(string)
	metadata := point.Payload.Clone()
	delete(metadata, contentKey)

	return model.RetrievalResult{
		Score:    point.Score,
		Content:  content,
		Metadata: metadata,
	}
}
