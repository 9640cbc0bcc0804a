package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/siherrmann/quester/model"
)

type memoryPoint struct {
	id        string
	embedding []float32
	payload   model.Metadata
}

// MemoryStore is an in-process Store for tests and small corpora.
// It is safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	dimensions  map[string]int
	collections map[string]map[string]memoryPoint
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		dimensions:  map[string]int{},
		collections: map[string]map[string]memoryPoint{},
	}
}

// InitCollection creates a collection. Existing collections are left untouched.
func (s *MemoryStore) InitCollection(_ context.Context, collection string, embeddingDim int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection]; ok {
		return nil
	}
	s.collections[collection] = map[string]memoryPoint{}
	s.dimensions[collection] = embeddingDim

	return nil
}

// Upsert inserts a point or overwrites the point with the same id
func (s *MemoryStore) Upsert(_ context.Context, collection string, id string, embedding []float32, payload model.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	points, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	if dim := s.dimensions[collection]; len(embedding) != dim {
		return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(embedding), dim)
	}

	points[id] = memoryPoint{
		id:        id,
		embedding: embedding,
		payload:   payload.Clone(),
	}

	return nil
}

// Query performs a filtered nearest-neighbor search on a collection.
// Results are ordered by descending cosine similarity. A nil filter matches
// every point; filter conditions are conjunctive exact matches on the payload.
func (s *MemoryStore) Query(_ context.Context, collection string, embedding []float32, filter model.Metadata, limit int) ([]model.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}

	var results []model.Point
	for _, point := range points {
		if !point.payload.Matches(filter) {
			continue
		}
		results = append(results, model.Point{
			ID:      point.id,
			Score:   cosineSimilarity(embedding, point.embedding),
			Payload: point.payload.Clone(),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Delete removes a point by id
func (s *MemoryStore) Delete(_ context.Context, collection string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	points, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	delete(points, id)

	return nil
}

// Count returns the number of points in a collection
func (s *MemoryStore) Count(_ context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points, ok := s.collections[collection]
	if !ok {
		return 0, fmt.Errorf("unknown collection %q", collection)
	}

	return int64(len(points)), nil
}

// cosineSimilarity calculates the cosine similarity between two embedding vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
