package index

import (
	"context"

	"github.com/siherrmann/quester/model"
)

// Store is the persistence contract of the vector index.
// Implementations must keep at most one point per id within a collection and
// return query results ordered by descending similarity score.
type Store interface {
	InitCollection(ctx context.Context, collection string, embeddingDim int) error
	Upsert(ctx context.Context, collection string, id string, embedding []float32, payload model.Metadata) error
	Query(ctx context.Context, collection string, embedding []float32, filter model.Metadata, limit int) ([]model.Point, error)
	Delete(ctx context.Context, collection string, id string) error
	Count(ctx context.Context, collection string) (int64, error)
}
