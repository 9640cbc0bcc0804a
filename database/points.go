package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/quester/helper"
	"github.com/siherrmann/quester/model"
	loadSql "github.com/siherrmann/quester/sql"
)

// PointsDBHandlerFunctions defines the interface for point database operations.
type PointsDBHandlerFunctions interface {
	InitCollection(ctx context.Context, collection string, embeddingDim int) error
	Upsert(ctx context.Context, collection string, id string, embedding []float32, payload model.Metadata) error
	Query(ctx context.Context, collection string, embedding []float32, filter model.Metadata, limit int) ([]model.Point, error)
	Delete(ctx context.Context, collection string, id string) error
	Count(ctx context.Context, collection string) (int64, error)
}

// PointsDBHandler handles point-related database operations across collections
type PointsDBHandler struct {
	db *helper.Database
}

// NewPointsDBHandler creates a new points database handler.
// It initializes the database connection and loads point-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewPointsDBHandler(db *helper.Database, force bool) (*PointsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	pointsDbHandler := &PointsDBHandler{
		db: db,
	}

	err := loadSql.LoadPointsSql(pointsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load points sql", err)
	}

	db.Logger.Info("Initialized PointsDBHandler")

	return pointsDbHandler, nil
}

// InitCollection creates the table and indexes for a collection.
// If the collection already exists, it does not create it again.
func (h *PointsDBHandler) InitCollection(ctx context.Context, collection string, embeddingDim int) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_points($1, $2);`, collection, embeddingDim)
	if err != nil {
		return helper.NewError("init collection", err)
	}

	h.db.Logger.Info("Checked/created collection", slog.String("collection", collection), slog.Int("dim", embeddingDim))

	return nil
}

// Upsert inserts a point or overwrites the point with the same id
func (h *PointsDBHandler) Upsert(ctx context.Context, collection string, id string, embedding []float32, payload model.Metadata) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT upsert_point($1, $2, $3, $4);`,
		collection,
		id,
		pgvector.NewVector(embedding),
		payload,
	)
	if err != nil {
		return helper.NewError("upsert point", err)
	}

	return nil
}

// Query performs a filtered nearest-neighbor search on a collection.
// Results are ordered by descending similarity score. A nil filter matches
// every point; filter conditions are conjunctive exact matches on the payload.
func (h *PointsDBHandler) Query(ctx context.Context, collection string, embedding []float32, filter model.Metadata, limit int) ([]model.Point, error) {
	var filterValue interface{}
	if len(filter) > 0 {
		b, err := filter.Marshal()
		if err != nil {
			return nil, helper.NewError("marshal filter", err)
		}
		filterValue = b
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM search_points($1, $2, $3, $4);`,
		collection,
		pgvector.NewVector(embedding),
		filterValue,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query points", err)
	}
	defer rows.Close()

	var points []model.Point
	for rows.Next() {
		point := model.Point{}
		err := rows.Scan(
			&point.ID,
			&point.Score,
			&point.Payload,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		points = append(points, point)
	}

	return points, rows.Err()
}

// Delete removes a point by id
func (h *PointsDBHandler) Delete(ctx context.Context, collection string, id string) error {
	_, err := h.db.Instance.ExecContext(ctx, `SELECT delete_point($1, $2);`, collection, id)
	if err != nil {
		return helper.NewError("delete point", err)
	}
	return nil
}

// Count returns the number of points in a collection
func (h *PointsDBHandler) Count(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := h.db.Instance.QueryRowContext(ctx, `SELECT count_points($1);`, collection).Scan(&count)
	if err != nil {
		return 0, helper.NewError("count points", err)
	}
	return count, nil
}
