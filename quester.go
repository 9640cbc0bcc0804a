package quester

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/siherrmann/quester/core/engine"
	"github.com/siherrmann/quester/core/generate"
	"github.com/siherrmann/quester/core/index"
	"github.com/siherrmann/quester/core/pipeline"
	"github.com/siherrmann/quester/database"
	"github.com/siherrmann/quester/helper"
	"github.com/siherrmann/quester/model"
	loadSql "github.com/siherrmann/quester/sql"
)

// DefaultTextDimension is the embedding size of the default text encoder
const DefaultTextDimension = 384

// DefaultImageDimension is the embedding size of the default joint encoder
const DefaultImageDimension = 512

// Quester provides a unified interface to ingestion, retrieval and answering
type Quester struct {
	DB      *helper.Database
	Points  *database.PointsDBHandler
	Chunker *pipeline.Chunker
	Index   *index.Service
	Engine  *engine.Engine
	// Logging
	log *slog.Logger
}

// IngestReport records the outcome of one document in a batch ingestion
type IngestReport struct {
	Source          string `json:"source"`
	ChunksProcessed int    `json:"chunks_processed"`
	Err             error  `json:"-"`
}

// NewQuester creates a Quester backed by a pgvector database.
// The joint encoder may be nil, which disables image ingestion and search.
func NewQuester(config *helper.DatabaseConfiguration, textEncoder index.TextEncoder, jointEncoder index.JointEncoder, gen generate.Generator) (*Quester, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("quester", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	points, err := database.NewPointsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create points handler", err)
	}

	quester, err := newQuester(points, textEncoder, jointEncoder, gen, logger)
	if err != nil {
		return nil, err
	}
	quester.DB = db
	quester.Points = points

	return quester, nil
}

// NewQuesterWithStore creates a Quester on a custom store, for example an
// in-memory store. No database connection is opened.
func NewQuesterWithStore(store index.Store, textEncoder index.TextEncoder, jointEncoder index.JointEncoder, gen generate.Generator) (*Quester, error) {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	return newQuester(store, textEncoder, jointEncoder, gen, logger)
}

func newQuester(store index.Store, textEncoder index.TextEncoder, jointEncoder index.JointEncoder, gen generate.Generator, logger *slog.Logger) (*Quester, error) {
	indexService, err := index.NewService(store, textEncoder, jointEncoder, logger)
	if err != nil {
		return nil, helper.NewError("create index service", err)
	}

	err = indexService.Init(context.Background())
	if err != nil {
		return nil, helper.NewError("initialize collections", err)
	}

	queryEngine, err := engine.NewEngine(indexService, gen, logger)
	if err != nil {
		return nil, helper.NewError("create query engine", err)
	}

	return &Quester{
		Chunker: pipeline.NewChunker(pipeline.DefaultChunkSize, pipeline.DefaultChunkOverlap),
		Index:   indexService,
		Engine:  queryEngine,
		log:     logger,
	}, nil
}

// DefaultTextEncoder creates the local all-MiniLM-L6-v2 text encoder,
// downloading the model on first use.
func DefaultTextEncoder() (index.TextEncoder, error) {
	return index.NewHugotEncoder(index.DefaultTextModel, DefaultTextDimension)
}

// JointEncoderFromEnv creates a joint encoder from the CLIP_SERVICE_URL
// environment variable. Returns nil when the variable is unset, which leaves
// the engine text-only. CLIP_EMBEDDING_DIM overrides the default dimension.
func JointEncoderFromEnv() index.JointEncoder {
	// Best effort, env vars may be set directly
	_ = godotenv.Load()

	baseURL := os.Getenv("CLIP_SERVICE_URL")
	if baseURL == "" {
		return nil
	}

	dimension := DefaultImageDimension
	if raw := os.Getenv("CLIP_EMBEDDING_DIM"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			dimension = parsed
		}
	}

	return index.NewClipEncoder(baseURL, dimension)
}

// Close closes the database connection
func (q *Quester) Close() error {
	if q.DB != nil && q.DB.Instance != nil {
		return q.DB.Instance.Close()
	}
	return nil
}

// SetChunker replaces the default chunker, for example to change window sizes
func (q *Quester) SetChunker(chunker *pipeline.Chunker) {
	if chunker != nil {
		q.Chunker = chunker
	}
}

// Ingest chunks a document, embeds every chunk and stores it in the index.
// Identical content maps to identical chunk ids, so re-ingestion overwrites
// instead of duplicating. Returns the number of stored chunks.
func (q *Quester) Ingest(ctx context.Context, doc *model.Document) (int, error) {
	if doc == nil {
		return 0, helper.NewError("ingest document", fmt.Errorf("document is nil"))
	}

	chunks, err := q.Chunker.Chunk(doc)
	if err != nil {
		return 0, helper.NewError("chunk document", err)
	}

	q.log.Info("Chunked document", slog.String("source", doc.Source), slog.Int("num_chunks", len(chunks)))

	stored, err := q.Index.EmbedAndStore(ctx, chunks)
	if err != nil {
		return stored, helper.NewError("store chunks", err)
	}

	return stored, nil
}

// IngestBatch ingests documents independently. A failing document is recorded
// in its report and does not stop the rest of the batch.
func (q *Quester) IngestBatch(ctx context.Context, docs []*model.Document) []IngestReport {
	reports := make([]IngestReport, 0, len(docs))
	for _, doc := range docs {
		source := ""
		if doc != nil {
			source = doc.Source
		}

		stored, err := q.Ingest(ctx, doc)
		if err != nil {
			q.log.Warn("Skipping failed document", slog.String("source", source), slog.Any("error", err))
		}

		reports = append(reports, IngestReport{
			Source:          source,
			ChunksProcessed: stored,
			Err:             err,
		})
	}
	return reports
}

// Search performs similarity search over the indexed chunks
func (q *Quester) Search(ctx context.Context, queryText string, config *model.SearchConfig) ([]model.RetrievalResult, error) {
	return q.Index.Search(ctx, queryText, config)
}

// Answer retrieves context for the query and generates a grounded answer.
// With decompose set, complex queries are split into sub-questions first and
// the answer carries the full decomposition trace.
func (q *Quester) Answer(ctx context.Context, queryText string, decompose bool, config *model.SearchConfig) (*model.Answer, error) {
	return engine.ForMode(q.Engine, decompose).Answer(ctx, queryText, config)
}

// ChangeIndexType changes the vector index type of a collection between HNSW
// and IVFFlat. Only available on database backed instances.
func (q *Quester) ChangeIndexType(ctx context.Context, collection string, indexType string, params map[string]interface{}) error {
	if q.Points == nil {
		return helper.NewError("change index type", fmt.Errorf("no database backed index"))
	}
	return q.Points.ChangeIndexType(ctx, collection, indexType, params)
}
