package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/quester/core/generate"
	"github.com/siherrmann/quester/core/index"
	"github.com/siherrmann/quester/model"
)

// NoResultsAnswer is returned verbatim when retrieval finds nothing
const NoResultsAnswer = "I couldn't find any relevant information to answer your question."

// maxSubQueries caps how many sub-questions one decomposition may produce
const maxSubQueries = 4

// Engine answers questions over the indexed chunks, either directly or by
// decomposing a complex query into sub-questions first.
type Engine struct {
	index *index.Service
	gen   generate.Generator
	log   *slog.Logger
}

// NewEngine creates a query engine on top of an index service and a generator
func NewEngine(indexService *index.Service, gen generate.Generator, logger *slog.Logger) (*Engine, error) {
	if indexService == nil {
		return nil, fmt.Errorf("index service is nil")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		index: indexService,
		gen:   gen,
		log:   logger,
	}, nil
}

// SimpleQuery retrieves context for the query and generates a grounded answer.
// Zero retrieved chunks short-circuit to a fixed answer without generation.
func (e *Engine) SimpleQuery(ctx context.Context, queryText string, config *model.SearchConfig) (*model.Answer, error) {
	results, err := e.index.Search(ctx, queryText, config)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return &model.Answer{
			Text:    NoResultsAnswer,
			Sources: []model.Source{},
		}, nil
	}

	text, err := e.gen.Generate(ctx, buildAnswerPrompt(queryText, results))
	if err != nil {
		return nil, model.GenerationFailure(err)
	}

	return &model.Answer{
		Text:    text,
		Sources: sourcesFrom(results),
	}, nil
}

// DecomposedQuery breaks the query into sub-questions, answers them in order
// and synthesizes one final answer. When the decomposition response is not a
// usable JSON array it falls back to SimpleQuery with the original query.
func (e *Engine) DecomposedQuery(ctx context.Context, queryText string, config *model.SearchConfig) (*model.Answer, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, model.ErrEmptyQuery
	}

	traceID := uuid.New().String()

	raw, err := e.gen.Generate(ctx, buildDecomposePrompt(queryText))
	if err != nil {
		return nil, model.GenerationFailure(err)
	}

	subQueries, ok := parseSubQueries(raw)
	if !ok {
		e.log.Warn("Decomposition not parseable, falling back to direct answering", slog.String("trace", traceID))
		return e.SimpleQuery(ctx, queryText, config)
	}
	if len(subQueries) > maxSubQueries {
		e.log.Warn("Truncating decomposition", slog.String("trace", traceID), slog.Int("subqueries", len(subQueries)))
		subQueries = subQueries[:maxSubQueries]
	}

	e.log.Debug("Answering decomposed query", slog.String("trace", traceID), slog.Int("subqueries", len(subQueries)))

	var subAnswers []model.SubAnswer
	var sources []model.Source
	for _, subQuery := range subQueries {
		subResult, err := e.SimpleQuery(ctx, subQuery, config)
		if err != nil {
			return nil, err
		}

		subAnswers = append(subAnswers, model.SubAnswer{
			SubQuery: subQuery,
			Answer:   subResult.Text,
		})
		sources = append(sources, subResult.Sources...)
	}

	text, err := e.gen.Generate(ctx, buildAggregatePrompt(queryText, subAnswers))
	if err != nil {
		return nil, model.GenerationFailure(err)
	}

	return &model.Answer{
		Text:       text,
		Sources:    sources,
		SubQueries: subAnswers,
	}, nil
}

// parseSubQueries reads the decomposition response as a JSON array of strings.
// Code fences around the array are tolerated. An empty or blank-only array
// counts as not parseable.
func parseSubQueries(raw string) ([]string, bool) {
	raw = stripCodeFence(raw)

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, false
	}

	var subQueries []string
	for _, subQuery := range parsed {
		subQuery = strings.TrimSpace(subQuery)
		if subQuery != "" {
			subQueries = append(subQueries, subQuery)
		}
	}
	if len(subQueries) == 0 {
		return nil, false
	}

	return subQueries, true
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop a language tag like "json" on the fence line
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}

func sourcesFrom(results []model.RetrievalResult) []model.Source {
	sources := make([]model.Source, 0, len(results))
	for _, result := range results {
		sources = append(sources, model.Source{
			Source: result.Metadata.Source(),
			Page:   result.Metadata.Page(),
			Score:  result.Score,
		})
	}
	return sources
}
