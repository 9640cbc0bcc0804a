package engine

import (
	"context"

	"github.com/siherrmann/quester/model"
)

// Strategy defines an answering strategy
type Strategy interface {
	Answer(ctx context.Context, queryText string, config *model.SearchConfig) (*model.Answer, error)
}

// DirectStrategy answers the query in one retrieval and generation pass
type DirectStrategy struct {
	engine *Engine
}

// NewDirectStrategy creates a new direct strategy
func NewDirectStrategy(engine *Engine) *DirectStrategy {
	return &DirectStrategy{engine: engine}
}

// Answer performs direct answering
func (s *DirectStrategy) Answer(ctx context.Context, queryText string, config *model.SearchConfig) (*model.Answer, error) {
	return s.engine.SimpleQuery(ctx, queryText, config)
}

// DecomposedStrategy breaks the query into sub-questions before answering
type DecomposedStrategy struct {
	engine *Engine
}

// NewDecomposedStrategy creates a new decomposed strategy
func NewDecomposedStrategy(engine *Engine) *DecomposedStrategy {
	return &DecomposedStrategy{engine: engine}
}

// Answer performs decomposed answering
func (s *DecomposedStrategy) Answer(ctx context.Context, queryText string, config *model.SearchConfig) (*model.Answer, error) {
	return s.engine.DecomposedQuery(ctx, queryText, config)
}

// ForMode returns the strategy for the requested answering mode
func ForMode(engine *Engine, decompose bool) Strategy {
	if decompose {
		return NewDecomposedStrategy(engine)
	}
	return NewDirectStrategy(engine)
}
