package engine

import (
	"fmt"
	"strings"

	"github.com/siherrmann/quester/model"
)

const answerPrompt = `You are a helpful research assistant. Use the following context to answer the question.
If you cannot answer the question based on the context, say so.

Context:
%s

Question: %s

Answer:`

const decomposePrompt = `Break down the complex query into simpler subqueries that can be answered independently.
Return the subqueries as a JSON array of strings.

Complex Query: %s

Rules:
1. Each subquery should be self-contained
2. Order subqueries logically
3. Include specific details from the original query
4. Maximum 3-4 subqueries

Return ONLY the JSON array of subqueries, no other text.`

const aggregatePrompt = `Based on the answers to the subqueries below, provide a comprehensive answer to the original question.

Original Question: %s

Subquery Results:
%s

Provide a coherent response that synthesizes all the information:`

// buildAnswerPrompt renders the retrieved chunks and the question into the
// grounded answering prompt.
func buildAnswerPrompt(queryText string, results []model.RetrievalResult) string {
	return fmt.Sprintf(answerPrompt, formatContext(results), queryText)
}

// buildDecomposePrompt asks for a JSON array of sub-questions
func buildDecomposePrompt(queryText string) string {
	return fmt.Sprintf(decomposePrompt, queryText)
}

// buildAggregatePrompt renders sub-question answers into the synthesis prompt
func buildAggregatePrompt(queryText string, subAnswers []model.SubAnswer) string {
	parts := make([]string, 0, len(subAnswers))
	for _, subAnswer := range subAnswers {
		parts = append(parts, fmt.Sprintf("Subquery: %s\nAnswer: %s", subAnswer.SubQuery, subAnswer.Answer))
	}
	return fmt.Sprintf(aggregatePrompt, queryText, strings.Join(parts, "\n\n"))
}

// formatContext renders retrieval results as numbered, source-attributed blocks
func formatContext(results []model.RetrievalResult) string {
	parts := make([]string, 0, len(results))
	for i, result := range results {
		parts = append(parts, fmt.Sprintf(
			"[%d] From %s (Page %d):\n%s\n",
			i+1, result.Metadata.Source(), result.Metadata.Page(), result.Content,
		))
	}
	return strings.Join(parts, "\n\n")
}
