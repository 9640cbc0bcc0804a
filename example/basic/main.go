package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/quester"
	"github.com/siherrmann/quester/core/generate"
	"github.com/siherrmann/quester/helper"
	"github.com/siherrmann/quester/model"
)

const sampleContent = `# Vector search engines

Vector search engines store embeddings instead of raw keywords.
They map documents and queries into the same vector space and rank results by similarity.

PostgreSQL with the pgvector extension can serve as a production vector index.
It supports HNSW and IVFFlat indexes with cosine distance.

Combining retrieval with a language model produces grounded answers
that cite the documents the answer was built from.`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	// Local text encoder (downloads the model on first run)
	textEncoder, err := quester.DefaultTextEncoder()
	if err != nil {
		log.Fatalf("Failed to create text encoder: %v", err)
	}

	// Generator from GENERATION_* environment variables
	gen, err := generate.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}

	// Joint encoder is optional, nil keeps the engine text-only
	q, err := quester.NewQuester(dbConfig, textEncoder, quester.JointEncoderFromEnv(), gen)
	if err != nil {
		log.Fatalf("Failed to create quester: %v", err)
	}
	defer q.Close()

	// Ingest a markdown document
	doc := &model.Document{
		Source:   "vector_search.md",
		FileType: model.FileTypeMarkdown,
		Data:     []byte(sampleContent),
	}

	fmt.Println("Ingesting document...")
	numChunks, err := q.Ingest(context.Background(), doc)
	if err != nil {
		log.Fatalf("Failed to ingest document: %v", err)
	}
	fmt.Printf("Stored %d chunks\n", numChunks)

	// Perform a similarity search
	queryText := "How does vector search rank results?"

	fmt.Printf("\nQuerying: %s\n", queryText)

	results, err := q.Search(context.Background(), queryText, &model.SearchConfig{Limit: 3})
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}

	fmt.Printf("\nFound %d results:\n", len(results))
	for i, result := range results {
		fmt.Printf("\n--- Result %d ---\n", i+1)
		fmt.Printf("Score: %.4f\n", result.Score)
		fmt.Printf("Content: %s\n", result.Content)
		fmt.Printf("Source: %s (Page %d)\n", result.Metadata.Source(), result.Metadata.Page())
	}

	// Generate a grounded answer
	answer, err := q.Answer(context.Background(), queryText, false, nil)
	if err != nil {
		log.Fatalf("Failed to answer: %v", err)
	}

	fmt.Printf("\nAnswer: %s\n", answer.Text)
	for _, source := range answer.Sources {
		fmt.Printf("Source: %s (Page %d, Score %.4f)\n", source.Source, source.Page, source.Score)
	}

	fmt.Println("\nBasic example completed successfully!")
}
