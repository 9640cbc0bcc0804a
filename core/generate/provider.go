package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrUnavailable marks a provider that is not configured, usually a missing api key
var ErrUnavailable = errors.New("generation provider unavailable")

// Provider is one language generation backend
type Provider interface {
	Name() string
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

// Generator binds a provider to one model
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type generator struct {
	provider Provider
	model    string
}

// NewGenerator binds a provider to a model
func NewGenerator(provider Provider, model string) Generator {
	return &generator{provider: provider, model: model}
}

func (g *generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.provider.Generate(ctx, g.model, prompt)
}

// Factory creates a provider from its configuration
type Factory func(args interface{}) (Provider, error)

var registry = map[string]Factory{}

// Register adds a provider factory under a name. Called from provider init functions.
func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

// NewProvider creates a registered provider by name
func NewProvider(name string, args interface{}) (Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("provider name is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return factory(args)
}

// NewFromEnv creates a generator from the GENERATION_* environment variables.
// GENERATION_PROVIDER and GENERATION_MODEL are required, GENERATION_API_KEY
// and GENERATION_BASE_URL are passed through to the provider.
func NewFromEnv() (Generator, error) {
	// Best effort, env vars may be set directly
	_ = godotenv.Load()

	name := os.Getenv("GENERATION_PROVIDER")
	modelName := os.Getenv("GENERATION_MODEL")
	if strings.TrimSpace(name) == "" || strings.TrimSpace(modelName) == "" {
		return nil, fmt.Errorf("GENERATION_PROVIDER and GENERATION_MODEL are required")
	}

	provider, err := NewProvider(name, map[string]string{
		"api_key":  os.Getenv("GENERATION_API_KEY"),
		"base_url": os.Getenv("GENERATION_BASE_URL"),
	})
	if err != nil {
		return nil, err
	}

	return NewGenerator(provider, modelName), nil
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode provider config: %w", err)
	}
	return nil
}
