package generate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider struct {
	lastModel  string
	lastPrompt string
}

func (p *staticProvider) Name() string {
	return "static"
}

func (p *staticProvider) Generate(_ context.Context, model string, prompt string) (string, error) {
	p.lastModel = model
	p.lastPrompt = prompt
	return "static answer", nil
}

func TestRegistry(t *testing.T) {
	t.Run("Builtin providers are registered", func(t *testing.T) {
		provider, err := NewProvider("gemini", map[string]string{"api_key": "key"})
		require.NoError(t, err, "Expected gemini factory to not return an error")
		assert.Equal(t, "gemini", provider.Name(), "Expected gemini provider")

		provider, err = NewProvider("openai", map[string]string{"api_key": "key"})
		require.NoError(t, err, "Expected openai factory to not return an error")
		assert.Equal(t, "openai", provider.Name(), "Expected openai provider")
	})

	t.Run("Provider names are case insensitive", func(t *testing.T) {
		provider, err := NewProvider("  GeMiNi ", map[string]string{"api_key": "key"})
		require.NoError(t, err, "Expected factory lookup to not return an error")
		assert.Equal(t, "gemini", provider.Name(), "Expected gemini provider")
	})

	t.Run("Unknown provider", func(t *testing.T) {
		provider, err := NewProvider("smoke-signals", nil)
		assert.Error(t, err, "Expected error for unknown provider")
		assert.Nil(t, provider, "Expected no provider")
	})

	t.Run("Empty provider name", func(t *testing.T) {
		provider, err := NewProvider("  ", nil)
		assert.Error(t, err, "Expected error for empty provider name")
		assert.Nil(t, provider, "Expected no provider")
	})

	t.Run("Registered custom provider is reachable", func(t *testing.T) {
		Register("static", func(args interface{}) (Provider, error) {
			return &staticProvider{}, nil
		})

		provider, err := NewProvider("static", map[string]string{})
		require.NoError(t, err, "Expected custom factory to not return an error")
		assert.Equal(t, "static", provider.Name(), "Expected custom provider")
	})
}

func TestGenerator(t *testing.T) {
	t.Run("Generator binds the model", func(t *testing.T) {
		provider := &staticProvider{}
		gen := NewGenerator(provider, "model-x")

		answer, err := gen.Generate(context.Background(), "hello")
		require.NoError(t, err, "Expected Generate to not return an error")
		assert.Equal(t, "static answer", answer, "Expected provider answer")
		assert.Equal(t, "model-x", provider.lastModel, "Expected bound model to be passed through")
		assert.Equal(t, "hello", provider.lastPrompt, "Expected prompt to be passed through")
	})
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Create generator from environment", func(t *testing.T) {
		t.Setenv("GENERATION_PROVIDER", "openai")
		t.Setenv("GENERATION_MODEL", "gpt-4o-mini")
		t.Setenv("GENERATION_API_KEY", "key")
		t.Setenv("GENERATION_BASE_URL", "")

		gen, err := NewFromEnv()
		require.NoError(t, err, "Expected NewFromEnv to not return an error")
		assert.NotNil(t, gen, "Expected generator")
	})

	t.Run("Missing provider or model", func(t *testing.T) {
		t.Setenv("GENERATION_PROVIDER", "")
		t.Setenv("GENERATION_MODEL", "")

		gen, err := NewFromEnv()
		assert.Error(t, err, "Expected error without provider and model")
		assert.Nil(t, gen, "Expected no generator")
	})
}

func TestDecodeConfig(t *testing.T) {
	t.Run("Decode map into struct", func(t *testing.T) {
		cfg := &openAIConfig{}
		err := decodeConfig(map[string]string{"api_key": "key", "base_url": "http://localhost"}, cfg)
		require.NoError(t, err, "Expected decodeConfig to not return an error")
		assert.Equal(t, "key", cfg.APIKey, "Expected api key to decode")
		assert.Equal(t, "http://localhost", cfg.BaseURL, "Expected base url to decode")
	})

	t.Run("Decode nil config", func(t *testing.T) {
		err := decodeConfig(nil, &openAIConfig{})
		assert.Error(t, err, "Expected error for nil config")
	})
}

func TestProvidersWithoutAPIKey(t *testing.T) {
	t.Run("Gemini without api key is unavailable", func(t *testing.T) {
		provider, err := NewProvider("gemini", map[string]string{})
		require.NoError(t, err, "Expected factory to not return an error")

		answer, err := provider.Generate(context.Background(), "model", "prompt")
		assert.ErrorIs(t, err, ErrUnavailable, "Expected unavailable error")
		assert.Empty(t, answer, "Expected no answer")
	})

	t.Run("OpenAI without api key is unavailable", func(t *testing.T) {
		provider, err := NewProvider("openai", map[string]string{})
		require.NoError(t, err, "Expected factory to not return an error")

		answer, err := provider.Generate(context.Background(), "model", "prompt")
		assert.ErrorIs(t, err, ErrUnavailable, "Expected unavailable error")
		assert.Empty(t, answer, "Expected no answer")
	})
}
