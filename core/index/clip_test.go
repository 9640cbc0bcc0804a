package index

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipEncoder(t *testing.T) {
	var lastPath string
	var lastBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath = r.URL.Path
		lastBody = map[string]string{}
		err := json.NewDecoder(r.Body).Decode(&lastBody)
		require.NoError(t, err, "Expected request body to decode")

		err = json.NewEncoder(w).Encode(map[string][]float32{"embedding": {0.1, 0.2, 0.3}})
		require.NoError(t, err, "Expected response body to encode")
	}))
	defer server.Close()

	encoder := NewClipEncoder(server.URL+"/", 3)
	ctx := context.Background()

	t.Run("Encode text", func(t *testing.T) {
		embedding, err := encoder.EncodeText(ctx, "a red bicycle")
		require.NoError(t, err, "Expected EncodeText to not return an error")
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding, "Expected embedding from service response")
		assert.Equal(t, "/embed/text", lastPath, "Expected text endpoint")
		assert.Equal(t, "a red bicycle", lastBody["text"], "Expected query text in request body")
	})

	t.Run("Encode image", func(t *testing.T) {
		data := []byte{0x89, 0x50, 0x4e, 0x47}
		embedding, err := encoder.EncodeImage(ctx, data)
		require.NoError(t, err, "Expected EncodeImage to not return an error")
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding, "Expected embedding from service response")
		assert.Equal(t, "/embed/image", lastPath, "Expected image endpoint")
		assert.Equal(t, base64.StdEncoding.EncodeToString(data), lastBody["image"], "Expected base64 image in request body")
	})

	t.Run("Dimension", func(t *testing.T) {
		assert.Equal(t, 3, encoder.Dimension(), "Expected configured dimension")
	})
}

func TestClipEncoderErrors(t *testing.T) {
	t.Run("Service returns error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		encoder := NewClipEncoder(server.URL, 3)
		embedding, err := encoder.EncodeText(context.Background(), "anything")
		assert.Error(t, err, "Expected error for non-200 response")
		assert.Contains(t, err.Error(), "503", "Expected status code in error")
		assert.Nil(t, embedding, "Expected no embedding")
	})

	t.Run("Service returns empty embedding", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := w.Write([]byte(`{"embedding": []}`))
			require.NoError(t, err, "Expected response write to not return an error")
		}))
		defer server.Close()

		encoder := NewClipEncoder(server.URL, 3)
		embedding, err := encoder.EncodeText(context.Background(), "anything")
		assert.Error(t, err, "Expected error for empty embedding")
		assert.Nil(t, embedding, "Expected no embedding")
	})

	t.Run("Service unreachable", func(t *testing.T) {
		encoder := NewClipEncoder("http://127.0.0.1:1", 3)
		embedding, err := encoder.EncodeText(context.Background(), "anything")
		assert.Error(t, err, "Expected error for unreachable service")
		assert.Nil(t, embedding, "Expected no embedding")
	})
}
