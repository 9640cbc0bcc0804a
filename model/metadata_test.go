package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataMarshalUnmarshal(t *testing.T) {
	t.Run("Round trip through JSON bytes", func(t *testing.T) {
		metadata := Metadata{"source": "a.md", "page": 3}

		b, err := metadata.Marshal()
		require.NoError(t, err, "Expected Marshal to not return an error")

		var decoded Metadata
		err = decoded.Unmarshal(b)
		require.NoError(t, err, "Expected Unmarshal to not return an error")

		assert.Equal(t, "a.md", decoded["source"], "Expected source to survive the round trip")
		assert.EqualValues(t, 3, decoded.Page(), "Expected page to survive the round trip")
	})

	t.Run("Unmarshal nil value", func(t *testing.T) {
		var decoded Metadata
		err := decoded.Unmarshal(nil)
		require.NoError(t, err, "Expected Unmarshal to not return an error")
		assert.Empty(t, decoded, "Expected empty metadata for nil value")
	})

	t.Run("Scan database value", func(t *testing.T) {
		var decoded Metadata
		err := decoded.Scan([]byte(`{"source": "a.md"}`))
		require.NoError(t, err, "Expected Scan to not return an error")
		assert.Equal(t, "a.md", decoded.Source(), "Expected scanned source")
	})

	t.Run("Scan unsupported value", func(t *testing.T) {
		var decoded Metadata
		err := decoded.Scan(42)
		assert.Error(t, err, "Expected error for unsupported value type")
	})
}

func TestMetadataClone(t *testing.T) {
	t.Run("Clone is independent of the original", func(t *testing.T) {
		original := Metadata{"source": "a.md"}
		clone := original.Clone()

		clone["source"] = "b.md"

		assert.Equal(t, "a.md", original["source"], "Expected original to be unaffected")
		assert.Equal(t, "b.md", clone["source"], "Expected clone to carry the change")
	})
}

func TestMetadataAccessors(t *testing.T) {
	t.Run("Source falls back to empty string", func(t *testing.T) {
		assert.Equal(t, "a.md", Metadata{"source": "a.md"}.Source(), "Expected source value")
		assert.Equal(t, "", Metadata{}.Source(), "Expected empty string without source")
		assert.Equal(t, "", Metadata{"source": 7}.Source(), "Expected empty string for non-string source")
	})

	t.Run("Page handles numeric representations", func(t *testing.T) {
		assert.Equal(t, 3, Metadata{"page": 3}.Page(), "Expected int page")
		assert.Equal(t, 3, Metadata{"page": int64(3)}.Page(), "Expected int64 page")
		assert.Equal(t, 3, Metadata{"page": float64(3)}.Page(), "Expected float64 page")
		assert.Equal(t, 1, Metadata{}.Page(), "Expected default page without value")
		assert.Equal(t, 1, Metadata{"page": "three"}.Page(), "Expected default page for non-numeric value")
	})
}

func TestMetadataMatches(t *testing.T) {
	metadata := Metadata{"source": "a.md", "page": 3, "section": "chunk_1"}

	t.Run("Empty filter matches everything", func(t *testing.T) {
		assert.True(t, metadata.Matches(nil), "Expected nil filter to match")
		assert.True(t, metadata.Matches(Metadata{}), "Expected empty filter to match")
	})

	t.Run("All conditions must hold", func(t *testing.T) {
		assert.True(t, metadata.Matches(Metadata{"source": "a.md", "page": 3}), "Expected matching filter to match")
		assert.False(t, metadata.Matches(Metadata{"source": "a.md", "page": 4}), "Expected one failing condition to fail the filter")
		assert.False(t, metadata.Matches(Metadata{"missing": "x"}), "Expected missing key to fail the filter")
	})

	t.Run("Numeric values match across representations", func(t *testing.T) {
		stored := Metadata{"page": float64(3)}
		assert.True(t, stored.Matches(Metadata{"page": 3}), "Expected int filter to match float64 value")
	})
}
