package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTypeModality(t *testing.T) {
	t.Run("Text file types", func(t *testing.T) {
		for _, fileType := range []FileType{FileTypePDF, FileTypeDOCX, FileTypeMarkdown, FileTypeCSV} {
			modality, ok := fileType.Modality()
			assert.True(t, ok, "Expected %s to be supported", fileType)
			assert.Equal(t, ModalityText, modality, "Expected text modality for %s", fileType)
		}
	})

	t.Run("Image file types", func(t *testing.T) {
		for _, fileType := range []FileType{FileTypePNG, FileTypeJPG, FileTypeJPEG} {
			modality, ok := fileType.Modality()
			assert.True(t, ok, "Expected %s to be supported", fileType)
			assert.Equal(t, ModalityImage, modality, "Expected image modality for %s", fileType)
		}
	})

	t.Run("Unknown file types", func(t *testing.T) {
		_, ok := FileType(".xlsx").Modality()
		assert.False(t, ok, "Expected unknown type to be unsupported")
	})
}

func TestNewDocumentFromFile(t *testing.T) {
	t.Run("Read existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Notes.MD")
		err := os.WriteFile(path, []byte("# Notes"), 0o600)
		require.NoError(t, err, "Expected test file write to not return an error")

		doc, err := NewDocumentFromFile(path)
		require.NoError(t, err, "Expected NewDocumentFromFile to not return an error")

		assert.Equal(t, "Notes.MD", doc.Source, "Expected file name as source")
		assert.Equal(t, FileTypeMarkdown, doc.FileType, "Expected lowercased extension as file type")
		assert.Equal(t, []byte("# Notes"), doc.Data, "Expected file content")
	})

	t.Run("Read missing file", func(t *testing.T) {
		doc, err := NewDocumentFromFile(filepath.Join(t.TempDir(), "missing.md"))
		assert.Error(t, err, "Expected error for missing file")
		assert.Nil(t, doc, "Expected no document")
	})
}
