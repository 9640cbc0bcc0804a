package model

import (
	"os"
	"path/filepath"
	"strings"
)

// FileType is the declared format tag of an ingested document
type FileType string

const (
	FileTypePDF      FileType = ".pdf"
	FileTypeDOCX     FileType = ".docx"
	FileTypeMarkdown FileType = ".md"
	FileTypeCSV      FileType = ".csv"
	FileTypePNG      FileType = ".png"
	FileTypeJPG      FileType = ".jpg"
	FileTypeJPEG     FileType = ".jpeg"
)

// Modality returns the content modality for the file type and whether the
// type is supported at all.
func (ft FileType) Modality() (Modality, bool) {
	switch ft {
	case FileTypePDF, FileTypeDOCX, FileTypeMarkdown, FileTypeCSV:
		return ModalityText, true
	case FileTypePNG, FileTypeJPG, FileTypeJPEG:
		return ModalityImage, true
	default:
		return "", false
	}
}

// Document represents a source document payload handed to ingestion
type Document struct {
	Source   string   `json:"source"`
	FileType FileType `json:"file_type"`
	Data     []byte   `json:"data,omitempty"`
}

// NewDocumentFromFile reads a file and creates a Document.
// The source defaults to the file name and the type to the file extension.
func NewDocumentFromFile(filePath string) (*Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return &Document{
		Source:   filepath.Base(filePath),
		FileType: FileType(strings.ToLower(filepath.Ext(filePath))),
		Data:     data,
	}, nil
}
