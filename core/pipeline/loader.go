package pipeline

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/siherrmann/quester/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// extractorFor returns the extraction function for a text file type
func extractorFor(fileType model.FileType) (ExtractFunc, bool) {
	switch fileType {
	case model.FileTypePDF:
		return extractPDF, true
	case model.FileTypeDOCX:
		return extractDOCX, true
	case model.FileTypeMarkdown:
		return extractMarkdown, true
	case model.FileTypeCSV:
		return extractCSV, true
	default:
		return nil, false
	}
}

// extractPDF extracts plain text per page. Pages without extractable text are skipped.
func extractPDF(data []byte) ([]Unit, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var units []Unit
	for pageNumber := 1; pageNumber <= reader.NumPage(); pageNumber++ {
		page := reader.Page(pageNumber)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", pageNumber, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		units = append(units, Unit{Text: text, Page: pageNumber})
	}

	if len(units) == 0 {
		return nil, fmt.Errorf("no extractable text found")
	}

	return units, nil
}

// extractDOCX reads the main document part of the zip archive and collects all
// run text, with paragraph ends mapped to blank lines.
func extractDOCX(data []byte) ([]Unit, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}

	var documentFile *zip.File
	for _, file := range zipReader.File {
		if file.Name == "word/document.xml" {
			documentFile = file
			break
		}
	}
	if documentFile == nil {
		return nil, fmt.Errorf("missing word/document.xml")
	}

	rc, err := documentFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open word/document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var builder strings.Builder
	inRunText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse word/document.xml: %w", err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			if element.Name.Local == "t" {
				inRunText = true
			}
		case xml.EndElement:
			if element.Name.Local == "t" {
				inRunText = false
			}
			if element.Name.Local == "p" {
				builder.WriteString("\n\n")
			}
		case xml.CharData:
			if inRunText {
				builder.Write(element)
			}
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return nil, fmt.Errorf("no extractable text found")
	}

	return []Unit{{Text: text, Page: 1}}, nil
}

// extractMarkdown walks the parsed AST and collects the visible text,
// with block boundaries mapped to blank lines.
func extractMarkdown(data []byte) ([]Unit, error) {
	document := goldmark.New().Parser().Parse(gmtext.NewReader(data))

	var builder strings.Builder
	err := ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch typed := node.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if builder.Len() > 0 {
				builder.WriteString("\n\n")
			}
		case *ast.Text:
			builder.Write(typed.Segment.Value(data))
			if typed.SoftLineBreak() || typed.HardLineBreak() {
				builder.WriteString("\n")
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk markdown: %w", err)
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return nil, fmt.Errorf("no extractable text found")
	}

	return []Unit{{Text: text, Page: 1}}, nil
}

// extractCSV renders every record as "header: value" pairs, one unit per
// record so rows stay addressable through the page metadata.
func extractCSV(data []byte) ([]Unit, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no extractable rows found")
	}

	header := records[0]
	var units []Unit
	for rowNumber, record := range records[1:] {
		var fields []string
		for i, value := range record {
			if i < len(header) && strings.TrimSpace(header[i]) != "" {
				fields = append(fields, fmt.Sprintf("%s: %s", header[i], value))
			} else {
				fields = append(fields, value)
			}
		}
		text := strings.TrimSpace(strings.Join(fields, ", "))
		if text == "" {
			continue
		}
		units = append(units, Unit{Text: text, Page: rowNumber + 1})
	}

	if len(units) == 0 {
		return nil, fmt.Errorf("no extractable rows found")
	}

	return units, nil
}
