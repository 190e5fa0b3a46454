package processor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"eyeai/internal/models"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// DocumentProcessor loads reference documents and splits them into chunks
type DocumentProcessor struct {
	splitter *Splitter
}

// NewDocumentProcessor creates a new document processor
func NewDocumentProcessor(chunkSize, chunkOverlap int) (*DocumentProcessor, error) {
	splitter, err := NewSplitter(chunkSize, chunkOverlap)
	if err != nil {
		return nil, err
	}
	return &DocumentProcessor{splitter: splitter}, nil
}

// ChunkSize returns the configured window size
func (p *DocumentProcessor) ChunkSize() int {
	return p.splitter.ChunkSize
}

// ChunkOverlap returns the configured window overlap
func (p *DocumentProcessor) ChunkOverlap() int {
	return p.splitter.ChunkOverlap
}

// LoadDocument reads a reference document as text. Plain text and PDF are supported.
func (p *DocumentProcessor) LoadDocument(filePath string) (string, error) {
	var text string
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		t, err := p.ExtractText(filePath)
		if err != nil {
			return "", err
		}
		text = t
	case ".txt", ".md", "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read document: %w", err)
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("document %s is not valid UTF-8", filepath.Base(filePath))
		}
		text = string(data)
	default:
		return "", fmt.Errorf("unsupported document type %q", filepath.Ext(filePath))
	}

	return p.preprocessText(text), nil
}

// ExtractText extracts text from a PDF file
func (p *DocumentProcessor) ExtractText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	b, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract plain text: %w", err)
	}

	_, err = buf.ReadFrom(b)
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}

	return buf.String(), nil
}

// ProcessDocument loads a document and returns its chunks in document order
func (p *DocumentProcessor) ProcessDocument(ctx context.Context, filePath string) ([]models.TextChunk, error) {
	text, err := p.LoadDocument(filePath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Chunk(filepath.Base(filePath), text), nil
}

// Chunk splits already loaded text into chunks tagged with the document name
func (p *DocumentProcessor) Chunk(document, text string) []models.TextChunk {
	pieces := p.splitter.Split(text)
	chunks := make([]models.TextChunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = models.TextChunk{
			ID:      i,
			Content: piece,
			Metadata: models.Metadata{
				Document:   document,
				ChunkIndex: i,
			},
		}
	}
	return chunks
}

// preprocessText normalizes the extracted text
func (p *DocumentProcessor) preprocessText(text string) string {
	text = norm.NFC.String(text)

	// Some documents were exported with escaped paragraph breaks
	text = strings.ReplaceAll(text, `\n\n`, "\n")

	return strings.ReplaceAll(text, "\r\n", "\n")
}
