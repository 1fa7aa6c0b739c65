package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported document format, use .pdf or .txt")

// DocumentLoader turns a resume file into one text blob.
type DocumentLoader interface {
	Load(filePath string) (string, error)
}

type documentLoader struct {
	splitter TextSplitter
}

func NewDocumentLoader(splitter TextSplitter) DocumentLoader {
	if splitter == nil {
		splitter = NewTextSplitter(DefaultChunkSize, DefaultChunkOverlap)
	}
	return &documentLoader{splitter: splitter}
}

// IsSupported reports whether filename has a .pdf or .txt extension.
func IsSupported(filename string) bool {
	return CheckFormat(filename) == nil
}

// CheckFormat returns ErrUnsupportedFormat unless filename is a .pdf or .txt file.
func CheckFormat(filename string) error {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf", ".txt":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func (l *documentLoader) Load(filePath string) (string, error) {
	if err := CheckFormat(filePath); err != nil {
		return "", err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat document: %w", err)
	}
	if info.Size() == 0 {
		return "", nil
	}

	if strings.ToLower(filepath.Ext(filePath)) == ".pdf" {
		return l.loadPDF(filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read text document: %w", err)
	}

	return strings.ToValidUTF8(string(data), "�"), nil
}

// loadPDF extracts every page, chunks each page and joins all chunks with a blank line.
func (l *documentLoader) loadPDF(filePath string) (text string, err error) {
	// ledongthuc/pdf panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var chunks []string
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable pages are skipped, the rest of the document still counts.
			continue
		}

		chunks = append(chunks, l.splitter.SplitText(pageText)...)
	}

	return strings.Join(chunks, "\n\n"), nil
}
