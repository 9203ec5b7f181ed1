package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"policyqa/internal/domain"
)

// FileExtractor converts uploaded file bytes into plain text. PDFs are
// parsed with the pdf library; every other upload is treated as UTF-8 text.
type FileExtractor struct{}

func NewFileExtractor() *FileExtractor { return &FileExtractor{} }

func (e *FileExtractor) Extract(filename, contentType string, data []byte) (string, error) {
	if isPDF(filename, contentType) {
		text, err := pdfText(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrExtraction, err)
		}
		return text, nil
	}
	return string(data), nil
}

func isPDF(filename, contentType string) bool {
	if strings.HasPrefix(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// pdfText writes the upload to a temp file first; the pdf library reads
// from an io.ReaderAt over an open file.
func pdfText(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(data); err != nil {
		return "", err
	}

	f, rdr, err := pdf.Open(tmp.Name())
	if err != nil {
		return "", err
	}
	defer f.Close()

	r, err := rdr.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}
