package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyqa/internal/domain"
)

func TestFileExtractor_PlainTextPassesThrough(t *testing.T) {
	e := NewFileExtractor()
	text, err := e.Extract("policy.txt", "text/plain", []byte("all refunds within 30 days"))
	require.NoError(t, err)
	assert.Equal(t, "all refunds within 30 days", text)
}

func TestFileExtractor_UnknownContentTypeTreatedAsText(t *testing.T) {
	e := NewFileExtractor()
	text, err := e.Extract("notes.md", "application/octet-stream", []byte("# heading"))
	require.NoError(t, err)
	assert.Equal(t, "# heading", text)
}

func TestFileExtractor_MalformedPDF(t *testing.T) {
	e := NewFileExtractor()
	_, err := e.Extract("broken.pdf", "application/pdf", []byte("not a pdf at all"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtraction))
}

func TestFileExtractor_PDFByExtension(t *testing.T) {
	e := NewFileExtractor()
	// extension alone routes to the PDF parser even without a content type
	_, err := e.Extract("broken.PDF", "", []byte("junk"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtraction))
}
