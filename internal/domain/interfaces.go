package domain

import "context"

// Document represents a single uploaded document after text extraction.
type Document struct {
	ID       string
	Filename string
	Content  string
}

// Chunk is a bounded slice of document text paired with its embedding.
// Chunks are immutable once built; the whole set is replaced on upload.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
	Embedding  []float64
}

// SearchResult is a chunk with its cosine similarity to a query.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Embedder converts free text into a fixed-dimensionality numeric vector.
// The dimension is set by the remote model and is stable for the process.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ChatModel answers a prompt built from retrieved context.
type ChatModel interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// Chunker splits document text into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) []Chunk
}

// Extractor turns an uploaded file body into plain text.
type Extractor interface {
	Extract(filename, contentType string, data []byte) (string, error)
}

// VectorStore holds the active document's chunks and supports ranked search.
type VectorStore interface {
	// Replace discards prior contents and installs the new chunk set.
	Replace(chunks []Chunk)
	// Search returns up to topK chunks ranked by descending similarity.
	// Equal scores keep document order. An empty store yields no results.
	Search(vector []float64, topK int) []SearchResult
	// Len reports the number of stored chunks.
	Len() int
}

// QAService defines the operations exposed by the application core.
type QAService interface {
	Ingest(ctx context.Context, filename, text string) (chunks int, err error)
	Answer(ctx context.Context, question string) (string, error)
}
