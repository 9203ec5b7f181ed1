package chunker

import (
	"strconv"

	"policyqa/internal/domain"
)

// DefaultChunkSize is the maximum chunk width in code points.
const DefaultChunkSize = 500

// FixedChunker splits text into fixed-width chunks measured in code points.
// It is boundary-unaware: chunks never overlap and concatenating them in
// order reproduces the input exactly.
type FixedChunker struct {
	size int
}

// NewFixedChunker creates a chunker producing chunks of at most size code
// points. Non-positive sizes fall back to DefaultChunkSize.
func NewFixedChunker(size int) *FixedChunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &FixedChunker{size: size}
}

func (c *FixedChunker) Chunk(document domain.Document) []domain.Chunk {
	runes := []rune(document.Content)
	if len(runes) == 0 {
		return nil
	}
	var chunks []domain.Chunk
	for start := 0; start < len(runes); start += c.size {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		idx := len(chunks)
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Text:       string(runes[start:end]),
			Index:      idx,
		})
	}
	return chunks
}
