package memory

import (
	"sort"
	"sync"

	"policyqa/internal/domain"
	"policyqa/internal/vectorstore"
)

// Store is an in-memory vector store over the active document's chunks.
// Search is a brute-force cosine scan; at single-document scale (hundreds
// of chunks) no index structure is warranted.
type Store struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

func NewStore() *Store { return &Store{} }

// Replace atomically swaps the stored chunk set. The caller embeds the full
// set before calling, so a failed ingest never reaches the store.
func (s *Store) Replace(chunks []domain.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = chunks
}

// Search scores every stored chunk against the query vector and returns up
// to topK results by descending score. Ties keep document order.
func (s *Store) Search(vector []float64, topK int) []domain.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 || len(s.chunks) == 0 {
		return nil
	}
	results := make([]domain.SearchResult, 0, len(s.chunks))
	for _, ch := range s.chunks {
		results = append(results, domain.SearchResult{
			Chunk: ch,
			Score: vectorstore.Cosine(vector, ch.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}
