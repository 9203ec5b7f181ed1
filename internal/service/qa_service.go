package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"policyqa/internal/domain"
)

// systemPrompt pins the model to the retrieved context.
const systemPrompt = "You are a helpful assistant answering based only on given policies."

// QAServiceImpl orchestrates ingest and answer over a single active
// document: chunk, embed, store on upload; embed, rank, prompt on question.
type QAServiceImpl struct {
	chunker  domain.Chunker
	embedder domain.Embedder
	chat     domain.ChatModel
	store    domain.VectorStore
	topK     int
}

func NewQAService(chunker domain.Chunker, embedder domain.Embedder, chat domain.ChatModel, store domain.VectorStore, topK int) *QAServiceImpl {
	if topK <= 0 {
		topK = 3
	}
	return &QAServiceImpl{chunker: chunker, embedder: embedder, chat: chat, store: store, topK: topK}
}

// Ingest chunks the document text, embeds every chunk in document order and
// installs the result as the store's new contents. All-or-nothing: if any
// embedding call fails, the store keeps its prior contents.
func (s *QAServiceImpl) Ingest(ctx context.Context, filename, text string) (int, error) {
	doc := domain.Document{ID: uuid.New().String(), Filename: filename, Content: text}
	chunks := s.chunker.Chunk(doc)
	for i := range chunks {
		vec, err := s.embedder.Embed(ctx, chunks[i].Text)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d/%d: %w", i+1, len(chunks), err)
		}
		chunks[i].Embedding = vec
	}
	s.store.Replace(chunks)
	return len(chunks), nil
}

// Answer embeds the question, retrieves the top-K most similar chunks and
// forwards them as context to the chat model. An empty store yields an
// empty context block; the chat model is still consulted.
func (s *QAServiceImpl) Answer(ctx context.Context, question string) (string, error) {
	qvec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}
	results := s.store.Search(qvec, s.topK)
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Chunk.Text)
	}
	contextBlock := strings.Join(texts, "\n\n")
	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, question)
	answer, err := s.chat.Complete(ctx, systemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}
