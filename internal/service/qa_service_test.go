package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyqa/internal/chunker"
	"policyqa/internal/domain"
	"policyqa/internal/vectorstore/memory"
)

// stubEmbedder assigns each distinct input its own orthogonal unit vector.
// failAt > 0 makes the Nth call fail.
type stubEmbedder struct {
	dims   map[string]int
	calls  int
	failAt int
}

func newStubEmbedder() *stubEmbedder { return &stubEmbedder{dims: map[string]int{}} }

const stubDimension = 16

func (e *stubEmbedder) Name() string   { return "stub" }
func (e *stubEmbedder) Dimension() int { return stubDimension }

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.calls++
	if e.failAt > 0 && e.calls == e.failAt {
		return nil, fmt.Errorf("%w: simulated outage", domain.ErrEmbedding)
	}
	dim, ok := e.dims[text]
	if !ok {
		dim = len(e.dims)
		e.dims[text] = dim
	}
	vec := make([]float64, stubDimension)
	vec[dim] = 1
	return vec, nil
}

// stubChat records the prompt it received and returns a canned answer.
type stubChat struct {
	system string
	user   string
	reply  string
	err    error
}

func (c *stubChat) Name() string { return "stub" }

func (c *stubChat) Complete(_ context.Context, system, user string) (string, error) {
	c.system = system
	c.user = user
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func newService(emb domain.Embedder, chat domain.ChatModel, store domain.VectorStore, chunkSize int) *QAServiceImpl {
	return NewQAService(chunker.NewFixedChunker(chunkSize), emb, chat, store, 3)
}

func TestIngest_SingleChunkDocument(t *testing.T) {
	emb := newStubEmbedder()
	store := memory.NewStore()
	svc := newService(emb, &stubChat{}, store, 500)

	n, err := svc.Ingest(context.Background(), "policy.txt", "Clause A text. Clause B text.")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, store.Len())
}

func TestIngest_AtomicOnEmbeddingFailure(t *testing.T) {
	emb := newStubEmbedder()
	store := memory.NewStore()
	// chunk size 2 over 10 runes gives 5 chunks
	svc := newService(emb, &stubChat{}, store, 2)

	_, err := svc.Ingest(context.Background(), "v1.txt", "aabbccddee")
	require.NoError(t, err)
	require.Equal(t, 5, store.Len())
	before := store.Search(unitVec(0), 10)

	// second upload fails embedding its 3rd chunk
	emb.failAt = emb.calls + 3
	_, err = svc.Ingest(context.Background(), "v2.txt", "ffgghhiijj")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmbedding))

	// prior contents must be untouched
	assert.Equal(t, 5, store.Len())
	after := store.Search(unitVec(0), 10)
	assert.Equal(t, before, after)
}

func TestIngest_EmptyDocument(t *testing.T) {
	emb := newStubEmbedder()
	store := memory.NewStore()
	svc := newService(emb, &stubChat{}, store, 500)

	n, err := svc.Ingest(context.Background(), "empty.txt", "")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, store.Len())
}

func TestAnswer_ForwardsRetrievedContextVerbatim(t *testing.T) {
	emb := newStubEmbedder()
	chat := &stubChat{reply: "Clause A defines refunds."}
	store := memory.NewStore()
	svc := newService(emb, chat, store, 500)

	docText := "Clause A text. Clause B text."
	_, err := svc.Ingest(context.Background(), "policy.txt", docText)
	require.NoError(t, err)

	answer, err := svc.Answer(context.Background(), "What is Clause A?")
	require.NoError(t, err)
	assert.Equal(t, "Clause A defines refunds.", answer)

	assert.Equal(t, "You are a helpful assistant answering based only on given policies.", chat.system)
	assert.Equal(t, "Context:\n"+docText+"\n\nQuestion: What is Clause A?", chat.user)
}

func TestAnswer_RankedContextJoinedByBlankLine(t *testing.T) {
	emb := newStubEmbedder()
	chat := &stubChat{reply: "ok"}
	store := memory.NewStore()
	// 10 runes per chunk, 4 chunks
	svc := newService(emb, chat, store, 10)

	_, err := svc.Ingest(context.Background(), "p.txt", strings.Repeat("ab cd ef. ", 4))
	require.NoError(t, err)
	require.Equal(t, 4, store.Len())

	_, err = svc.Answer(context.Background(), "anything")
	require.NoError(t, err)

	// topK=3 of 4 chunks, separated by one blank line
	body := strings.TrimPrefix(chat.user, "Context:\n")
	body = strings.Split(body, "\n\nQuestion:")[0]
	assert.Len(t, strings.Split(body, "\n\n"), 3)
}

func TestAnswer_EmptyStorePassesEmptyContext(t *testing.T) {
	emb := newStubEmbedder()
	chat := &stubChat{reply: "I have no document to answer from."}
	store := memory.NewStore()
	svc := newService(emb, chat, store, 500)

	answer, err := svc.Answer(context.Background(), "What is Clause A?")
	require.NoError(t, err)
	assert.Equal(t, "I have no document to answer from.", answer)
	assert.Equal(t, "Context:\n\n\nQuestion: What is Clause A?", chat.user)
}

func TestAnswer_QuestionEmbeddingFailure(t *testing.T) {
	emb := newStubEmbedder()
	emb.failAt = 1
	svc := newService(emb, &stubChat{}, memory.NewStore(), 500)

	_, err := svc.Answer(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmbedding))
}

func TestAnswer_ChatFailure(t *testing.T) {
	emb := newStubEmbedder()
	chat := &stubChat{err: fmt.Errorf("%w: upstream 503", domain.ErrChatService)}
	svc := newService(emb, chat, memory.NewStore(), 500)

	_, err := svc.Answer(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChatService))
}

func unitVec(dim int) []float64 {
	v := make([]float64, stubDimension)
	v[dim] = 1
	return v
}
