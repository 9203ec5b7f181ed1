package domain

import "errors"

// Failure kinds surfaced by the core operations. Callers classify with
// errors.Is and wrap with fmt.Errorf("%w: ...") to attach detail.
var (
	// ErrNoFile means the upload request carried no file field.
	ErrNoFile = errors.New("no file uploaded")

	// ErrExtraction means the uploaded file could not be converted to text.
	ErrExtraction = errors.New("document text extraction failed")

	// ErrEmbedding means the external embedding call failed or timed out.
	ErrEmbedding = errors.New("embedding service failed")

	// ErrChatService means the external chat-completion call failed.
	ErrChatService = errors.New("chat service failed")

	// ErrBadRequest means the request body was malformed or failed validation.
	ErrBadRequest = errors.New("bad request")
)
