package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"policyqa/internal/domain"
)

// Server exposes the QA service over HTTP: upload a document, ask questions.
type Server struct {
	svc            domain.QAService
	extractor      domain.Extractor
	maxUploadBytes int64
	validate       *validator.Validate
}

func New(svc domain.QAService, extractor domain.Extractor, maxUploadMB int) *Server {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &Server{
		svc:            svc,
		extractor:      extractor,
		maxUploadBytes: int64(maxUploadMB) << 20,
		validate:       validator.New(),
	}
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/ask", s.handleAsk)
	return logRequests(allowCORS(mux))
}

type uploadResponse struct {
	Message string `json:"message"`
	Chunks  int    `json:"chunks"`
}

type askRequest struct {
	Question string `json:"question" validate:"required"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "ok")
}

// handleUpload accepts a multipart upload (field "file"), extracts its text
// and re-indexes the store with the new document.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, fmt.Errorf("%w: parse multipart form: %v", domain.ErrBadRequest, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("%w: missing field %q", domain.ErrNoFile, "file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("%w: read upload: %v", domain.ErrBadRequest, err))
		return
	}

	text, err := s.extractor.Extract(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		writeError(w, err)
		return
	}

	chunks, err := s.svc.Ingest(r.Context(), header.Filename, text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{Message: "File processed successfully", Chunks: chunks})
}

// handleAsk answers a question against the currently indexed document.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json: %v", domain.ErrBadRequest, err))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, fmt.Errorf("%w: question is required", domain.ErrBadRequest))
		return
	}

	answer, err := s.svc.Answer(r.Context(), req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the failure kind to a status code. Upstream collaborator
// failures become 502; internal detail stays out of the response body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNoFile), errors.Is(err, domain.ErrBadRequest), errors.Is(err, domain.ErrExtraction):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbedding), errors.Is(err, domain.ErrChatService):
		status = http.StatusBadGateway
	}
	if status >= 500 {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: publicMessage(err)})
}

// publicMessage keeps upstream detail out of client responses.
func publicMessage(err error) string {
	for _, kind := range []error{domain.ErrNoFile, domain.ErrBadRequest, domain.ErrExtraction, domain.ErrEmbedding, domain.ErrChatService} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal error"
}

func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
