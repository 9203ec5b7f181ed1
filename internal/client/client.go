package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Client talks to a running policyqa server.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// Upload sends a document file and returns the number of chunks indexed.
func (c *Client) Upload(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return 0, err
	}
	if _, err := fw.Write(data); err != nil {
		return 0, err
	}
	if err := mw.Close(); err != nil {
		return 0, err
	}

	resp, err := c.http.Post(c.baseURL+"/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("upload failed: %s: %s", resp.Status, readError(resp.Body))
	}
	var out struct {
		Chunks int `json:"chunks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Chunks, nil
}

// Ask sends a question and returns the answer text.
func (c *Client) Ask(question string) (string, error) {
	body, _ := json.Marshal(map[string]string{"question": question})
	resp, err := c.http.Post(c.baseURL+"/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ask failed: %s: %s", resp.Status, readError(resp.Body))
	}
	var out struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

func readError(r io.Reader) string {
	var out struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&out); err != nil || out.Error == "" {
		return "unknown error"
	}
	return out.Error
}
