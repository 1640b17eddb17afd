package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ExtractClient sends a document to the text extraction endpoint and returns
// the plain text it recovers. Used to seed the userExperience field of a
// generation request from an uploaded resume.
type ExtractClient struct {
	baseURL string
	client  *http.Client
}

func NewExtractClient(baseURL string) *ExtractClient {
	return &ExtractClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether an extraction endpoint was set.
func (c *ExtractClient) Configured() bool {
	return c.baseURL != ""
}

func (c *ExtractClient) ExtractText(ctx context.Context, fileName string, body io.Reader) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: EXTRACT_API_URL not set", ErrNotConfigured)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("extract request: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("extract request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract-text", &buf)
	if err != nil {
		return "", fmt.Errorf("extract request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: extract request: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: extract status %s", ErrGenerationFailed, resp.Status)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: extract decode: %v", ErrGenerationFailed, err)
	}
	return out.Text, nil
}
