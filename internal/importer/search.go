package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrSearchNotConfigured = errors.New("job search endpoint not configured")
	ErrSearchFailed        = errors.New("job search failed")
)

var defaultSites = []string{"linkedin", "indeed", "glassdoor", "zip_recruiter"}

// SearchRequest is the wire shape the search endpoint expects.
type SearchRequest struct {
	SearchTerm    string   `json:"search_term"`
	Location      string   `json:"location"`
	ResultsWanted int      `json:"results_wanted"`
	SiteNames     []string `json:"site_name"`
}

type SearchJob struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary,omitempty"`
	JobURL      string `json:"job_url"`
	Site        string `json:"site"`
	DatePosted  string `json:"date_posted,omitempty"`
	Description string `json:"description,omitempty"`
}

type SearchResult struct {
	Jobs  []SearchJob `json:"jobs"`
	Total int         `json:"total"`
	Error string      `json:"error,omitempty"`
}

// SearchClient proxies the external job search endpoint.
type SearchClient struct {
	baseURL string
	client  *http.Client
}

func NewSearchClient(baseURL string) *SearchClient {
	return &SearchClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *SearchClient) Configured() bool {
	return c.baseURL != ""
}

func (c *SearchClient) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if !c.Configured() {
		return nil, ErrSearchNotConfigured
	}
	if strings.TrimSpace(req.SearchTerm) == "" {
		return nil, fmt.Errorf("%w: search_term is required", ErrSearchFailed)
	}
	if req.ResultsWanted <= 0 {
		req.ResultsWanted = 40
	}
	if len(req.SiteNames) == 0 {
		req.SiteNames = defaultSites
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search-jobs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %s", ErrSearchFailed, resp.Status)
	}

	var out SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSearchFailed, err)
	}
	if out.Jobs == nil {
		out.Jobs = []SearchJob{}
	}
	return &out, nil
}
