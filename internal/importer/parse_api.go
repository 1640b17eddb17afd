package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/jobtrack/jobtrack/pkg/logger"
)

type parseAPIResponse struct {
	Title        string `json:"title"`
	Position     string `json:"position"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Salary       string `json:"salary"`
	Compensation string `json:"compensation"`
	JobURL       string `json:"job_url"`
	Error        string `json:"error"`
}

// parseStructured asks the parse endpoint for structured fields. Any failure,
// including an in-band error field, reports ok=false so the caller falls back
// to the reader heuristics.
func (p *Parser) parseStructured(ctx context.Context, jobURL string) (ParsedJob, bool) {
	body, err := json.Marshal(map[string]string{"url": jobURL})
	if err != nil {
		return ParsedJob{}, false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.parseAPIURL+"/parse-job", bytes.NewReader(body))
	if err != nil {
		return ParsedJob{}, false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Debugf("importer: parse api for %s failed: %v", jobURL, err)
		return ParsedJob{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Debugf("importer: parse api for %s: status %s", jobURL, resp.Status)
		return ParsedJob{}, false
	}

	var out parseAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ParsedJob{}, false
	}
	if out.Error != "" {
		logger.Debugf("importer: parse api for %s: %s", jobURL, out.Error)
		return ParsedJob{}, false
	}

	position := out.Title
	if position == "" {
		position = out.Position
	}
	salary := out.Salary
	if salary == "" {
		salary = out.Compensation
	}
	return ParsedJob{
		Company:    clip(out.Company, maxCompanyLen),
		Position:   clip(position, maxFieldLen),
		Location:   clip(out.Location, maxFieldLen),
		Salary:     clip(salary, maxFieldLen),
		JobURL:     jobURL,
		Confidence: ConfidenceParsed,
	}, true
}
