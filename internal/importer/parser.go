// Package importer pre-fills application forms from job posting URLs and
// proxies the job search endpoint. Everything here is best-effort: a page
// that resists parsing yields an empty ParsedJob, never an error.
package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/pkg/logger"
	"github.com/jobtrack/jobtrack/pkg/metrics"
)

const (
	maxBodyBytes   = 50000
	maxCompanyLen  = 100
	maxFieldLen    = 120
	defaultTimeout = 30 * time.Second
)

// Confidence labels how a ParsedJob was produced. The regex fallback is
// explicitly "none": fields may be wrong and callers must treat them as
// suggestions.
const (
	ConfidenceParsed = "parsed"
	ConfidenceNone   = "none"
)

// ParsedJob is a best-effort pre-fill. Empty fields mean "could not tell",
// not "does not exist".
type ParsedJob struct {
	Company    string `json:"company,omitempty"`
	Position   string `json:"position,omitempty"`
	Location   string `json:"location,omitempty"`
	Salary     string `json:"salary,omitempty"`
	JobURL     string `json:"jobUrl"`
	Confidence string `json:"confidence"`
}

var (
	reSalaryAmount = regexp.MustCompile(`(?i)(\$\s?\d{2,3}(?:,\d{3})*(?:\.\d{2})?(?:\s?-\s?\$?\d{2,3}(?:,\d{3})*)?)`)
	reSalaryLabel  = regexp.MustCompile(`(?i)salary[:\s]+([^\n]+)`)
	reLocLabel     = regexp.MustCompile(`(?i)\blocation[:\s]+([^\n]+)`)
	reLocKind      = regexp.MustCompile(`(?i)\b(Remote|Hybrid|Onsite)\b[^\n]*`)
	reCompanyLabel = regexp.MustCompile(`(?i)company[:\s]+([^\n]+)`)
	reCompanyAt    = regexp.MustCompile(`at\s+([A-Z][A-Za-z0-9&.,\- ]{2,})`)
	reTitleLabel   = regexp.MustCompile(`(?i)title[:\s]+([^\n]+)`)
	rePosLabel     = regexp.MustCompile(`(?i)position[:\s]+([^\n]+)`)
	reRoleLabel    = regexp.MustCompile(`(?i)role[:\s]+([^\n]+)`)
	reJobBoard     = regexp.MustCompile(`(?i)linkedin|indeed|glassdoor|ziprecruiter|google`)
	reScheme       = regexp.MustCompile(`(?i)^https?://`)
)

// Parser parses job posting URLs, preferring a structured parse endpoint and
// falling back to readability-proxy text plus regex heuristics.
type Parser struct {
	parseAPIURL string
	readerBase  string
	client      *http.Client
}

func NewParser(cfg config.ImporterConfig) *Parser {
	return &Parser{
		parseAPIURL: strings.TrimRight(cfg.ParseAPIURL, "/"),
		readerBase:  strings.TrimRight(cfg.ReaderBase, "/"),
		client:      &http.Client{Timeout: defaultTimeout},
	}
}

// ParseJobURL never fails: any upstream trouble degrades to a ParsedJob
// holding only the URL.
func (p *Parser) ParseJobURL(ctx context.Context, jobURL string) ParsedJob {
	if p.parseAPIURL != "" {
		if parsed, ok := p.parseStructured(ctx, jobURL); ok {
			metrics.Imports.WithLabelValues("parse_api").Inc()
			return parsed
		}
	}
	metrics.Imports.WithLabelValues("reader").Inc()
	return p.parseFromReader(ctx, jobURL)
}

func (p *Parser) parseFromReader(ctx context.Context, jobURL string) ParsedJob {
	out := ParsedJob{JobURL: jobURL, Confidence: ConfidenceNone}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.readerURL(jobURL), nil)
	if err != nil {
		return out
	}
	resp, err := p.client.Do(req)
	if err != nil {
		logger.Debugf("importer: reader fetch for %s failed: %v", jobURL, err)
		return out
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Debugf("importer: reader fetch for %s: status %s", jobURL, resp.Status)
		return out
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return out
	}
	body := string(raw)

	// The reader usually emits "Position - Company - Site" as the first
	// non-empty line.
	position, company := inferFromTitle(firstNonEmptyLine(body))

	salary := firstGroup(reSalaryAmount, body)
	if salary == "" {
		salary = firstGroup(reSalaryLabel, body)
	}
	location := firstGroup(reLocLabel, body)
	if location == "" {
		location = strings.TrimSpace(reLocKind.FindString(body))
	}
	if company == "" {
		company = firstGroup(reCompanyLabel, body)
	}
	if company == "" {
		company = firstGroup(reCompanyAt, body)
	}
	if position == "" {
		for _, re := range []*regexp.Regexp{reTitleLabel, rePosLabel, reRoleLabel} {
			if position = firstGroup(re, body); position != "" {
				break
			}
		}
	}

	out.Company = clip(company, maxCompanyLen)
	out.Position = clip(position, maxFieldLen)
	out.Location = clip(location, maxFieldLen)
	out.Salary = clip(salary, maxFieldLen)
	return out
}

// readerURL routes the target through the readability proxy, which expects
// the scheme-stripped target appended after an http:// marker.
func (p *Parser) readerURL(target string) string {
	if !reScheme.MatchString(target) {
		target = "https://" + target
	}
	return fmt.Sprintf("%s/http://%s", p.readerBase, reScheme.ReplaceAllString(target, ""))
}

func firstNonEmptyLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

func inferFromTitle(title string) (position, company string) {
	parts := strings.Split(title, " - ")
	if len(parts) < 2 {
		return "", ""
	}
	position = strings.TrimSpace(parts[0])
	candidate := strings.TrimSpace(parts[1])
	if candidate != "" && !reJobBoard.MatchString(candidate) {
		company = candidate
	}
	return position, company
}

func firstGroup(re *regexp.Regexp, body string) string {
	m := re.FindStringSubmatch(body)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
