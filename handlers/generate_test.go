package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrack/jobtrack/internal/ai"
	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/internal/importer"
)

func newGenerateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gen, err := ai.NewGenerator(config.AIConfig{Provider: "local"})
	require.NoError(t, err)
	h := NewGenerateHandler(gen, ai.NewExtractClient(""))
	r := gin.New()
	h.Register(r.Group("/", subAs("user-1")))
	return r
}

func TestGenerate_LocalProvider(t *testing.T) {
	r := newGenerateRouter(t)

	w := doJSON(r, "POST", "/generate", `{"type":"resume","jobDescription":"Go services","companyName":"Acme","position":"Engineer"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp ai.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Content, "mock")
	assert.Equal(t, "local", resp.Provider)
}

func TestGenerate_BadRequest(t *testing.T) {
	r := newGenerateRouter(t)

	w := doJSON(r, "POST", "/generate", `{"type":"poem","companyName":"Acme","position":"Engineer"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "POST", "/generate", `{"type":"resume","position":"Engineer"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractText_NotConfigured(t *testing.T) {
	r := newGenerateRouter(t)

	body, contentType := multipartUpload(t, "resume.pdf", "x")
	req, w := newMultipartRequest("/extract-text", body, contentType)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestImporterHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewImporterHandler(
		importer.NewParser(config.ImporterConfig{ReaderBase: "http://127.0.0.1:0"}),
		importer.NewSearchClient(""),
	)
	r := gin.New()
	h.Register(r.Group("/", subAs("user-1")))

	// parse failures degrade to an empty result, never an error status
	w := doJSON(r, "POST", "/parse-job", `{"url":"https://example.com/job"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var parsed importer.ParsedJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.Equal(t, "https://example.com/job", parsed.JobURL)
	assert.Empty(t, parsed.Company)

	w = doJSON(r, "POST", "/parse-job", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// search without a configured endpoint is a 503
	w = doJSON(r, "POST", "/search-jobs", `{"search_term":"golang"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
