package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobtrack/jobtrack/internal/importer"
)

// ImporterHandler exposes the URL pre-fill heuristic and the job search
// proxy. Parse results are best-effort: callers must treat empty fields as
// "fill it in yourself".
type ImporterHandler struct {
	parser *importer.Parser
	search *importer.SearchClient
}

func NewImporterHandler(parser *importer.Parser, search *importer.SearchClient) *ImporterHandler {
	return &ImporterHandler{parser: parser, search: search}
}

func (h *ImporterHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/parse-job", h.ParseJob)
	rg.POST("/search-jobs", h.SearchJobs)
}

func (h *ImporterHandler) ParseJob(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.parser.ParseJobURL(c.Request.Context(), req.URL))
}

func (h *ImporterHandler) SearchJobs(c *gin.Context) {
	var req importer.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.search.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
