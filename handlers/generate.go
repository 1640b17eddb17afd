package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobtrack/jobtrack/internal/ai"
)

// GenerateHandler forwards resume and cover letter requests to the configured
// provider and exposes the document text extraction proxy.
type GenerateHandler struct {
	gen     ai.Generator
	extract *ai.ExtractClient
}

func NewGenerateHandler(gen ai.Generator, extract *ai.ExtractClient) *GenerateHandler {
	return &GenerateHandler{gen: gen, extract: extract}
}

func (h *GenerateHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/generate", h.Generate)
	rg.POST("/extract-text", h.ExtractText)
}

func (h *GenerateHandler) Generate(c *gin.Context) {
	var req ai.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.gen.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GenerateHandler) ExtractText(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer f.Close()

	text, err := h.extract.ExtractText(c.Request.Context(), header.Filename, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}
