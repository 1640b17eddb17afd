package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobtrack/jobtrack/internal/application"
	"github.com/jobtrack/jobtrack/pkg/middleware"
)

// ApplicationsHandler exposes the job application CRUD plus interview prep
// notes. All routes assume AuthMiddleware has populated the subject.
type ApplicationsHandler struct {
	svc *application.Service
}

func NewApplicationsHandler(svc *application.Service) *ApplicationsHandler {
	return &ApplicationsHandler{svc: svc}
}

func (h *ApplicationsHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/applications")
	a.GET("", h.List)
	a.POST("", h.Create)
	a.GET("/:id", h.Get)
	a.PATCH("/:id", h.Update)
	a.DELETE("/:id", h.Remove)
	a.POST("/:id/interview-prep", h.AddInterviewNote)
}

func (h *ApplicationsHandler) List(c *gin.Context) {
	apps, err := h.svc.List(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationsHandler) Get(c *gin.Context) {
	app, err := h.svc.Get(c.Request.Context(), middleware.Subject(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationsHandler) Create(c *gin.Context) {
	var form application.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.svc.Create(c.Request.Context(), middleware.Subject(c), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationsHandler) Update(c *gin.Context) {
	var patch application.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}
	app, err := h.svc.Update(c.Request.Context(), middleware.Subject(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationsHandler) Remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), middleware.Subject(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ApplicationsHandler) AddInterviewNote(c *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.svc.AddInterviewNote(c.Request.Context(), middleware.Subject(c), c.Param("id"), req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
