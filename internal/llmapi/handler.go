package llmapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurjar1/gpt-researcher/pkg/llm"
	"github.com/gurjar1/gpt-researcher/pkg/logging"
)

// Handler serves the LLM backend management endpoints.
type Handler struct {
	logger logging.Logger
}

func NewHandler(logger logging.Logger) *Handler {
	return &Handler{logger: logger}
}

// RegisterRoutes attaches the backend endpoints to a router group.
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/llm/backends", h.Backends)
	router.GET("/llm/status", h.Status)
	router.GET("/llm/models", h.Models)
}

// Backends lists the supported local LLM backends.
func (h *Handler) Backends(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"backends": llm.Backends()})
}

// Status probes connectivity for one backend.
func (h *Handler) Status(c *gin.Context) {
	backend := c.DefaultQuery("backend", llm.BackendOllama)
	status := llm.CheckBackend(c.Request.Context(), backend, c.Query("url"))
	c.JSON(http.StatusOK, status)
}

// Models lists the models a backend advertises. An unreachable backend
// yields an empty list rather than an error so clients can poll cheaply.
func (h *Handler) Models(c *gin.Context) {
	backend := c.DefaultQuery("backend", llm.BackendOllama)
	url := c.Query("url")

	status := llm.CheckBackend(c.Request.Context(), backend, url)
	if !status.Connected {
		c.JSON(http.StatusOK, gin.H{"backend": backend, "connected": false, "models": []llm.Model{}})
		return
	}

	models, err := llm.ListBackendModels(c.Request.Context(), backend, url)
	if err != nil {
		h.logger.WithError(err).WithField("backend", backend).Warn("Failed to list backend models")
		c.JSON(http.StatusOK, gin.H{"backend": backend, "connected": true, "models": []llm.Model{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"backend": backend, "connected": true, "models": models})
}
