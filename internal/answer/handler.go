package answer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gurjar1/gpt-researcher/internal/dispatch"
	"github.com/gurjar1/gpt-researcher/pkg/logging"
	"github.com/gurjar1/gpt-researcher/pkg/search"
)

// Handler serves the quick-search endpoints.
type Handler struct {
	pipeline   *Pipeline
	usage      UsageReporter
	logger     logging.Logger
	numResults int
}

// UsageReporter exposes the dispatcher's monthly usage view to the handler.
type UsageReporter interface {
	Usage() dispatch.UsageStats
}

func NewHandler(pipeline *Pipeline, usage UsageReporter, logger logging.Logger, numResults int) *Handler {
	return &Handler{
		pipeline:   pipeline,
		usage:      usage,
		logger:     logger,
		numResults: numResults,
	}
}

// RegisterRoutes attaches the quick-search endpoints to a router group.
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/quick-search", h.QuickSearch)
	router.POST("/quick-search-sync", h.QuickSearchSync)
	router.GET("/search-usage", h.SearchUsage)
}

// QuickSearch streams the answer as server-sent events.
func (h *Handler) QuickSearch(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	emitter := &sseEmitter{writer: c.Writer, flusher: flusher}
	err := h.pipeline.Run(c.Request.Context(), req, emitter)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoResults):
		// Nothing streamed yet, a plain error response is still possible.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no search results available"})
	case errors.Is(err, context.Canceled):
		h.logger.WithField("query", req.Query).Debug("Client disconnected mid-answer")
	default:
		h.logger.WithError(err).Error("Quick search failed")
		if !emitter.started {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		}
	}
}

// QuickSearchSync collects the full answer before responding, for callers
// that cannot consume an event stream.
func (h *Handler) QuickSearchSync(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	collector := &collectEmitter{}
	err := h.pipeline.Run(c.Request.Context(), req, collector)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"query":   req.Query,
			"sources": collector.sources,
			"answer":  collector.answer.String(),
		})
	case errors.Is(err, ErrNoResults):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no search results available"})
	case errors.Is(err, context.Canceled):
	default:
		h.logger.WithError(err).Error("Quick search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
	}
}

// SearchUsage reports monthly quota consumption per provider.
func (h *Handler) SearchUsage(c *gin.Context) {
	c.JSON(http.StatusOK, h.usage.Usage())
}

func (h *Handler) bindRequest(c *gin.Context) (Request, bool) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return Request{}, false
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return Request{}, false
	}
	if req.NumResults <= 0 {
		req.NumResults = h.numResults
	}
	return req, true
}

// Event payloads. One JSON object per SSE data line.
type sourcesEvent struct {
	Type      string          `json:"type"`
	Sources   []search.Result `json:"sources"`
	Query     string          `json:"query"`
	FocusMode string          `json:"focus_mode"`
}

type chunkEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type typeOnlyEvent struct {
	Type string `json:"type"`
}

// sseEmitter frames pipeline events as server-sent events and flushes each
// one immediately so chunks reach the client as they are generated.
type sseEmitter struct {
	writer  gin.ResponseWriter
	flusher http.Flusher
	started bool
}

func (e *sseEmitter) SendSources(query, focusMode string, sources []search.Result) error {
	return e.send(sourcesEvent{Type: "sources", Sources: sources, Query: query, FocusMode: focusMode})
}

func (e *sseEmitter) SendStart() error {
	return e.send(typeOnlyEvent{Type: "start"})
}

func (e *sseEmitter) SendChunk(content string) error {
	return e.send(chunkEvent{Type: "chunk", Content: content})
}

func (e *sseEmitter) SendDone() error {
	return e.send(typeOnlyEvent{Type: "done"})
}

func (e *sseEmitter) send(event interface{}) error {
	if !e.started {
		// Headers go out with the first event so an early failure can
		// still produce a plain JSON error response.
		header := e.writer.Header()
		header.Set("Content-Type", "text/event-stream")
		header.Set("Cache-Control", "no-cache")
		header.Set("Connection", "keep-alive")
		header.Set("X-Accel-Buffering", "no")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if _, err := fmt.Fprintf(e.writer, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	e.started = true
	e.flusher.Flush()
	return nil
}

// collectEmitter buffers the event sequence for the synchronous endpoint.
type collectEmitter struct {
	sources []search.Result
	answer  strings.Builder
}

func (e *collectEmitter) SendSources(query, focusMode string, sources []search.Result) error {
	e.sources = sources
	return nil
}

func (e *collectEmitter) SendStart() error { return nil }

func (e *collectEmitter) SendChunk(content string) error {
	e.answer.WriteString(content)
	return nil
}

func (e *collectEmitter) SendDone() error { return nil }
