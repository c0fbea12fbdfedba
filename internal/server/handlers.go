package server

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aktagon/folktale-teller/internal/catalog"
	"github.com/aktagon/folktale-teller/internal/narrative"
)

// StoryFetcher loads the qualifying stories of one catalog page.
type StoryFetcher interface {
	FetchStories(ctx context.Context, pageNo, numOfRows int) ([]catalog.Story, error)
}

// Narrator runs the narrative operations.
type Narrator interface {
	Summarize(ctx context.Context, title, content string) (string, error)
	PromptFromSummary(ctx context.Context, title, summary string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (*narrative.Image, error)
}

// SummaryRequest is the body of POST /summaries.
type SummaryRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// ImagePromptRequest is the body of POST /image-prompts.
type ImagePromptRequest struct {
	Title   string `json:"title" binding:"required"`
	Summary string `json:"summary" binding:"required"`
}

// ImageRequest is the body of POST /images.
type ImageRequest struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt" binding:"required"`
}

// Handler serves the API. Every request works on its own data; the handler
// holds no per-user state.
type Handler struct {
	stories   StoryFetcher
	narrator  Narrator
	pageNo    int
	numOfRows int
}

// NewHandler creates a handler. pageNo and numOfRows are used when a
// request does not name them.
func NewHandler(stories StoryFetcher, narrator Narrator, pageNo, numOfRows int) *Handler {
	return &Handler{
		stories:   stories,
		narrator:  narrator,
		pageNo:    pageNo,
		numOfRows: numOfRows,
	}
}

// Routes registers the API on router.
func (h *Handler) Routes(router *gin.Engine) {
	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	v1.GET("/health", h.Health)
	v1.GET("/stories", h.ListStories)
	v1.POST("/summaries", h.CreateSummary)
	v1.POST("/image-prompts", h.CreateImagePrompt)
	v1.POST("/images", h.CreateImage)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListStories handles GET /api/v1/stories?page=N&rows=N.
func (h *Handler) ListStories(c *gin.Context) {
	pageNo, err := queryInt(c, "page", h.pageNo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
		return
	}
	numOfRows, err := queryInt(c, "rows", h.numOfRows)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rows must be a positive integer"})
		return
	}

	stories, err := h.stories.FetchStories(c.Request.Context(), pageNo, numOfRows)
	if err != nil {
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stories": stories,
		"count":   len(stories),
		"page":    pageNo,
	})
}

// CreateSummary handles POST /api/v1/summaries.
func (h *Handler) CreateSummary(c *gin.Context) {
	var req SummaryRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})
		return
	}

	summary, err := h.narrator.Summarize(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		h.generationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"title": req.Title, "summary": summary})
}

// CreateImagePrompt handles POST /api/v1/image-prompts. A failed generation
// still answers with the fallback prompt.
func (h *Handler) CreateImagePrompt(c *gin.Context) {
	var req ImagePromptRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})
		return
	}

	prompt, err := h.narrator.PromptFromSummary(c.Request.Context(), req.Title, req.Summary)
	if err != nil {
		_ = c.Error(err)
	}

	c.JSON(http.StatusOK, gin.H{
		"title":    req.Title,
		"prompt":   prompt,
		"fallback": err != nil,
	})
}

// CreateImage handles POST /api/v1/images and answers with a PNG download,
// or 204 when the service returned no image.
func (h *Handler) CreateImage(c *gin.Context) {
	var req ImageRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})
		return
	}

	img, err := h.narrator.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		h.generationError(c, err)
		return
	}
	if img == nil {
		c.Status(http.StatusNoContent)
		return
	}

	data, err := img.EncodePNG()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encoding image failed"})
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": narrative.ImageFileName(req.Title),
	})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "image/png", data)
}

func (h *Handler) catalogError(c *gin.Context, err error) {
	_ = c.Error(err)

	if errors.Is(err, catalog.ErrEmptyResult) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "empty_result"})
		return
	}

	if failure, ok := catalog.AsFailure(err); ok {
		body := gin.H{"error": failure.Error(), "code": failure.Code}
		if failure.ResultCode != "" {
			body["result_code"] = failure.ResultCode
		}
		c.JSON(http.StatusBadGateway, body)
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *Handler) generationError(c *gin.Context, err error) {
	_ = c.Error(err)

	var genErr *narrative.GenerationError
	if errors.As(err, &genErr) {
		status := http.StatusBadGateway
		if errors.Is(genErr.Err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": err.Error(), "code": string(genErr.Kind)})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return n, nil
}
