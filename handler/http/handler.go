package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tracerag/src/core/chunking"
	"tracerag/src/core/ingest"
	"tracerag/src/core/qa"
	"tracerag/src/infrastructure/job"
	"tracerag/src/storage/postgres/documentctrl"
)

type Handler struct {
	ingestService *ingest.Service
	documents     *documentctrl.DocumentService
	jobService    *job.JobService
	searchService qa.SearchService
	chatService   qa.ChatService
	traceService  qa.TraceService
	sysService    qa.SystemService
}

func NewHandler(
	ingestService *ingest.Service,
	documents *documentctrl.DocumentService,
	jobService *job.JobService,
	searchService qa.SearchService,
	chatService qa.ChatService,
	traceService qa.TraceService,
	sysService qa.SystemService,
) *Handler {
	return &Handler{
		ingestService: ingestService,
		documents:     documents,
		jobService:    jobService,
		searchService: searchService,
		chatService:   chatService,
		traceService:  traceService,
		sysService:    sysService,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// Document routes
	v1.POST("/documents", h.UploadDocument)
	v1.GET("/documents", h.ListDocuments)
	v1.GET("/documents/:id", h.GetDocument)
	v1.DELETE("/documents/:id", h.DeleteDocument)

	// Ingestion routes
	v1.POST("/ingest", h.Ingest)

	// Search routes
	v1.POST("/search", h.Search)

	// Chat routes
	v1.POST("/chat/completions", h.GenerateCompletion)
	v1.GET("/chat/history", h.GetChatHistory)

	// Trace routes
	v1.GET("/trace/:chunkId", h.TraceChunk)

	// System routes
	v1.GET("/health", h.CheckHealth)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, status int, err error) {
	var code string
	switch {
	case errors.Is(err, ingest.ErrDocumentNotFound), errors.Is(err, qa.ErrChunkNotFound):
		code = "NOT_FOUND"
		status = http.StatusNotFound
	case errors.Is(err, qa.ErrInvalidRequest),
		errors.Is(err, chunking.ErrUnknownStrategy),
		errors.Is(err, chunking.ErrInvalidConfig),
		errors.Is(err, ingest.ErrNoAdapter):
		code = "INVALID_REQUEST"
		status = http.StatusBadRequest
	case status == http.StatusBadRequest:
		code = "INVALID_REQUEST"
	default:
		code = "INTERNAL_ERROR"
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
