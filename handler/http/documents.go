package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tracerag/src/core/ingest"
	"tracerag/src/infrastructure/job"
)

const defaultPageSize = 50

// ListDocuments godoc
// @Summary List ingested documents
// @Tags documents
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size"
// @Produce json
// @Success 200 {array} documentctrl.RawDocument
// @Failure 500 {object} ErrorResponse
// @Router /documents [get]
func (h *Handler) ListDocuments(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	docs, err := h.documents.List(c.Request.Context(), offset, limit)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, docs)
}

// GetDocument godoc
// @Summary Get one document record
// @Tags documents
// @Param id path string true "Document ID"
// @Produce json
// @Success 200 {object} documentctrl.RawDocument
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents/{id} [get]
func (h *Handler) GetDocument(c *gin.Context) {
	id := c.Param("id")

	doc, err := h.documents.GetByID(c.Request.Context(), id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if doc == nil {
		sendError(c, http.StatusNotFound, fmt.Errorf("%w: %s", ingest.ErrDocumentNotFound, id))
		return
	}

	sendJSON(c, http.StatusOK, doc)
}

// UploadDocument godoc
// @Summary Upload one document and ingest it inline
// @Tags documents
// @Accept multipart/form-data
// @Param file formData file true "Document file"
// @Param strategy formData string false "Chunking strategy"
// @Param chunkSize formData int false "Chunk size budget"
// @Param chunkOverlap formData int false "Chunk overlap"
// @Produce json
// @Success 200 {object} ingest.DocumentResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents [post]
func (h *Handler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		sendError(c, http.StatusBadRequest, fmt.Errorf("file is required: %w", err))
		return
	}

	chunkSize, _ := strconv.Atoi(c.PostForm("chunkSize"))
	chunkOverlap, _ := strconv.Atoi(c.PostForm("chunkOverlap"))
	cfg, err := job.ChunkingConfig(c.PostForm("strategy"), chunkSize, chunkOverlap)
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	result, err := h.ingestService.IngestDocument(c.Request.Context(), ingest.CollectedDocument{
		Name:       fileHeader.Filename,
		SourceType: ingest.SourceTypeFile,
		Path:       fileHeader.Filename,
		Content:    string(content),
		Metadata: map[string]interface{}{
			"file_size": len(content),
			"uploaded":  true,
		},
	}, cfg)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, result)
}

// DeleteDocument godoc
// @Summary Delete a document and all derived chunks
// @Tags documents
// @Param id path string true "Document ID"
// @Produce json
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents/{id} [delete]
func (h *Handler) DeleteDocument(c *gin.Context) {
	id := c.Param("id")

	if err := h.ingestService.Delete(c.Request.Context(), id); err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	c.Status(http.StatusNoContent)
}
