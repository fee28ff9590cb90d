package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TraceChunk godoc
// @Summary Trace a chunk back to its source document
// @Tags trace
// @Param chunkId path string true "Chunk ID"
// @Produce json
// @Success 200 {object} qa.ChunkTrace
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /trace/{chunkId} [get]
func (h *Handler) TraceChunk(c *gin.Context) {
	trace, err := h.traceService.Trace(c.Request.Context(), c.Param("chunkId"))
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, trace)
}
