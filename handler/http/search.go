package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tracerag/src/core/qa"
)

type searchRequest struct {
	Query       string   `json:"query" binding:"required"`
	DocumentIDs []string `json:"documentIds"`
	Mode        string   `json:"mode"` // vector, hybrid, or keyword
	Limit       int      `json:"limit"`
}

// Search godoc
// @Summary Search chunks across the corpus
// @Tags search
// @Accept json
// @Produce json
// @Param body body searchRequest true "Search parameters"
// @Success 200 {array} qa.SearchResultChunk
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /search [post]
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	results, err := h.searchService.Search(
		c.Request.Context(),
		req.Query,
		req.DocumentIDs,
		qa.SearchMode(req.Mode),
		req.Limit,
	)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, results)
}
