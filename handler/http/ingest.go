package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"tracerag/src/infrastructure/job"
)

type ingestRequest struct {
	Source       string `json:"source" binding:"required"`
	Strategy     string `json:"strategy"`
	ChunkSize    int    `json:"chunkSize"`
	ChunkOverlap int    `json:"chunkOverlap"`
	// Async enqueues a background job instead of ingesting inline.
	Async bool `json:"async"`
}

type ingestAcceptedResponse struct {
	JobID int `json:"jobId"`
}

// Ingest godoc
// @Summary Ingest a source into the corpus
// @Tags ingest
// @Accept json
// @Produce json
// @Param body body ingestRequest true "Ingestion parameters"
// @Success 200 {object} ingest.Report
// @Success 202 {object} ingestAcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ingest [post]
func (h *Handler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	if req.Async {
		payload, err := json.Marshal(job.IngestionPayload{
			Source:       req.Source,
			Strategy:     req.Strategy,
			ChunkSize:    req.ChunkSize,
			ChunkOverlap: req.ChunkOverlap,
		})
		if err != nil {
			sendError(c, http.StatusInternalServerError, err)
			return
		}

		queued, err := h.jobService.EnqueueJob(c.Request.Context(), job.TaskTypeIngestion, payload)
		if err != nil {
			sendError(c, http.StatusInternalServerError, err)
			return
		}

		sendJSON(c, http.StatusAccepted, ingestAcceptedResponse{JobID: queued.ID})
		return
	}

	cfg, err := job.ChunkingConfig(req.Strategy, req.ChunkSize, req.ChunkOverlap)
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	report, err := h.ingestService.Ingest(c.Request.Context(), req.Source, cfg)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, report)
}
