package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/services"
)

type MLHandler struct {
  log       *logger.Logger
  mlService services.MLService
}

func NewMLHandler(log *logger.Logger, mlService services.MLService) *MLHandler {
  return &MLHandler{
    log:       log.With("handler", "MLHandler"),
    mlService: mlService,
  }
}

func (h *MLHandler) Recompute(c *gin.Context) {
  var req struct {
    GraphID uuid.UUID `json:"graphId"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  result, err := h.mlService.Recompute(c.Request.Context(), req.GraphID)
  if err != nil {
    h.log.Error("ML recompute failed", "graph_id", req.GraphID, "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func (h *MLHandler) Results(c *gin.Context) {
  graphID, err := uuid.Parse(c.Query("graphId"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid graphId"})
    return
  }
  results, rErr := h.mlService.Results(c.Request.Context(), graphID, c.Query("modelVersion"))
  if rErr != nil {
    RespondServiceError(c, rErr)
    return
  }
  RespondOK(c, results)
}

func (h *MLHandler) Logs(c *gin.Context) {
  var graphID *uuid.UUID
  if graphParam := c.Query("graphId"); graphParam != "" {
    id, err := uuid.Parse(graphParam)
    if err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid graphId"})
      return
    }
    graphID = &id
  }
  limit := 100
  logs, err := h.mlService.Logs(c.Request.Context(), graphID, limit)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, logs)
}
