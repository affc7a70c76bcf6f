package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/services"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

type GraphHandler struct {
  log          *logger.Logger
  graphService services.GraphService
}

func NewGraphHandler(log *logger.Logger, graphService services.GraphService) *GraphHandler {
  return &GraphHandler{
    log:          log.With("handler", "GraphHandler"),
    graphService: graphService,
  }
}

func (h *GraphHandler) List(c *gin.Context) {
  if idParam := c.Query("id"); idParam != "" {
    id, err := uuid.Parse(idParam)
    if err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid graph id"})
      return
    }
    graph, gErr := h.graphService.Get(c.Request.Context(), id)
    if gErr != nil {
      RespondServiceError(c, gErr)
      return
    }
    RespondOK(c, graph)
    return
  }

  graphs, err := h.graphService.List(c.Request.Context())
  if err != nil {
    h.log.Error("List graphs failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, graphs)
}

func (h *GraphHandler) Create(c *gin.Context) {
  var graph types.Graph
  if err := c.ShouldBindJSON(&graph); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  created, err := h.graphService.Create(c.Request.Context(), &graph)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, created)
}

func (h *GraphHandler) Update(c *gin.Context) {
  var graph types.Graph
  if err := c.ShouldBindJSON(&graph); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if graph.ID == uuid.Nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "graph id is required"})
    return
  }
  if err := h.graphService.Update(c.Request.Context(), &graph); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (h *GraphHandler) Delete(c *gin.Context) {
  var req struct {
    ID uuid.UUID `json:"id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if err := h.graphService.Delete(c.Request.Context(), req.ID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
