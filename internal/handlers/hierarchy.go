package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "net/http"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/services"
)

type HierarchyHandler struct {
  log              *logger.Logger
  hierarchyService services.HierarchyService
}

func NewHierarchyHandler(log *logger.Logger, hierarchyService services.HierarchyService) *HierarchyHandler {
  return &HierarchyHandler{
    log:              log.With("handler", "HierarchyHandler"),
    hierarchyService: hierarchyService,
  }
}

func (h *HierarchyHandler) List(c *gin.Context) {
  nodes, err := h.hierarchyService.ListAll(c.Request.Context())
  if err != nil {
    h.log.Error("List hierarchy failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, nodes)
}

func (h *HierarchyHandler) Create(c *gin.Context) {
  var req struct {
    ParentID *uuid.UUID `json:"parent_id"`
    Name     string     `json:"name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  node, err := h.hierarchyService.CreateNode(c.Request.Context(), req.ParentID, req.Name)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, node)
}

func (h *HierarchyHandler) Rename(c *gin.Context) {
  var req struct {
    ID   uuid.UUID `json:"id"`
    Name string    `json:"name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if err := h.hierarchyService.RenameNode(c.Request.Context(), req.ID, req.Name); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (h *HierarchyHandler) Delete(c *gin.Context) {
  var req struct {
    ID uuid.UUID `json:"id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if err := h.hierarchyService.DeleteNode(c.Request.Context(), req.ID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

type FormatHierarchyHandler struct {
  log           *logger.Logger
  formatService services.FormatHierarchyService
}

func NewFormatHierarchyHandler(log *logger.Logger, formatService services.FormatHierarchyService) *FormatHierarchyHandler {
  return &FormatHierarchyHandler{
    log:           log.With("handler", "FormatHierarchyHandler"),
    formatService: formatService,
  }
}

func (h *FormatHierarchyHandler) List(c *gin.Context) {
  nodes, err := h.formatService.ListAll(c.Request.Context())
  if err != nil {
    h.log.Error("List format hierarchy failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, nodes)
}

func (h *FormatHierarchyHandler) Create(c *gin.Context) {
  var req struct {
    ParentID *uuid.UUID `json:"parent_id"`
    Name     string     `json:"name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  node, err := h.formatService.CreateNode(c.Request.Context(), req.ParentID, req.Name)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, node)
}

func (h *FormatHierarchyHandler) Rename(c *gin.Context) {
  var req struct {
    ID   uuid.UUID `json:"id"`
    Name string    `json:"name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if err := h.formatService.RenameNode(c.Request.Context(), req.ID, req.Name); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (h *FormatHierarchyHandler) Delete(c *gin.Context) {
  var req struct {
    ID uuid.UUID `json:"id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if err := h.formatService.DeleteNode(c.Request.Context(), req.ID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
