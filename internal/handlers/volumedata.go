package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/services"
)

type VolumeDataHandler struct {
  log           *logger.Logger
  volumeService services.VolumeDataService
  uploadService services.UploadService
}

func NewVolumeDataHandler(log *logger.Logger, volumeService services.VolumeDataService, uploadService services.UploadService) *VolumeDataHandler {
  return &VolumeDataHandler{
    log:           log.With("handler", "VolumeDataHandler"),
    volumeService: volumeService,
    uploadService: uploadService,
  }
}

func (h *VolumeDataHandler) List(c *gin.Context) {
  entries, err := h.volumeService.List(c.Request.Context())
  if err != nil {
    h.log.Error("List volume data failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, entries)
}

func (h *VolumeDataHandler) Filter(c *gin.Context) {
  var req struct {
    Streams []string `json:"streams"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  entries, err := h.volumeService.Filter(c.Request.Context(), req.Streams)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, entries)
}

func (h *VolumeDataHandler) DeleteCells(c *gin.Context) {
  var req struct {
    Cells []services.CellRef `json:"cells"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if err := h.volumeService.DeleteCells(c.Request.Context(), req.Cells); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

// Upload accepts manual entry as application/json and parsed spreadsheet
// grids as multipart form with a "payload" JSON field. Excel parsing itself
// happens in the upload collaborator before this endpoint is hit.
func (h *VolumeDataHandler) Upload(c *gin.Context) {
  contentType := c.ContentType()
  if contentType == "application/json" {
    var req services.ManualEntryRequest
    if err := c.ShouldBindJSON(&req); err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
      return
    }
    if err := h.uploadService.ManualEntry(c.Request.Context(), req); err != nil {
      RespondServiceError(c, err)
      return
    }
    RespondOK(c, gin.H{"success": true})
    return
  }

  payload := c.PostForm("payload")
  if payload == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing payload field"})
    return
  }
  var req services.SheetUploadRequest
  if err := bindJSONString(payload, &req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload field"})
    return
  }
  if err := h.uploadService.UploadSheet(c.Request.Context(), req); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
