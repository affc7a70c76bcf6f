package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/services"
)

type CategoryDefinitionHandler struct {
  log        *logger.Logger
  defService services.CategoryDefinitionService
}

func NewCategoryDefinitionHandler(log *logger.Logger, defService services.CategoryDefinitionService) *CategoryDefinitionHandler {
  return &CategoryDefinitionHandler{
    log:        log.With("handler", "CategoryDefinitionHandler"),
    defService: defService,
  }
}

func (h *CategoryDefinitionHandler) Get(c *gin.Context) {
  categoryID, err := uuid.Parse(c.Query("categoryId"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
    return
  }
  def, dErr := h.defService.Get(c.Request.Context(), categoryID)
  if dErr != nil {
    RespondServiceError(c, dErr)
    return
  }
  RespondOK(c, def)
}

func (h *CategoryDefinitionHandler) Upsert(c *gin.Context) {
  var req struct {
    CategoryID uuid.UUID `json:"categoryId"`
    Definition string    `json:"definition"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  def, err := h.defService.Upsert(c.Request.Context(), req.CategoryID, req.Definition)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, def)
}
