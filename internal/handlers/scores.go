package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/samber/lo"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
  "github.com/raceautoindia/race-analytics-backend/internal/services"
)

type ScoreHandler struct {
  log          *logger.Logger
  scoreService services.ScoreService
}

func NewScoreHandler(log *logger.Logger, scoreService services.ScoreService) *ScoreHandler {
  return &ScoreHandler{
    log:          log.With("handler", "ScoreHandler"),
    scoreService: scoreService,
  }
}

func (h *ScoreHandler) Get(c *gin.Context) {
  var filter repos.SubmissionFilter
  if graphParam := c.Query("graphId"); graphParam != "" {
    graphID, err := uuid.Parse(graphParam)
    if err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid graphId"})
      return
    }
    filter.GraphID = &graphID
  }
  filter.UserEmail = c.Query("email")
  filter.BasePeriod = c.Query("basePeriod")

  submissions, err := h.scoreService.Get(c.Request.Context(), filter)
  if err != nil {
    h.log.Error("Get scores failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, submissions)
}

// legacyResultRow is the pre-rework POST shape still sent by older clients.
type legacyResultRow struct {
  QuestionID string   `json:"questionId"`
  Year       int      `json:"year"`
  Value      *float64 `json:"value"`
  Skipped    bool     `json:"skipped"`
}

func (h *ScoreHandler) Save(c *gin.Context) {
  var req struct {
    GraphID    uuid.UUID            `json:"graphId"`
    Email      string               `json:"email"`
    BasePeriod string               `json:"basePeriod"`
    Scores     []services.ScoreRow  `json:"scores"`
    Results    []legacyResultRow    `json:"results"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  rows := req.Scores
  if len(rows) == 0 && len(req.Results) > 0 {
    rows = lo.Map(req.Results, func(r legacyResultRow, _ int) services.ScoreRow {
      return services.ScoreRow{
        QuestionID: r.QuestionID,
        YearIndex:  r.Year,
        Score:      r.Value,
        Skipped:    r.Skipped,
      }
    })
  }

  submission, err := h.scoreService.Save(c.Request.Context(), req.GraphID, req.Email, req.BasePeriod, rows)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, submission)
}

func (h *ScoreHandler) Delete(c *gin.Context) {
  var req struct {
    ID         *uuid.UUID `json:"id"`
    GraphID    *uuid.UUID `json:"graphId"`
    Email      string     `json:"email"`
    BasePeriod string     `json:"basePeriod"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  if req.ID != nil {
    if err := h.scoreService.DeleteByID(c.Request.Context(), *req.ID); err != nil {
      RespondServiceError(c, err)
      return
    }
    RespondOK(c, gin.H{"success": true})
    return
  }

  if req.GraphID == nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "id or graphId is required"})
    return
  }
  if err := h.scoreService.DeleteByKey(c.Request.Context(), *req.GraphID, req.Email, req.BasePeriod); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
