package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/services"
)

type MarketDataHandler struct {
  log               *logger.Logger
  marketDataService services.MarketDataService
}

func NewMarketDataHandler(log *logger.Logger, marketDataService services.MarketDataService) *MarketDataHandler {
  return &MarketDataHandler{
    log:               log.With("handler", "MarketDataHandler"),
    marketDataService: marketDataService,
  }
}

func (h *MarketDataHandler) query(c *gin.Context) services.ChartQuery {
  baseMonth := c.Query("baseMonth")
  if baseMonth == "" {
    baseMonth = c.Query("selectedMonth")
  }
  return services.ChartQuery{
    SegmentName: c.Query("segmentName"),
    SegmentType: c.Query("segmentType"),
    BaseMonth:   baseMonth,
    Country:     c.Query("country"),
  }
}

// respondSeries renders not-found as an empty array so the frontend shows
// "no data" instead of an error banner.
func (h *MarketDataHandler) respondSeries(c *gin.Context, rows []services.SeriesRow, err error) {
  if err != nil {
    if apierr.Status(err) == http.StatusNotFound {
      RespondOK(c, []services.SeriesRow{})
      return
    }
    h.log.Error("Chart data fetch failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, rows)
}

func (h *MarketDataHandler) FetchMarketData(c *gin.Context) {
  query := h.query(c)
  rows, err := h.marketDataService.FetchSeries(c.Request.Context(), query)
  h.respondSeries(c, rows, err)
}

func (h *MarketDataHandler) FetchMarketBarData(c *gin.Context) {
  query := h.query(c)
  if query.SegmentType == "" {
    query.SegmentType = "volume"
  }
  rows, err := h.marketDataService.FetchSeries(c.Request.Context(), query)
  h.respondSeries(c, rows, err)
}

func (h *MarketDataHandler) FetchAppData(c *gin.Context) {
  query := h.query(c)
  if query.SegmentName == "" {
    query.SegmentName = "alt fuel"
  }
  query.AltFuel = true
  rows, err := h.marketDataService.FetchSeries(c.Request.Context(), query)
  h.respondSeries(c, rows, err)
}

func (h *MarketDataHandler) FetchCVSegmentSplit(c *gin.Context) {
  query := h.query(c)
  query.SegmentName = "cv"
  if query.SegmentType == "" {
    query.SegmentType = "segment split"
  }
  rows, err := h.marketDataService.FetchSeries(c.Request.Context(), query)
  h.respondSeries(c, rows, err)
}

func (h *MarketDataHandler) OverallVolumes(c *gin.Context) {
  query := h.query(c)
  if query.SegmentName == "" {
    query.SegmentName = "overall"
  }
  if query.SegmentType == "" {
    query.SegmentType = "volume"
  }
  rows, err := h.marketDataService.FetchSeries(c.Request.Context(), query)
  h.respondSeries(c, rows, err)
}
