package clustering

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "strings"
  "time"

  "github.com/raceautoindia/race-analytics-backend/internal/logger"
)

// Client wraps the external clustering microservice that recomputes score
// ranges. One blocking call per recompute; the caller owns the deadline.
type Client interface {
  Recompute(ctx context.Context, payload RecomputePayload) (json.RawMessage, int, error)
}

type RecomputePayload struct {
  GraphID      string           `json:"graph_id"`
  ModelVersion string           `json:"model_version"`
  Scores       []ScoreRow       `json:"scores"`
}

type ScoreRow struct {
  UserEmail  string   `json:"user_email"`
  QuestionID string   `json:"question_id"`
  YearIndex  int      `json:"year_index"`
  Score      *float64 `json:"score"`
  Skipped    bool     `json:"skipped"`
}

type HTTPError struct {
  StatusCode int
  Body       string
}

func (e *HTTPError) Error() string {
  return fmt.Sprintf("clustering http %d: %s", e.StatusCode, e.Body)
}

type client struct {
  log        *logger.Logger
  baseURL    string
  httpClient *http.Client
}

func New(log *logger.Logger, baseURL string) (Client, error) {
  baseURL = strings.TrimSpace(baseURL)
  if baseURL == "" {
    return nil, fmt.Errorf("missing ML_SERVICE_URL")
  }
  return &client{
    log:     log.With("service", "ClusteringClient"),
    baseURL: strings.TrimRight(baseURL, "/"),
    // No client-level timeout: the per-call context carries the deadline so
    // the caller can tell timeout apart from transport failure.
    httpClient: &http.Client{},
  }, nil
}

// Recompute POSTs the score rows and returns the raw result document plus
// the remote HTTP status. A non-2xx response is returned as *HTTPError with
// the status also in the int return.
func (c *client) Recompute(ctx context.Context, payload RecomputePayload) (json.RawMessage, int, error) {
  raw, err := json.Marshal(payload)
  if err != nil {
    return nil, 0, err
  }
  req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/recompute", bytes.NewReader(raw))
  if err != nil {
    return nil, 0, err
  }
  req.Header.Set("Content-Type", "application/json")

  started := time.Now()
  resp, err := c.httpClient.Do(req)
  if err != nil {
    return nil, 0, err
  }
  defer resp.Body.Close()

  body, err := io.ReadAll(resp.Body)
  if err != nil {
    return nil, resp.StatusCode, err
  }
  c.log.Debug("Clustering recompute finished", "status", resp.StatusCode, "duration", time.Since(started))

  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    return nil, resp.StatusCode, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
  }
  return json.RawMessage(body), resp.StatusCode, nil
}
