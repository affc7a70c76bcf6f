package accounts

import (
  "bytes"
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "net/http"
  "os"
  "strconv"
  "strings"
  "time"

  "github.com/raceautoindia/race-analytics-backend/internal/logger"
)

// Client talks to the external account system that owns real credential
// validation and the Google OAuth exchange. This service only proxies and
// issues its own session cookie on success.
type Client interface {
  ValidateCredentials(ctx context.Context, email, password string) (bool, error)
  ExchangeOAuthCode(ctx context.Context, code string) (string, error)
}

type client struct {
  log        *logger.Logger
  baseURL    string
  httpClient *http.Client
}

type accountsHTTPError struct {
  StatusCode int
  Body       string
}

func (e *accountsHTTPError) Error() string {
  return fmt.Sprintf("accounts http %d: %s", e.StatusCode, e.Body)
}

func New(log *logger.Logger) (Client, error) {
  baseURL := strings.TrimSpace(os.Getenv("ACCOUNTS_API_URL"))
  if baseURL == "" {
    return nil, fmt.Errorf("missing ACCOUNTS_API_URL")
  }

  timeoutSec := 15
  if v := os.Getenv("ACCOUNTS_TIMEOUT_SECONDS"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
      timeoutSec = parsed
    }
  }

  return &client{
    log:        log.With("service", "AccountsClient"),
    baseURL:    strings.TrimRight(baseURL, "/"),
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
  }, nil
}

func (c *client) post(ctx context.Context, path string, payload any, out any) error {
  raw, err := json.Marshal(payload)
  if err != nil {
    return err
  }
  req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
  if err != nil {
    return err
  }
  req.Header.Set("Content-Type", "application/json")

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return err
  }
  defer resp.Body.Close()

  body, _ := io.ReadAll(resp.Body)
  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    return &accountsHTTPError{StatusCode: resp.StatusCode, Body: string(body)}
  }
  if out == nil {
    return nil
  }
  return json.Unmarshal(body, out)
}

func (c *client) ValidateCredentials(ctx context.Context, email, password string) (bool, error) {
  var out struct {
    Valid bool `json:"valid"`
  }
  err := c.post(ctx, "/v1/credentials/validate", map[string]string{
    "email":    email,
    "password": password,
  }, &out)
  if err != nil {
    var httpErr *accountsHTTPError
    if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
      return false, nil
    }
    return false, err
  }
  return out.Valid, nil
}

func (c *client) ExchangeOAuthCode(ctx context.Context, code string) (string, error) {
  var out struct {
    Email string `json:"email"`
  }
  if err := c.post(ctx, "/v1/oauth/google/exchange", map[string]string{"code": code}, &out); err != nil {
    return "", err
  }
  if out.Email == "" {
    return "", fmt.Errorf("accounts exchange returned no email")
  }
  return out.Email, nil
}
