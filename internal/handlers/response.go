package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/services"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the error taxonomy onto HTTP. Label mismatches
// keep their structured payload; anything without a taxonomy status is a 500
// with a generic message, the real error stays in the server log.
func RespondServiceError(c *gin.Context, err error) {
  var mismatch *services.LabelMismatchError
  if errors.As(err, &mismatch) {
    c.JSON(http.StatusBadRequest, gin.H{
      "error":               "labels do not match template",
      "missingRowLabels":    mismatch.MissingRowLabels,
      "missingColumnLabels": mismatch.MissingColumnLabels,
    })
    return
  }

  status := apierr.Status(err)
  if status == http.StatusInternalServerError {
    RespondError(c, status, "internal_error", errors.New("Internal server error"))
    return
  }
  RespondError(c, status, apierr.Code(err), err)
}
