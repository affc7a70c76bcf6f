package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  MLStatusStarted = "started"
  MLStatusSuccess = "success"
  MLStatusError   = "error"
  MLStatusTimeout = "timeout"
)

// ScoreRangeLog is the audit trail of calls to the external clustering
// service.
type ScoreRangeLog struct {
  ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  GraphID      uuid.UUID `gorm:"type:uuid;not null;index;column:graph_id" json:"graph_id"`
  ModelVersion string    `gorm:"not null;column:model_version" json:"model_version"`
  Status       string    `gorm:"not null;column:status" json:"status"`
  HTTPStatus   *int      `gorm:"column:http_status" json:"http_status"`
  DurationMS   int64     `gorm:"column:duration_ms" json:"duration_ms"`
  RowCount     int       `gorm:"column:row_count" json:"row_count"`
  Message      string    `gorm:"column:message" json:"message"`
  CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ScoreRangeLog) TableName() string { return "score_range_logs" }
