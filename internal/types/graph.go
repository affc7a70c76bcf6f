package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// Graph is a chart configuration record. Write-time invariants (enforced in
// GraphService): line charts require a race forecast and at least one
// forecast type; non-flash contexts require at least one dataset id.
type Graph struct {
  ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  Name             string         `gorm:"not null;column:name" json:"name"`
  Description      string         `gorm:"column:description" json:"description"`
  ChartType        string         `gorm:"not null;column:chart_type" json:"chart_type"`
  DatasetIDs       datatypes.JSON `gorm:"column:dataset_ids;type:jsonb" json:"dataset_ids"`
  ForecastTypes    datatypes.JSON `gorm:"column:forecast_types;type:jsonb" json:"forecast_types"`
  AIForecast       datatypes.JSON `gorm:"column:ai_forecast;type:jsonb" json:"ai_forecast"`
  RaceForecast     datatypes.JSON `gorm:"column:race_forecast;type:jsonb" json:"race_forecast"`
  Context          string         `gorm:"column:context" json:"context"`
  ScoreSettingsKey string         `gorm:"column:score_settings_key" json:"score_settings_key"`
  FlashSegment     string         `gorm:"column:flash_segment" json:"flash_segment"`
  CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
  UpdatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Graph) TableName() string { return "graphs" }
