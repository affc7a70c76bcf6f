package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// MLResult caches the output of the external clustering service, one row per
// (graph_id, model_version), upserted on recompute.
type MLResult struct {
  ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  GraphID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_ml_result_key;column:graph_id" json:"graph_id"`
  ModelVersion string         `gorm:"not null;uniqueIndex:idx_ml_result_key;column:model_version" json:"model_version"`
  Result       datatypes.JSON `gorm:"column:result;type:jsonb" json:"result"`
  ComputedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"computed_at"`
}

func (MLResult) TableName() string { return "ml_results" }
