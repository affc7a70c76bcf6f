package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// VolumeDataEntry stores one matrix of row-label x column-label values for a
// (stream, format chart) pair. Stream is the comma-joined ancestor-id path
// from the content-hierarchy root to a leaf node.
type VolumeDataEntry struct {
  ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  Stream        string         `gorm:"not null;uniqueIndex:idx_volume_stream_chart;column:stream" json:"stream"`
  FormatChartID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_volume_stream_chart;column:format_chart_id" json:"format_chart_id"`
  Data          datatypes.JSON `gorm:"column:data;type:jsonb" json:"data"`
  CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
  UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (VolumeDataEntry) TableName() string { return "volume_data" }

func (v *VolumeDataEntry) Matrix() (Matrix, error) {
  return MatrixFromJSON([]byte(v.Data))
}

func (v *VolumeDataEntry) SetMatrix(m Matrix) error {
  raw, err := m.ToJSON()
  if err != nil {
    return err
  }
  v.Data = datatypes.JSON(raw)
  return nil
}
