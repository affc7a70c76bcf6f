package types

import (
  "time"
  "github.com/google/uuid"
)

// CategoryDefinition is a 1:1 free-text annotation for a hierarchy node.
type CategoryDefinition struct {
  ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:category_id" json:"category_id"`
  Definition string    `gorm:"column:definition" json:"definition"`
  CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
  UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CategoryDefinition) TableName() string { return "category_definitions" }
