package types

import (
  "time"
  "github.com/google/uuid"
)

// HierarchyNode is one node of the content taxonomy tree
// (region -> segment -> year -> month). Exactly one node has a nil ParentID.
type HierarchyNode struct {
  ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  ParentID  *uuid.UUID `gorm:"type:uuid;index;column:parent_id" json:"parent_id"`
  Name      string     `gorm:"not null;column:name" json:"name"`
  CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
  UpdatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (HierarchyNode) TableName() string { return "hierarchy_nodes" }

// FormatHierarchyNode describes the row/column label structure of a
// spreadsheet template. The root of each template carries ChartID == ID and
// children inherit the root's ChartID, so a whole template can be addressed
// by a single chart id.
type FormatHierarchyNode struct {
  ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  ParentID  *uuid.UUID `gorm:"type:uuid;index;column:parent_id" json:"parent_id"`
  ChartID   uuid.UUID  `gorm:"type:uuid;index;column:chart_id" json:"chart_id"`
  Name      string     `gorm:"not null;column:name" json:"name"`
  CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
  UpdatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (FormatHierarchyNode) TableName() string { return "format_hierarchy" }
