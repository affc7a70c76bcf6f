package types

import (
  "time"
  "github.com/google/uuid"
)

// Submission is one user's scoring of a graph's qualitative aspects for a
// base period. At most one submission exists per
// (graph_id, user_email, base_period); re-submitting replaces the old rows.
type Submission struct {
  ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  GraphID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_submission_key;column:graph_id" json:"graph_id"`
  UserEmail  string    `gorm:"not null;uniqueIndex:idx_submission_key;column:user_email" json:"user_email"`
  BasePeriod string    `gorm:"not null;uniqueIndex:idx_submission_key;column:base_period" json:"base_period"`
  CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

  Scores []SubmissionScore `gorm:"foreignKey:SubmissionID;references:ID" json:"scores,omitempty"`
}

func (Submission) TableName() string { return "submissions" }

type SubmissionScore struct {
  ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  SubmissionID uuid.UUID `gorm:"type:uuid;not null;index;column:submission_id" json:"submission_id"`
  QuestionID   string    `gorm:"not null;column:question_id" json:"question_id"`
  YearIndex    int       `gorm:"not null;column:year_index" json:"year_index"`
  Score        *float64  `gorm:"column:score" json:"score"`
  Skipped      bool      `gorm:"not null;default:false;column:skipped" json:"skipped"`
}

func (SubmissionScore) TableName() string { return "submission_scores" }
