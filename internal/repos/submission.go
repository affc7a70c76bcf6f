package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

type SubmissionFilter struct {
  GraphID    *uuid.UUID
  UserEmail  string
  BasePeriod string
}

type SubmissionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, submissions []*types.Submission) ([]*types.Submission, error)
  GetFiltered(ctx context.Context, tx *gorm.DB, filter SubmissionFilter) ([]*types.Submission, error)
  DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  DeleteByKey(ctx context.Context, tx *gorm.DB, graphID uuid.UUID, userEmail string, basePeriod string) error
}

type submissionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
  repoLog := baseLog.With("repo", "SubmissionRepo")
  return &submissionRepo{db: db, log: repoLog}
}

func (sr *submissionRepo) Create(ctx context.Context, tx *gorm.DB, submissions []*types.Submission) ([]*types.Submission, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if len(submissions) == 0 {
    return []*types.Submission{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&submissions).Error; err != nil {
    return nil, err
  }
  return submissions, nil
}

func (sr *submissionRepo) GetFiltered(ctx context.Context, tx *gorm.DB, filter SubmissionFilter) ([]*types.Submission, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  query := transaction.WithContext(ctx).Model(&types.Submission{}).Preload("Scores")
  if filter.GraphID != nil {
    query = query.Where("graph_id = ?", *filter.GraphID)
  }
  if filter.UserEmail != "" {
    query = query.Where("user_email = ?", filter.UserEmail)
  }
  if filter.BasePeriod != "" {
    query = query.Where("base_period = ?", filter.BasePeriod)
  }

  var results []*types.Submission
  if err := query.Order("created_at ASC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *submissionRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if err := transaction.WithContext(ctx).
    Where("submission_id = ?", id).
    Delete(&types.SubmissionScore{}).Error; err != nil {
    return err
  }
  return transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.Submission{}).Error
}

func (sr *submissionRepo) DeleteByKey(ctx context.Context, tx *gorm.DB, graphID uuid.UUID, userEmail string, basePeriod string) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  query := transaction.WithContext(ctx).Model(&types.Submission{}).
    Where("graph_id = ? AND user_email = ?", graphID, userEmail)
  if basePeriod != "" {
    query = query.Where("base_period = ?", basePeriod)
  }

  var ids []uuid.UUID
  if err := query.Pluck("id", &ids).Error; err != nil {
    return err
  }
  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("submission_id IN ?", ids).
    Delete(&types.SubmissionScore{}).Error; err != nil {
    return err
  }
  return transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.Submission{}).Error
}
