package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

type ScoreRangeLogRepo interface {
  Create(ctx context.Context, tx *gorm.DB, logs []*types.ScoreRangeLog) ([]*types.ScoreRangeLog, error)
  List(ctx context.Context, tx *gorm.DB, graphID *uuid.UUID, limit int) ([]*types.ScoreRangeLog, error)
}

type scoreRangeLogRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewScoreRangeLogRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRangeLogRepo {
  repoLog := baseLog.With("repo", "ScoreRangeLogRepo")
  return &scoreRangeLogRepo{db: db, log: repoLog}
}

func (lr *scoreRangeLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.ScoreRangeLog) ([]*types.ScoreRangeLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = lr.db
  }

  if len(logs) == 0 {
    return []*types.ScoreRangeLog{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
    return nil, err
  }
  return logs, nil
}

func (lr *scoreRangeLogRepo) List(ctx context.Context, tx *gorm.DB, graphID *uuid.UUID, limit int) ([]*types.ScoreRangeLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = lr.db
  }

  query := transaction.WithContext(ctx).Model(&types.ScoreRangeLog{})
  if graphID != nil {
    query = query.Where("graph_id = ?", *graphID)
  }
  if limit > 0 {
    query = query.Limit(limit)
  }

  var results []*types.ScoreRangeLog
  if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
