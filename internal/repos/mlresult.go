package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

type MLResultRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, result *types.MLResult) error
  GetByGraph(ctx context.Context, tx *gorm.DB, graphID uuid.UUID, modelVersion string) ([]*types.MLResult, error)
}

type mlResultRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMLResultRepo(db *gorm.DB, baseLog *logger.Logger) MLResultRepo {
  repoLog := baseLog.With("repo", "MLResultRepo")
  return &mlResultRepo{db: db, log: repoLog}
}

func (mr *mlResultRepo) Upsert(ctx context.Context, tx *gorm.DB, result *types.MLResult) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "graph_id"}, {Name: "model_version"}},
      DoUpdates: clause.AssignmentColumns([]string{"result", "computed_at"}),
    }).
    Create(result).Error
}

func (mr *mlResultRepo) GetByGraph(ctx context.Context, tx *gorm.DB, graphID uuid.UUID, modelVersion string) ([]*types.MLResult, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  query := transaction.WithContext(ctx).Where("graph_id = ?", graphID)
  if modelVersion != "" {
    query = query.Where("model_version = ?", modelVersion)
  }

  var results []*types.MLResult
  if err := query.Order("computed_at DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
