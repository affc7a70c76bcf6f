package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

type GraphRepo interface {
  Create(ctx context.Context, tx *gorm.DB, graphs []*types.Graph) ([]*types.Graph, error)
  Save(ctx context.Context, tx *gorm.DB, graph *types.Graph) error
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Graph, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Graph, error)
}

type graphRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewGraphRepo(db *gorm.DB, baseLog *logger.Logger) GraphRepo {
  repoLog := baseLog.With("repo", "GraphRepo")
  return &graphRepo{db: db, log: repoLog}
}

func (gr *graphRepo) Create(ctx context.Context, tx *gorm.DB, graphs []*types.Graph) ([]*types.Graph, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  if len(graphs) == 0 {
    return []*types.Graph{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&graphs).Error; err != nil {
    return nil, err
  }
  return graphs, nil
}

func (gr *graphRepo) Save(ctx context.Context, tx *gorm.DB, graph *types.Graph) error {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  return transaction.WithContext(ctx).Save(graph).Error
}

func (gr *graphRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  return transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.Graph{}).Error
}

func (gr *graphRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Graph, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  var results []*types.Graph
  if err := transaction.WithContext(ctx).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (gr *graphRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Graph, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  var result types.Graph
  err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}
