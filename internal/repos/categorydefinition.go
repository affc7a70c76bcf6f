package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

type CategoryDefinitionRepo interface {
  GetByCategoryID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.CategoryDefinition, error)
  Create(ctx context.Context, tx *gorm.DB, defs []*types.CategoryDefinition) ([]*types.CategoryDefinition, error)
  UpdateDefinition(ctx context.Context, tx *gorm.DB, id uuid.UUID, definition string) error
}

type categoryDefinitionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCategoryDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) CategoryDefinitionRepo {
  repoLog := baseLog.With("repo", "CategoryDefinitionRepo")
  return &categoryDefinitionRepo{db: db, log: repoLog}
}

func (cr *categoryDefinitionRepo) GetByCategoryID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.CategoryDefinition, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var result types.CategoryDefinition
  err := transaction.WithContext(ctx).
    Where("category_id = ?", categoryID).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (cr *categoryDefinitionRepo) Create(ctx context.Context, tx *gorm.DB, defs []*types.CategoryDefinition) ([]*types.CategoryDefinition, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if len(defs) == 0 {
    return []*types.CategoryDefinition{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&defs).Error; err != nil {
    return nil, err
  }
  return defs, nil
}

func (cr *categoryDefinitionRepo) UpdateDefinition(ctx context.Context, tx *gorm.DB, id uuid.UUID, definition string) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.CategoryDefinition{}).
    Where("id = ?", id).
    Update("definition", definition).Error
}
