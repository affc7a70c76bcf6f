package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

type FormatHierarchyRepo interface {
  Create(ctx context.Context, tx *gorm.DB, nodes []*types.FormatHierarchyNode) ([]*types.FormatHierarchyNode, error)
  Rename(ctx context.Context, tx *gorm.DB, id uuid.UUID, name string) error
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.FormatHierarchyNode, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.FormatHierarchyNode, error)
  GetByChartIDs(ctx context.Context, tx *gorm.DB, chartIDs []uuid.UUID) ([]*types.FormatHierarchyNode, error)
  CountChildren(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
  SiblingsByName(ctx context.Context, tx *gorm.DB, parentID *uuid.UUID, nameLower string) ([]*types.FormatHierarchyNode, error)
}

type formatHierarchyRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewFormatHierarchyRepo(db *gorm.DB, baseLog *logger.Logger) FormatHierarchyRepo {
  repoLog := baseLog.With("repo", "FormatHierarchyRepo")
  return &formatHierarchyRepo{db: db, log: repoLog}
}

func (fr *formatHierarchyRepo) Create(ctx context.Context, tx *gorm.DB, nodes []*types.FormatHierarchyNode) ([]*types.FormatHierarchyNode, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  if len(nodes) == 0 {
    return []*types.FormatHierarchyNode{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&nodes).Error; err != nil {
    return nil, err
  }
  return nodes, nil
}

func (fr *formatHierarchyRepo) Rename(ctx context.Context, tx *gorm.DB, id uuid.UUID, name string) error {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.FormatHierarchyNode{}).
    Where("id = ?", id).
    Update("name", name).Error
}

func (fr *formatHierarchyRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  return transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.FormatHierarchyNode{}).Error
}

func (fr *formatHierarchyRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.FormatHierarchyNode, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var results []*types.FormatHierarchyNode
  if err := transaction.WithContext(ctx).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (fr *formatHierarchyRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.FormatHierarchyNode, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var results []*types.FormatHierarchyNode
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (fr *formatHierarchyRepo) GetByChartIDs(ctx context.Context, tx *gorm.DB, chartIDs []uuid.UUID) ([]*types.FormatHierarchyNode, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var results []*types.FormatHierarchyNode
  if len(chartIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("chart_id IN ?", chartIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (fr *formatHierarchyRepo) CountChildren(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.FormatHierarchyNode{}).
    Where("parent_id = ?", id).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (fr *formatHierarchyRepo) SiblingsByName(ctx context.Context, tx *gorm.DB, parentID *uuid.UUID, nameLower string) ([]*types.FormatHierarchyNode, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  query := transaction.WithContext(ctx).Model(&types.FormatHierarchyNode{})
  if parentID == nil {
    query = query.Where("parent_id IS NULL")
  } else {
    query = query.Where("parent_id = ?", *parentID)
  }

  var results []*types.FormatHierarchyNode
  if err := query.
    Where("LOWER(TRIM(name)) = ?", nameLower).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
