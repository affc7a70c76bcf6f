package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

type HierarchyNodeRepo interface {
  Create(ctx context.Context, tx *gorm.DB, nodes []*types.HierarchyNode) ([]*types.HierarchyNode, error)
  Rename(ctx context.Context, tx *gorm.DB, id uuid.UUID, name string) error
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.HierarchyNode, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.HierarchyNode, error)
  RootExists(ctx context.Context, tx *gorm.DB) (bool, error)
  CountChildren(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
  SiblingsByName(ctx context.Context, tx *gorm.DB, parentID *uuid.UUID, nameLower string) ([]*types.HierarchyNode, error)
}

type hierarchyNodeRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewHierarchyNodeRepo(db *gorm.DB, baseLog *logger.Logger) HierarchyNodeRepo {
  repoLog := baseLog.With("repo", "HierarchyNodeRepo")
  return &hierarchyNodeRepo{db: db, log: repoLog}
}

func (hr *hierarchyNodeRepo) Create(ctx context.Context, tx *gorm.DB, nodes []*types.HierarchyNode) ([]*types.HierarchyNode, error) {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }

  if len(nodes) == 0 {
    return []*types.HierarchyNode{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&nodes).Error; err != nil {
    return nil, err
  }
  return nodes, nil
}

func (hr *hierarchyNodeRepo) Rename(ctx context.Context, tx *gorm.DB, id uuid.UUID, name string) error {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.HierarchyNode{}).
    Where("id = ?", id).
    Update("name", name).Error
}

func (hr *hierarchyNodeRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }

  return transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.HierarchyNode{}).Error
}

func (hr *hierarchyNodeRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.HierarchyNode, error) {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }

  var results []*types.HierarchyNode
  if err := transaction.WithContext(ctx).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (hr *hierarchyNodeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.HierarchyNode, error) {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }

  var results []*types.HierarchyNode
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

func (hr *hierarchyNodeRepo) RootExists(ctx context.Context, tx *gorm.DB) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.HierarchyNode{}).
    Where("parent_id IS NULL").
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (hr *hierarchyNodeRepo) CountChildren(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.HierarchyNode{}).
    Where("parent_id = ?", id).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (hr *hierarchyNodeRepo) SiblingsByName(ctx context.Context, tx *gorm.DB, parentID *uuid.UUID, nameLower string) ([]*types.HierarchyNode, error) {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }

  query := transaction.WithContext(ctx).Model(&types.HierarchyNode{})
  if parentID == nil {
    query = query.Where("parent_id IS NULL")
  } else {
    query = query.Where("parent_id = ?", *parentID)
  }

  var results []*types.HierarchyNode
  if err := query.
    Where("LOWER(TRIM(name)) = ?", nameLower).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
