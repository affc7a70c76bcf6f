package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

type VolumeDataRepo interface {
  Create(ctx context.Context, tx *gorm.DB, entries []*types.VolumeDataEntry) ([]*types.VolumeDataEntry, error)
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.VolumeDataEntry, error)
  GetByStreamAndChart(ctx context.Context, tx *gorm.DB, stream string, chartID uuid.UUID, forUpdate bool) (*types.VolumeDataEntry, error)
  GetByStreams(ctx context.Context, tx *gorm.DB, streams []string) ([]*types.VolumeDataEntry, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, forUpdate bool) ([]*types.VolumeDataEntry, error)
  UpdateData(ctx context.Context, tx *gorm.DB, id uuid.UUID, data datatypes.JSON) error
  Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
  AnyStreamContains(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID) (bool, error)
}

type volumeDataRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewVolumeDataRepo(db *gorm.DB, baseLog *logger.Logger) VolumeDataRepo {
  repoLog := baseLog.With("repo", "VolumeDataRepo")
  return &volumeDataRepo{db: db, log: repoLog}
}

// lockForUpdate applies a row lock on postgres. The sqlite test database has
// no row-level locks and rejects FOR UPDATE.
func lockForUpdate(q *gorm.DB) *gorm.DB {
  if q.Dialector.Name() == "postgres" {
    return q.Clauses(clause.Locking{Strength: "UPDATE"})
  }
  return q
}

func (vr *volumeDataRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.VolumeDataEntry) ([]*types.VolumeDataEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }

  if len(entries) == 0 {
    return []*types.VolumeDataEntry{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
    return nil, err
  }
  return entries, nil
}

func (vr *volumeDataRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.VolumeDataEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }

  var results []*types.VolumeDataEntry
  if err := transaction.WithContext(ctx).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (vr *volumeDataRepo) GetByStreamAndChart(ctx context.Context, tx *gorm.DB, stream string, chartID uuid.UUID, forUpdate bool) (*types.VolumeDataEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }

  query := transaction.WithContext(ctx)
  if forUpdate {
    query = lockForUpdate(query)
  }

  var result types.VolumeDataEntry
  err := query.
    Where("stream = ? AND format_chart_id = ?", stream, chartID).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (vr *volumeDataRepo) GetByStreams(ctx context.Context, tx *gorm.DB, streams []string) ([]*types.VolumeDataEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }

  var results []*types.VolumeDataEntry
  if len(streams) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("stream IN ?", streams).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (vr *volumeDataRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, forUpdate bool) ([]*types.VolumeDataEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }

  var results []*types.VolumeDataEntry
  if len(ids) == 0 {
    return results, nil
  }

  query := transaction.WithContext(ctx)
  if forUpdate {
    query = lockForUpdate(query)
  }

  if err := query.
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (vr *volumeDataRepo) UpdateData(ctx context.Context, tx *gorm.DB, id uuid.UUID, data datatypes.JSON) error {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.VolumeDataEntry{}).
    Where("id = ?", id).
    Update("data", data).Error
}

func (vr *volumeDataRepo) Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }

  if len(ids) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.VolumeDataEntry{}).Error
}

func (vr *volumeDataRepo) AnyStreamContains(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.VolumeDataEntry{}).
    Where("stream LIKE ?", "%"+nodeID.String()+"%").
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}
