package services

import (
  "context"
  "fmt"
  "strings"
  "time"
  "github.com/google/uuid"
  "github.com/samber/lo"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

// CellRef addresses one cell of one volume entry for deletion.
type CellRef struct {
  EntryID uuid.UUID `json:"id"`
  Row     string    `json:"row"`
  Column  string    `json:"column"`
}

type VolumeDataService interface {
  Upsert(ctx context.Context, stream string, formatChartID uuid.UUID, matrix types.Matrix) error
  DeleteCells(ctx context.Context, cells []CellRef) error
  List(ctx context.Context) ([]*types.VolumeDataEntry, error)
  Filter(ctx context.Context, streams []string) ([]*types.VolumeDataEntry, error)
}

type volumeDataService struct {
  db             *gorm.DB
  log            *logger.Logger
  volumeDataRepo repos.VolumeDataRepo
}

func NewVolumeDataService(db *gorm.DB, log *logger.Logger, volumeDataRepo repos.VolumeDataRepo) VolumeDataService {
  serviceLog := log.With("service", "VolumeDataService")
  return &volumeDataService{db: db, log: serviceLog, volumeDataRepo: volumeDataRepo}
}

// Upsert merges matrix into the entry at (stream, formatChartID), creating it
// when absent. The read-merge-write runs in one transaction with the entry
// row locked, so concurrent uploads to the same stream serialize instead of
// losing updates.
func (vs *volumeDataService) Upsert(ctx context.Context, stream string, formatChartID uuid.UUID, matrix types.Matrix) error {
  if stream == "" {
    return apierr.BadRequest("stream_required", fmt.Errorf("stream is required"))
  }
  if matrix.Empty() {
    return apierr.BadRequest("empty_matrix", fmt.Errorf("matrix has no cells"))
  }

  return vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, gErr := vs.volumeDataRepo.GetByStreamAndChart(ctx, tx, stream, formatChartID, true)
    if gErr != nil {
      return apierr.Internal(gErr)
    }

    if existing == nil {
      entry := &types.VolumeDataEntry{
        ID:            uuid.New(),
        Stream:        stream,
        FormatChartID: formatChartID,
        CreatedAt:     time.Now(),
        UpdatedAt:     time.Now(),
      }
      if sErr := entry.SetMatrix(matrix); sErr != nil {
        return apierr.Internal(sErr)
      }
      if _, cErr := vs.volumeDataRepo.Create(ctx, tx, []*types.VolumeDataEntry{entry}); cErr != nil {
        return apierr.Internal(cErr)
      }
      return nil
    }

    current, mErr := existing.Matrix()
    if mErr != nil {
      return apierr.Internal(mErr)
    }
    if !current.Merge(matrix) {
      // Identical values, nothing to persist.
      return nil
    }
    raw, jErr := current.ToJSON()
    if jErr != nil {
      return apierr.Internal(jErr)
    }
    if uErr := vs.volumeDataRepo.UpdateData(ctx, tx, existing.ID, raw); uErr != nil {
      return apierr.Internal(uErr)
    }
    return nil
  })
}

// DeleteCells removes the named cells, one locked read-modify-write per
// affected entry regardless of how many of its cells are named. Rows that
// empty out are pruned, and an entry whose matrix empties out is deleted.
func (vs *volumeDataService) DeleteCells(ctx context.Context, cells []CellRef) error {
  if len(cells) == 0 {
    return apierr.BadRequest("cells_required", fmt.Errorf("no cells given"))
  }

  byEntry := lo.GroupBy(cells, func(c CellRef) uuid.UUID { return c.EntryID })
  entryIDs := lo.Keys(byEntry)

  return vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    entries, gErr := vs.volumeDataRepo.GetByIDs(ctx, tx, entryIDs, true)
    if gErr != nil {
      return apierr.Internal(gErr)
    }
    if len(entries) != len(entryIDs) {
      found := lo.Map(entries, func(e *types.VolumeDataEntry, _ int) uuid.UUID { return e.ID })
      missing, _ := lo.Difference(entryIDs, found)
      return apierr.NotFound("entry_not_found", fmt.Errorf("volume entries not found: %v", missing))
    }

    var toDelete []uuid.UUID
    for _, entry := range entries {
      matrix, mErr := entry.Matrix()
      if mErr != nil {
        return apierr.Internal(mErr)
      }
      for _, ref := range byEntry[entry.ID] {
        matrix.DeleteCell(ref.Row, ref.Column)
      }
      if matrix.Empty() {
        toDelete = append(toDelete, entry.ID)
        continue
      }
      raw, jErr := matrix.ToJSON()
      if jErr != nil {
        return apierr.Internal(jErr)
      }
      if uErr := vs.volumeDataRepo.UpdateData(ctx, tx, entry.ID, raw); uErr != nil {
        return apierr.Internal(uErr)
      }
    }
    if dErr := vs.volumeDataRepo.Delete(ctx, tx, toDelete); dErr != nil {
      return apierr.Internal(dErr)
    }
    return nil
  })
}

func (vs *volumeDataService) List(ctx context.Context) ([]*types.VolumeDataEntry, error) {
  entries, err := vs.volumeDataRepo.GetAll(ctx, nil)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  return entries, nil
}

// Filter returns the entries whose stream matches one of the requested
// stream paths exactly.
func (vs *volumeDataService) Filter(ctx context.Context, streams []string) ([]*types.VolumeDataEntry, error) {
  streams = lo.FilterMap(streams, func(s string, _ int) (string, bool) {
    s = strings.TrimSpace(s)
    return s, s != ""
  })
  if len(streams) == 0 {
    return nil, apierr.BadRequest("streams_required", fmt.Errorf("at least one stream is required"))
  }

  entries, err := vs.volumeDataRepo.GetByStreams(ctx, nil, lo.Uniq(streams))
  if err != nil {
    return nil, apierr.Internal(err)
  }
  return entries, nil
}
