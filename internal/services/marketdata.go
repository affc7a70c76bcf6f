package services

import (
  "context"
  "encoding/json"
  "fmt"
  "sort"
  "strings"
  "time"
  "github.com/google/uuid"
  "github.com/samber/lo"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/clients/redis"
  "github.com/raceautoindia/race-analytics-backend/internal/config"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/period"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

// ChartQuery is the common query surface of the chart-data endpoints.
type ChartQuery struct {
  SegmentName string
  SegmentType string
  BaseMonth   string // "yyyy-MM"; empty means "apply the cadence rule to now"
  Country     string
  AltFuel     bool
}

// SeriesRow is one row of a merged comparison table: the row label plus one
// value per resolved period label. Periods missing from sparse data simply
// lack their key.
type SeriesRow map[string]interface{}

type MarketDataService interface {
  FetchSeries(ctx context.Context, query ChartQuery) ([]SeriesRow, error)
}

type marketDataService struct {
  db             *gorm.DB
  log            *logger.Logger
  nodeRepo       repos.HierarchyNodeRepo
  volumeDataRepo repos.VolumeDataRepo
  altFuelMap     *config.AltFuelMap
  cache          redis.ChartCache
  now            func() time.Time
}

func NewMarketDataService(
  db *gorm.DB,
  log *logger.Logger,
  nodeRepo repos.HierarchyNodeRepo,
  volumeDataRepo repos.VolumeDataRepo,
  altFuelMap *config.AltFuelMap,
  cache redis.ChartCache,
) MarketDataService {
  serviceLog := log.With("service", "MarketDataService")
  return &marketDataService{
    db:             db,
    log:            serviceLog,
    nodeRepo:       nodeRepo,
    volumeDataRepo: volumeDataRepo,
    altFuelMap:     altFuelMap,
    cache:          cache,
    now:            time.Now,
  }
}

type monthNode struct {
  node   *types.HierarchyNode
  period period.Period
  label  string
}

// FetchSeries resolves the three comparison periods for a segment and joins
// hierarchy + volume data into the merged sparse series the chart renderers
// consume.
func (ms *marketDataService) FetchSeries(ctx context.Context, query ChartQuery) ([]SeriesRow, error) {
  if strings.TrimSpace(query.SegmentName) == "" {
    return nil, apierr.BadRequest("segment_required", fmt.Errorf("segmentName is required"))
  }

  cacheKey := ms.cacheKey(query)
  if ms.cache != nil {
    if raw, ok := ms.cache.Get(ctx, cacheKey); ok {
      var cached []SeriesRow
      if err := json.Unmarshal(raw, &cached); err == nil {
        return cached, nil
      }
    }
  }

  base, err := ms.basePeriod(query.BaseMonth)
  if err != nil {
    return nil, err
  }

  // Hierarchy and volume data load in parallel; both are needed before any
  // month resolution can start.
  var nodes []*types.HierarchyNode
  var entries []*types.VolumeDataEntry
  group, groupCtx := errgroup.WithContext(ctx)
  group.Go(func() error {
    var gErr error
    nodes, gErr = ms.nodeRepo.GetAll(groupCtx, nil)
    return gErr
  })
  group.Go(func() error {
    var gErr error
    entries, gErr = ms.volumeDataRepo.GetAll(groupCtx, nil)
    return gErr
  })
  if err := group.Wait(); err != nil {
    return nil, apierr.Internal(err)
  }

  segmentRoot, err := ms.findSegmentRoot(nodes, query)
  if err != nil {
    return nil, err
  }

  available := collectMonthNodes(nodes, segmentRoot.ID)
  if len(available) == 0 {
    return nil, apierr.NotFound("no_month_data", fmt.Errorf("no month nodes under segment %q", query.SegmentName))
  }

  labels := lo.Map(available, func(m monthNode, _ int) string { return m.label })
  resolved, ok := period.ResolveTargets(period.TargetPeriods(base), labels)
  if !ok {
    return nil, apierr.NotFound("columns_not_found", fmt.Errorf("required data columns not found"))
  }

  byLabel := map[string]monthNode{}
  for _, m := range available {
    if _, exists := byLabel[strings.ToLower(m.label)]; !exists {
      byLabel[strings.ToLower(m.label)] = m
    }
  }

  entriesByStream := map[string][]*types.VolumeDataEntry{}
  for _, e := range entries {
    entriesByStream[e.Stream] = append(entriesByStream[e.Stream], e)
  }

  pathNodes := HierarchyPathNodes(nodes)
  merged := map[string]SeriesRow{}
  exclude := period.NewExcludeSet()
  for _, pick := range []string{resolved.Previous, resolved.Current, resolved.LastYear} {
    m, exists := byLabel[strings.ToLower(pick)]
    if !exists {
      continue
    }
    stream := BuildPath(pathNodes, m.node.ID)
    // All entries of one period resolve against the same exclude set, so
    // parallel tables for the same month agree on the column; the pick is
    // excluded for the following periods only.
    var pickedColumn string
    for _, entry := range entriesByStream[stream] {
      matrix, mErr := entry.Matrix()
      if mErr != nil {
        ms.log.Warn("Skipping undecodable volume entry", "entry_id", entry.ID, "error", mErr)
        continue
      }
      column, colOK := period.ResolveColumn(m.period, matrix.ColumnLabels(), exclude)
      if !colOK {
        continue
      }
      if pickedColumn == "" {
        pickedColumn = column
      }
      for row, cols := range matrix {
        cell, has := cols[column]
        if !has {
          continue
        }
        name := row
        if query.AltFuel {
          canonical, known := ms.altFuelMap.Resolve(row)
          if !known {
            continue
          }
          name = canonical
        }
        if merged[name] == nil {
          merged[name] = SeriesRow{"name": name}
        }
        merged[name][m.label] = cellValue(cell)
      }
    }
    if pickedColumn != "" {
      exclude.Add(pickedColumn)
    }
  }

  names := lo.Keys(merged)
  sort.Strings(names)
  rows := make([]SeriesRow, 0, len(names))
  for _, name := range names {
    rows = append(rows, merged[name])
  }

  if ms.cache != nil && len(rows) > 0 {
    if raw, mErr := json.Marshal(rows); mErr == nil {
      ms.cache.Set(ctx, cacheKey, raw)
    }
  }
  return rows, nil
}

func (ms *marketDataService) cacheKey(query ChartQuery) string {
  return fmt.Sprintf("chart:%s:%s:%s:%s:%t",
    strings.ToLower(query.SegmentName), strings.ToLower(query.SegmentType),
    query.BaseMonth, strings.ToLower(query.Country), query.AltFuel)
}

func (ms *marketDataService) basePeriod(baseMonth string) (period.Period, error) {
  if strings.TrimSpace(baseMonth) == "" {
    return period.ReportingMonth(ms.now()), nil
  }
  p, ok := period.ParseLabel(baseMonth)
  if !ok {
    return period.Period{}, apierr.BadRequest("invalid_base_month", fmt.Errorf("baseMonth %q is not a valid yyyy-MM month", baseMonth))
  }
  return p, nil
}

// findSegmentRoot walks root [-> country] [-> flash] -> segmentName
// [-> segmentType]. The "flash" level is optional in the tree, so a direct
// child match is tried first.
func (ms *marketDataService) findSegmentRoot(nodes []*types.HierarchyNode, query ChartQuery) (*types.HierarchyNode, error) {
  var root *types.HierarchyNode
  for _, n := range nodes {
    if n.ParentID == nil {
      root = n
      break
    }
  }
  if root == nil {
    return nil, apierr.NotFound("hierarchy_empty", fmt.Errorf("content hierarchy has no root"))
  }

  scope := root
  if strings.TrimSpace(query.Country) != "" {
    country, err := FindChildByName(nodes, &scope.ID, query.Country)
    if err != nil {
      return nil, err
    }
    if country == nil {
      return nil, apierr.NotFound("country_not_found", fmt.Errorf("country %q not found", query.Country))
    }
    scope = country
  }

  segment, err := FindChildByName(nodes, &scope.ID, query.SegmentName)
  if err != nil {
    return nil, err
  }
  if segment == nil {
    flash, fErr := FindChildByName(nodes, &scope.ID, "flash")
    if fErr != nil {
      return nil, fErr
    }
    if flash != nil {
      segment, err = FindChildByName(nodes, &flash.ID, query.SegmentName)
      if err != nil {
        return nil, err
      }
    }
  }
  if segment == nil {
    return nil, apierr.NotFound("segment_not_found", fmt.Errorf("segment %q not found", query.SegmentName))
  }

  if strings.TrimSpace(query.SegmentType) == "" {
    return segment, nil
  }
  segmentType, err := FindChildByName(nodes, &segment.ID, query.SegmentType)
  if err != nil {
    return nil, err
  }
  if segmentType == nil {
    return nil, apierr.NotFound("segment_type_not_found", fmt.Errorf("segment type %q not found under %q", query.SegmentType, query.SegmentName))
  }
  return segmentType, nil
}

// collectMonthNodes finds every (year -> month) pair in the subtree under
// rootID and labels it with the canonical short form, e.g. "jan_25".
func collectMonthNodes(nodes []*types.HierarchyNode, rootID uuid.UUID) []monthNode {
  children := map[uuid.UUID][]*types.HierarchyNode{}
  for _, n := range nodes {
    if n.ParentID != nil {
      children[*n.ParentID] = append(children[*n.ParentID], n)
    }
  }

  var out []monthNode
  var walk func(id uuid.UUID)
  walk = func(id uuid.UUID) {
    for _, child := range children[id] {
      walk(child.ID)
      parent := nodeByID(nodes, *child.ParentID)
      if parent == nil {
        continue
      }
      p, ok := period.ParseLabel(child.Name + " " + parent.Name)
      if !ok {
        // Month leaves may also carry a self-contained label like "jan_25".
        p, ok = period.ParseLabel(child.Name)
      }
      if !ok {
        continue
      }
      out = append(out, monthNode{node: child, period: p, label: p.Label()})
    }
  }
  walk(rootID)
  return out
}

func nodeByID(nodes []*types.HierarchyNode, id uuid.UUID) *types.HierarchyNode {
  for _, n := range nodes {
    if n.ID == id {
      return n
    }
  }
  return nil
}

func cellValue(cell types.Cell) interface{} {
  if cell.Number != nil {
    return *cell.Number
  }
  if cell.Text != nil {
    return *cell.Text
  }
  return nil
}
