package services

import (
  "context"
  "fmt"
  "math"
  "strconv"
  "strings"
  "github.com/google/uuid"
  "github.com/samber/lo"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/config"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

// percentTolerance is the absolute slack allowed when a share table's column
// must sum to 100.
const percentTolerance = 1e-4

// LabelMismatchError reports spreadsheet labels that do not match the format
// template. Handlers render it as a 400 with both label lists.
type LabelMismatchError struct {
  MissingRowLabels    []string `json:"missingRowLabels"`
  MissingColumnLabels []string `json:"missingColumnLabels"`
}

func (e *LabelMismatchError) Error() string {
  return fmt.Sprintf("labels do not match template: %d row labels and %d column labels missing",
    len(e.MissingRowLabels), len(e.MissingColumnLabels))
}

// ManualEntryRequest is the application/json upload shape: the admin picked
// hierarchy nodes in the UI and typed values into a grid.
type ManualEntryRequest struct {
  RowChartID    uuid.UUID                         `json:"rowChartId"`
  ColChartID    uuid.UUID                         `json:"colChartId"`
  RowLevelNodes []uuid.UUID                       `json:"rowLevelNodes"`
  ColLevelNodes []uuid.UUID                       `json:"colLevelNodes"`
  StreamPath    string                            `json:"streamPath"`
  ShareTable    bool                              `json:"shareTable"`
  AltFuel       bool                              `json:"altFuel"`
  Data          map[string]map[string]interface{} `json:"data"`
}

// SheetUploadRequest carries a spreadsheet already parsed by the upload
// collaborator into a label grid.
type SheetUploadRequest struct {
  FormatChartID uuid.UUID                         `json:"formatChartId"`
  TargetNodeID  uuid.UUID                         `json:"targetNodeId"`
  ShareTable    bool                              `json:"shareTable"`
  AltFuel       bool                              `json:"altFuel"`
  Data          map[string]map[string]interface{} `json:"data"`
}

type UploadService interface {
  ManualEntry(ctx context.Context, req ManualEntryRequest) error
  UploadSheet(ctx context.Context, req SheetUploadRequest) error
}

type uploadService struct {
  db            *gorm.DB
  log           *logger.Logger
  nodeRepo      repos.HierarchyNodeRepo
  volumeService VolumeDataService
  formatService FormatHierarchyService
  altFuelMap    *config.AltFuelMap
}

func NewUploadService(
  db *gorm.DB,
  log *logger.Logger,
  nodeRepo repos.HierarchyNodeRepo,
  volumeService VolumeDataService,
  formatService FormatHierarchyService,
  altFuelMap *config.AltFuelMap,
) UploadService {
  serviceLog := log.With("service", "UploadService")
  return &uploadService{
    db:            db,
    log:           serviceLog,
    nodeRepo:      nodeRepo,
    volumeService: volumeService,
    formatService: formatService,
    altFuelMap:    altFuelMap,
  }
}

// ParsePercent accepts "NN.NN%" or a bare number (string or numeric JSON
// value).
func ParsePercent(value interface{}) (float64, error) {
  switch v := value.(type) {
  case float64:
    return v, nil
  case int:
    return float64(v), nil
  case string:
    s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
    f, err := strconv.ParseFloat(s, 64)
    if err != nil {
      return 0, fmt.Errorf("Invalid percentage: %q", v)
    }
    return f, nil
  default:
    return 0, fmt.Errorf("Invalid percentage: %v", value)
  }
}

func buildMatrix(data map[string]map[string]interface{}, asPercent bool) (types.Matrix, error) {
  matrix := types.Matrix{}
  for row, cols := range data {
    for col, value := range cols {
      var cell types.Cell
      if value == nil {
        cell = types.NullCell()
      } else if asPercent {
        pct, err := ParsePercent(value)
        if err != nil {
          return nil, apierr.BadRequest("invalid_percentage", err)
        }
        cell = types.NumberCell(pct)
      } else {
        switch v := value.(type) {
        case float64:
          cell = types.NumberCell(v)
        case string:
          cell = types.TextCell(v)
        default:
          return nil, apierr.BadRequest("invalid_cell", fmt.Errorf("cell %s/%s has unsupported value %v", row, col, value))
        }
      }
      if matrix[row] == nil {
        matrix[row] = map[string]types.Cell{}
      }
      matrix[row][col] = cell
    }
  }
  return matrix, nil
}

// validateShareTable requires every column of a percentage table to sum to
// 100 within the tolerance; the first violating column fails the whole
// batch.
func validateShareTable(matrix types.Matrix) error {
  totals := map[string]float64{}
  for _, cols := range matrix {
    for col, cell := range cols {
      if cell.Number != nil {
        totals[col] += *cell.Number
      }
    }
  }
  for _, col := range matrix.ColumnLabels() {
    total := totals[col]
    if math.Abs(total-100) > percentTolerance {
      return apierr.BadRequest("percentage_sum_mismatch",
        fmt.Errorf("percentage sum for %s is %.2f, expected 100", col, total))
    }
  }
  return nil
}

// remapAltFuel folds free-text category rows onto the canonical alt-fuel
// set, summing numeric cells that land on the same category. Unrecognized
// rows are dropped.
func remapAltFuel(matrix types.Matrix, altFuelMap *config.AltFuelMap) types.Matrix {
  out := types.Matrix{}
  for row, cols := range matrix {
    category, ok := altFuelMap.Resolve(row)
    if !ok {
      continue
    }
    if out[category] == nil {
      out[category] = map[string]types.Cell{}
    }
    for col, cell := range cols {
      existing, has := out[category][col]
      if has && existing.Number != nil && cell.Number != nil {
        out[category][col] = types.NumberCell(*existing.Number + *cell.Number)
        continue
      }
      out[category][col] = cell
    }
  }
  return out
}

func (us *uploadService) prepareMatrix(data map[string]map[string]interface{}, shareTable, altFuel bool) (types.Matrix, error) {
  matrix, err := buildMatrix(data, shareTable)
  if err != nil {
    return nil, err
  }
  if altFuel {
    matrix = remapAltFuel(matrix, us.altFuelMap)
  }
  if shareTable {
    if vErr := validateShareTable(matrix); vErr != nil {
      return nil, vErr
    }
  }
  if matrix.Empty() {
    return nil, apierr.BadRequest("empty_matrix", fmt.Errorf("no usable cells after validation"))
  }
  return matrix, nil
}

func (us *uploadService) ManualEntry(ctx context.Context, req ManualEntryRequest) error {
  stream := strings.TrimSpace(req.StreamPath)
  if stream == "" {
    if len(req.RowLevelNodes) == 0 {
      return apierr.BadRequest("stream_required", fmt.Errorf("streamPath or rowLevelNodes is required"))
    }
    nodes, nErr := us.nodeRepo.GetAll(ctx, nil)
    if nErr != nil {
      return apierr.Internal(nErr)
    }
    leaf := req.RowLevelNodes[len(req.RowLevelNodes)-1]
    stream = BuildPath(HierarchyPathNodes(nodes), leaf)
    if stream == "" {
      return apierr.NotFound("node_not_found", fmt.Errorf("node %s not found in hierarchy", leaf))
    }
  }

  matrix, err := us.prepareMatrix(req.Data, req.ShareTable, req.AltFuel)
  if err != nil {
    return err
  }
  return us.volumeService.Upsert(ctx, stream, req.RowChartID, matrix)
}

func (us *uploadService) UploadSheet(ctx context.Context, req SheetUploadRequest) error {
  rowLabels, columnLabels, err := us.formatService.TemplateLabels(ctx, req.FormatChartID)
  if err != nil {
    return err
  }

  gotRows := lo.Keys(req.Data)
  gotCols := map[string]bool{}
  for _, cols := range req.Data {
    for col := range cols {
      gotCols[col] = true
    }
  }

  missingRows := missingLabels(rowLabels, gotRows)
  missingCols := missingLabels(columnLabels, lo.Keys(gotCols))
  if len(missingRows) > 0 || len(missingCols) > 0 {
    return apierr.BadRequest("label_mismatch", &LabelMismatchError{
      MissingRowLabels:    missingRows,
      MissingColumnLabels: missingCols,
    })
  }

  nodes, nErr := us.nodeRepo.GetAll(ctx, nil)
  if nErr != nil {
    return apierr.Internal(nErr)
  }
  stream := BuildPath(HierarchyPathNodes(nodes), req.TargetNodeID)
  if stream == "" {
    return apierr.NotFound("node_not_found", fmt.Errorf("node %s not found in hierarchy", req.TargetNodeID))
  }

  matrix, mErr := us.prepareMatrix(req.Data, req.ShareTable, req.AltFuel)
  if mErr != nil {
    return mErr
  }
  return us.volumeService.Upsert(ctx, stream, req.FormatChartID, matrix)
}

func missingLabels(expected, got []string) []string {
  have := map[string]bool{}
  for _, g := range got {
    have[normalizeName(g)] = true
  }
  var missing []string
  for _, label := range expected {
    if !have[normalizeName(label)] {
      missing = append(missing, label)
    }
  }
  return missing
}
