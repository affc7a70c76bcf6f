package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

type GraphService interface {
  Create(ctx context.Context, graph *types.Graph) (*types.Graph, error)
  Update(ctx context.Context, graph *types.Graph) error
  Delete(ctx context.Context, id uuid.UUID) error
  List(ctx context.Context) ([]*types.Graph, error)
  Get(ctx context.Context, id uuid.UUID) (*types.Graph, error)
}

type graphService struct {
  db        *gorm.DB
  log       *logger.Logger
  graphRepo repos.GraphRepo
}

func NewGraphService(db *gorm.DB, log *logger.Logger, graphRepo repos.GraphRepo) GraphService {
  serviceLog := log.With("service", "GraphService")
  return &graphService{db: db, log: serviceLog, graphRepo: graphRepo}
}

func jsonArrayLen(raw []byte) int {
  var arr []json.RawMessage
  if err := json.Unmarshal(raw, &arr); err != nil {
    return 0
  }
  return len(arr)
}

func jsonIsNull(raw []byte) bool {
  s := strings.TrimSpace(string(raw))
  return s == "" || s == "null"
}

// validateGraph enforces the write-time invariants: line charts carry a race
// forecast and at least one forecast type, and non-flash contexts must name
// their datasets.
func validateGraph(graph *types.Graph) error {
  if strings.TrimSpace(graph.Name) == "" {
    return apierr.BadRequest("name_required", fmt.Errorf("graph name is required"))
  }
  if strings.TrimSpace(graph.ChartType) == "" {
    return apierr.BadRequest("chart_type_required", fmt.Errorf("chart_type is required"))
  }
  if graph.ChartType == "line" {
    if jsonIsNull(graph.RaceForecast) {
      return apierr.BadRequest("race_forecast_required", fmt.Errorf("line charts require a race_forecast"))
    }
    if jsonArrayLen(graph.ForecastTypes) == 0 {
      return apierr.BadRequest("forecast_types_required", fmt.Errorf("line charts require at least one forecast type"))
    }
  }
  if graph.Context != "flash" && jsonArrayLen(graph.DatasetIDs) == 0 {
    return apierr.BadRequest("dataset_ids_required", fmt.Errorf("non-flash graphs require at least one dataset id"))
  }
  return nil
}

func (gs *graphService) Create(ctx context.Context, graph *types.Graph) (*types.Graph, error) {
  if err := validateGraph(graph); err != nil {
    return nil, err
  }
  graph.ID = uuid.New()
  graph.CreatedAt = time.Now()
  graph.UpdatedAt = time.Now()
  if _, err := gs.graphRepo.Create(ctx, nil, []*types.Graph{graph}); err != nil {
    return nil, apierr.Internal(err)
  }
  return graph, nil
}

func (gs *graphService) Update(ctx context.Context, graph *types.Graph) error {
  if err := validateGraph(graph); err != nil {
    return err
  }
  existing, err := gs.graphRepo.GetByID(ctx, nil, graph.ID)
  if err != nil {
    return apierr.Internal(err)
  }
  if existing == nil {
    return apierr.NotFound("graph_not_found", fmt.Errorf("graph %s not found", graph.ID))
  }
  graph.CreatedAt = existing.CreatedAt
  graph.UpdatedAt = time.Now()
  if err := gs.graphRepo.Save(ctx, nil, graph); err != nil {
    return apierr.Internal(err)
  }
  return nil
}

func (gs *graphService) Delete(ctx context.Context, id uuid.UUID) error {
  existing, err := gs.graphRepo.GetByID(ctx, nil, id)
  if err != nil {
    return apierr.Internal(err)
  }
  if existing == nil {
    return apierr.NotFound("graph_not_found", fmt.Errorf("graph %s not found", id))
  }
  if err := gs.graphRepo.Delete(ctx, nil, id); err != nil {
    return apierr.Internal(err)
  }
  return nil
}

func (gs *graphService) List(ctx context.Context) ([]*types.Graph, error) {
  graphs, err := gs.graphRepo.GetAll(ctx, nil)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  return graphs, nil
}

func (gs *graphService) Get(ctx context.Context, id uuid.UUID) (*types.Graph, error) {
  graph, err := gs.graphRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  if graph == nil {
    return nil, apierr.NotFound("graph_not_found", fmt.Errorf("graph %s not found", id))
  }
  return graph, nil
}
