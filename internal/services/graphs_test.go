package services

import (
  "context"
  "testing"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

func newGraphService(t *testing.T) GraphService {
  t.Helper()
  db := newTestDB(t)
  log := newTestLogger(t)
  return NewGraphService(db, log, repos.NewGraphRepo(db, log))
}

func TestGraphValidation(t *testing.T) {
  svc := newGraphService(t)
  ctx := context.Background()

  cases := []struct {
    name     string
    graph    types.Graph
    wantCode string
  }{
    {
      name:     "missing name",
      graph:    types.Graph{ChartType: "bar", Context: "flash"},
      wantCode: "name_required",
    },
    {
      name:     "missing chart type",
      graph:    types.Graph{Name: "g", Context: "flash"},
      wantCode: "chart_type_required",
    },
    {
      name:     "line chart without race forecast",
      graph:    types.Graph{Name: "g", ChartType: "line", Context: "flash", ForecastTypes: datatypes.JSON(`["ai"]`)},
      wantCode: "race_forecast_required",
    },
    {
      name: "line chart without forecast types",
      graph: types.Graph{
        Name: "g", ChartType: "line", Context: "flash",
        RaceForecast: datatypes.JSON(`{"2025": 10}`),
      },
      wantCode: "forecast_types_required",
    },
    {
      name:     "non-flash context without datasets",
      graph:    types.Graph{Name: "g", ChartType: "bar", Context: "dashboard"},
      wantCode: "dataset_ids_required",
    },
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      graph := tc.graph
      _, err := svc.Create(ctx, &graph)
      if apierr.Code(err) != tc.wantCode {
        t.Fatalf("got %v, want %s", err, tc.wantCode)
      }
    })
  }

  valid := types.Graph{
    Name: "cv line", ChartType: "line", Context: "dashboard",
    DatasetIDs:    datatypes.JSON(`["d1"]`),
    ForecastTypes: datatypes.JSON(`["ai", "race"]`),
    RaceForecast:  datatypes.JSON(`{"2025": 10}`),
  }
  if _, err := svc.Create(ctx, &valid); err != nil {
    t.Fatalf("valid graph rejected: %v", err)
  }
}

func TestGraphCRUD(t *testing.T) {
  svc := newGraphService(t)
  ctx := context.Background()

  created, err := svc.Create(ctx, &types.Graph{Name: "g1", ChartType: "bar", Context: "flash"})
  if err != nil {
    t.Fatalf("Create: %v", err)
  }
  if created.ID == uuid.Nil {
    t.Fatal("Create should assign an id")
  }

  got, err := svc.Get(ctx, created.ID)
  if err != nil || got.Name != "g1" {
    t.Fatalf("Get = %+v, %v", got, err)
  }

  created.Name = "g1 renamed"
  if err := svc.Update(ctx, created); err != nil {
    t.Fatalf("Update: %v", err)
  }
  got, err = svc.Get(ctx, created.ID)
  if err != nil || got.Name != "g1 renamed" {
    t.Fatalf("after update: %+v, %v", got, err)
  }

  missing := types.Graph{ID: uuid.New(), Name: "x", ChartType: "bar", Context: "flash"}
  if err := svc.Update(ctx, &missing); apierr.Code(err) != "graph_not_found" {
    t.Fatalf("update missing: got %v", err)
  }

  if err := svc.Delete(ctx, created.ID); err != nil {
    t.Fatalf("Delete: %v", err)
  }
  if _, err := svc.Get(ctx, created.ID); apierr.Code(err) != "graph_not_found" {
    t.Fatalf("get deleted: got %v", err)
  }
}
