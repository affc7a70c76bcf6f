package services

import (
  "context"
  "errors"
  "strings"
  "testing"
  "github.com/google/uuid"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/config"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
)

type uploadEnv struct {
  *testEnv
  formats FormatHierarchyService
  uploads UploadService
}

func newUploadEnv(t *testing.T) *uploadEnv {
  t.Helper()
  env := newTestEnv(t)
  altFuelMap, err := config.LoadAltFuelMap("")
  if err != nil {
    t.Fatalf("LoadAltFuelMap: %v", err)
  }
  formatRepo := repos.NewFormatHierarchyRepo(env.db, env.log)
  formats := NewFormatHierarchyService(env.db, env.log, formatRepo)
  uploads := NewUploadService(env.db, env.log, env.nodeRepo, env.volumes, formats, altFuelMap)
  return &uploadEnv{testEnv: env, formats: formats, uploads: uploads}
}

func TestParsePercent(t *testing.T) {
  cases := []struct {
    name    string
    value   interface{}
    want    float64
    wantErr bool
  }{
    {name: "percent string", value: "12.50%", want: 12.5},
    {name: "bare number string", value: "12.5", want: 12.5},
    {name: "padded percent", value: " 99.9 % ", want: 99.9},
    {name: "json number", value: float64(40), want: 40},
    {name: "garbage", value: "n/a", wantErr: true},
    {name: "bool", value: true, wantErr: true},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      got, err := ParsePercent(tc.value)
      if tc.wantErr {
        if err == nil {
          t.Fatalf("ParsePercent(%v) succeeded with %v", tc.value, got)
        }
        if !strings.Contains(err.Error(), "Invalid percentage") {
          t.Fatalf("error = %v, want Invalid percentage", err)
        }
        return
      }
      if err != nil {
        t.Fatalf("ParsePercent(%v): %v", tc.value, err)
      }
      if got != tc.want {
        t.Fatalf("ParsePercent(%v) = %v, want %v", tc.value, got, tc.want)
      }
    })
  }
}

func TestManualEntryShareTableValidation(t *testing.T) {
  env := newUploadEnv(t)
  ctx := context.Background()
  chartID := uuid.New()

  t.Run("column summing to 99.9 is rejected with month and total", func(t *testing.T) {
    err := env.uploads.ManualEntry(ctx, ManualEntryRequest{
      RowChartID: chartID,
      StreamPath: "stream-a",
      ShareTable: true,
      Data: map[string]map[string]interface{}{
        "MDV": {"jan_25": "60%"},
        "HDV": {"jan_25": "39.9%"},
      },
    })
    if apierr.Code(err) != "percentage_sum_mismatch" {
      t.Fatalf("got %v, want percentage_sum_mismatch", err)
    }
    msg := err.Error()
    if !strings.Contains(msg, "jan_25") || !strings.Contains(msg, "99.90") {
      t.Fatalf("message %q should name the month and the two-decimal total", msg)
    }
  })

  t.Run("sum within tolerance is accepted", func(t *testing.T) {
    err := env.uploads.ManualEntry(ctx, ManualEntryRequest{
      RowChartID: chartID,
      StreamPath: "stream-b",
      ShareTable: true,
      Data: map[string]map[string]interface{}{
        "MDV": {"jan_25": "60.00005%"},
        "HDV": {"jan_25": "39.99990%"},
      },
    })
    if err != nil {
      t.Fatalf("sum within tolerance rejected: %v", err)
    }
  })

  t.Run("only the offending column fails", func(t *testing.T) {
    err := env.uploads.ManualEntry(ctx, ManualEntryRequest{
      RowChartID: chartID,
      StreamPath: "stream-c",
      ShareTable: true,
      Data: map[string]map[string]interface{}{
        "MDV": {"jan_25": "60%", "feb_25": "50%"},
        "HDV": {"jan_25": "40%", "feb_25": "49%"},
      },
    })
    if apierr.Code(err) != "percentage_sum_mismatch" {
      t.Fatalf("got %v", err)
    }
    if !strings.Contains(err.Error(), "feb_25") {
      t.Fatalf("message %q should name feb_25", err.Error())
    }
  })
}

func TestManualEntryAltFuelRemap(t *testing.T) {
  env := newUploadEnv(t)
  ctx := context.Background()
  chartID := uuid.New()

  err := env.uploads.ManualEntry(ctx, ManualEntryRequest{
    RowChartID: chartID,
    StreamPath: "alt-fuel-stream",
    AltFuel:    true,
    Data: map[string]map[string]interface{}{
      "Two Wheeler":         {"jan_25": float64(10)},
      "2-W":                 {"jan_25": float64(5)},
      "Passenger Vehicles":  {"jan_25": float64(7)},
      "Bulldozer":           {"jan_25": float64(99)}, // unknown, dropped
    },
  })
  if err != nil {
    t.Fatalf("ManualEntry: %v", err)
  }

  matrix := env.entryMatrix(t, "alt-fuel-stream", chartID)
  if cell := matrix["2W"]["jan_25"]; cell.Number == nil || *cell.Number != 15 {
    t.Fatalf("2W cell = %+v, want 15 (colliding rows summed)", cell)
  }
  if cell := matrix["PV"]["jan_25"]; cell.Number == nil || *cell.Number != 7 {
    t.Fatalf("PV cell = %+v", cell)
  }
  if _, ok := matrix["Bulldozer"]; ok {
    t.Fatal("unknown category should be dropped")
  }
  if len(matrix) != 2 {
    raw, _ := matrix.ToJSON()
    t.Fatalf("unexpected rows: %s", raw)
  }
}

func TestManualEntryStreamFromRowLevelNodes(t *testing.T) {
  env := newUploadEnv(t)
  ctx := context.Background()

  root := env.mustCreateNode(t, nil, "India")
  leaf := env.mustCreateNode(t, &root.ID, "CV")
  chartID := uuid.New()

  err := env.uploads.ManualEntry(ctx, ManualEntryRequest{
    RowChartID:    chartID,
    RowLevelNodes: []uuid.UUID{root.ID, leaf.ID},
    Data: map[string]map[string]interface{}{
      "MDV": {"jan_25": float64(10)},
    },
  })
  if err != nil {
    t.Fatalf("ManualEntry: %v", err)
  }

  wantStream := root.ID.String() + "," + leaf.ID.String()
  env.entryMatrix(t, wantStream, chartID)
}

func TestUploadSheetLabelMismatch(t *testing.T) {
  env := newUploadEnv(t)
  ctx := context.Background()

  root, err := env.formats.CreateNode(ctx, nil, "truck template")
  if err != nil {
    t.Fatalf("create template root: %v", err)
  }
  rows, err := env.formats.CreateNode(ctx, &root.ID, "rows")
  if err != nil {
    t.Fatalf("create rows axis: %v", err)
  }
  cols, err := env.formats.CreateNode(ctx, &root.ID, "columns")
  if err != nil {
    t.Fatalf("create columns axis: %v", err)
  }
  for _, label := range []string{"MDV", "HDV"} {
    if _, err := env.formats.CreateNode(ctx, &rows.ID, label); err != nil {
      t.Fatalf("create row label %s: %v", label, err)
    }
  }
  for _, label := range []string{"jan_25", "feb_25"} {
    if _, err := env.formats.CreateNode(ctx, &cols.ID, label); err != nil {
      t.Fatalf("create column label %s: %v", label, err)
    }
  }

  contentRoot := env.mustCreateNode(t, nil, "India")
  target := env.mustCreateNode(t, &contentRoot.ID, "CV")

  t.Run("missing labels are reported", func(t *testing.T) {
    err := env.uploads.UploadSheet(ctx, SheetUploadRequest{
      FormatChartID: root.ChartID,
      TargetNodeID:  target.ID,
      Data: map[string]map[string]interface{}{
        "MDV": {"jan_25": float64(1)},
      },
    })
    if apierr.Code(err) != "label_mismatch" {
      t.Fatalf("got %v, want label_mismatch", err)
    }
    var mismatch *LabelMismatchError
    if !errors.As(err, &mismatch) {
      t.Fatalf("error %v does not carry the label lists", err)
    }
    if len(mismatch.MissingRowLabels) != 1 || mismatch.MissingRowLabels[0] != "HDV" {
      t.Fatalf("MissingRowLabels = %v", mismatch.MissingRowLabels)
    }
    if len(mismatch.MissingColumnLabels) != 1 || mismatch.MissingColumnLabels[0] != "feb_25" {
      t.Fatalf("MissingColumnLabels = %v", mismatch.MissingColumnLabels)
    }
  })

  t.Run("complete grid is accepted case-insensitively", func(t *testing.T) {
    err := env.uploads.UploadSheet(ctx, SheetUploadRequest{
      FormatChartID: root.ChartID,
      TargetNodeID:  target.ID,
      Data: map[string]map[string]interface{}{
        "mdv": {"JAN_25": float64(1), "feb_25": float64(2)},
        "hdv": {"jan_25": float64(3), "feb_25": float64(4)},
      },
    })
    if err != nil {
      t.Fatalf("UploadSheet: %v", err)
    }
  })

  t.Run("unknown chart id", func(t *testing.T) {
    err := env.uploads.UploadSheet(ctx, SheetUploadRequest{
      FormatChartID: uuid.New(),
      TargetNodeID:  target.ID,
      Data:          map[string]map[string]interface{}{"MDV": {"jan_25": float64(1)}},
    })
    if apierr.Code(err) != "format_not_found" {
      t.Fatalf("got %v, want format_not_found", err)
    }
  })
}
