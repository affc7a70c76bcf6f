package services

import (
  "context"
  "fmt"
  "strings"
  "testing"
  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  return log
}

// newTestDB opens a per-test in-memory database and migrates every model the
// services touch.
func newTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
  db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  if err := db.AutoMigrate(
    &types.HierarchyNode{},
    &types.FormatHierarchyNode{},
    &types.VolumeDataEntry{},
    &types.CategoryDefinition{},
    &types.Graph{},
    &types.Submission{},
    &types.SubmissionScore{},
    &types.MLResult{},
    &types.ScoreRangeLog{},
  ); err != nil {
    t.Fatalf("migrate: %v", err)
  }
  return db
}

type testEnv struct {
  db        *gorm.DB
  log       *logger.Logger
  nodeRepo  repos.HierarchyNodeRepo
  volRepo   repos.VolumeDataRepo
  hierarchy HierarchyService
  volumes   VolumeDataService
}

func newTestEnv(t *testing.T) *testEnv {
  t.Helper()
  db := newTestDB(t)
  log := newTestLogger(t)
  nodeRepo := repos.NewHierarchyNodeRepo(db, log)
  volRepo := repos.NewVolumeDataRepo(db, log)
  return &testEnv{
    db:        db,
    log:       log,
    nodeRepo:  nodeRepo,
    volRepo:   volRepo,
    hierarchy: NewHierarchyService(db, log, nodeRepo, volRepo),
    volumes:   NewVolumeDataService(db, log, volRepo),
  }
}

// mustCreateNode inserts a content-hierarchy node through the service so the
// usual invariants apply.
func (e *testEnv) mustCreateNode(t *testing.T, parentID *uuid.UUID, name string) *types.HierarchyNode {
  t.Helper()
  node, err := e.hierarchy.CreateNode(context.Background(), parentID, name)
  if err != nil {
    t.Fatalf("CreateNode(%q): %v", name, err)
  }
  return node
}

func floatPtr(v float64) *float64 { return &v }
