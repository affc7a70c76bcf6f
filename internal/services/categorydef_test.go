package services

import (
  "context"
  "testing"
  "github.com/google/uuid"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
)

func TestCategoryDefinitionUpsert(t *testing.T) {
  env := newTestEnv(t)
  ctx := context.Background()
  svc := NewCategoryDefinitionService(env.db, env.log, repos.NewCategoryDefinitionRepo(env.db, env.log), env.nodeRepo)

  node := env.mustCreateNode(t, nil, "India")

  if _, err := svc.Get(ctx, node.ID); apierr.Code(err) != "definition_not_found" {
    t.Fatalf("get before upsert: got %v", err)
  }

  created, err := svc.Upsert(ctx, node.ID, "  All-India market. ")
  if err != nil {
    t.Fatalf("Upsert: %v", err)
  }
  if created.Definition != "All-India market." {
    t.Fatalf("definition = %q", created.Definition)
  }

  updated, err := svc.Upsert(ctx, node.ID, "Revised text")
  if err != nil {
    t.Fatalf("second Upsert: %v", err)
  }
  if updated.ID != created.ID {
    t.Fatal("second upsert should update in place, not create a new row")
  }

  got, err := svc.Get(ctx, node.ID)
  if err != nil || got.Definition != "Revised text" {
    t.Fatalf("Get = %+v, %v", got, err)
  }

  if _, err := svc.Upsert(ctx, uuid.New(), "text"); apierr.Code(err) != "node_not_found" {
    t.Fatalf("upsert for missing node: got %v", err)
  }
  if _, err := svc.Upsert(ctx, node.ID, "   "); apierr.Code(err) != "definition_required" {
    t.Fatalf("empty definition: got %v", err)
  }
}
