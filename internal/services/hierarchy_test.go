package services

import (
  "context"
  "strings"
  "testing"
  "github.com/google/uuid"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

func TestCreateNodeRootConflict(t *testing.T) {
  env := newTestEnv(t)
  ctx := context.Background()

  env.mustCreateNode(t, nil, "India")

  _, err := env.hierarchy.CreateNode(ctx, nil, "Another Root")
  if apierr.Code(err) != "root_conflict" {
    t.Fatalf("second root create: got %v, want root_conflict", err)
  }
}

func TestCreateNodeSiblingNameCollision(t *testing.T) {
  env := newTestEnv(t)
  ctx := context.Background()

  root := env.mustCreateNode(t, nil, "India")
  env.mustCreateNode(t, &root.ID, "CV")

  cases := []struct {
    name     string
    nodeName string
  }{
    {name: "exact duplicate", nodeName: "CV"},
    {name: "case-insensitive duplicate", nodeName: "cv"},
    {name: "whitespace duplicate", nodeName: "  CV  "},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      _, err := env.hierarchy.CreateNode(ctx, &root.ID, tc.nodeName)
      if apierr.Code(err) != "duplicate_sibling_name" {
        t.Fatalf("CreateNode(%q): got %v, want duplicate_sibling_name", tc.nodeName, err)
      }
    })
  }

  // The same name under a different parent is fine.
  other := env.mustCreateNode(t, &root.ID, "PV")
  if _, err := env.hierarchy.CreateNode(ctx, &other.ID, "CV"); err != nil {
    t.Fatalf("same name under different parent: %v", err)
  }
}

func TestCreateNodeParentNotFound(t *testing.T) {
  env := newTestEnv(t)
  missing := uuid.New()
  _, err := env.hierarchy.CreateNode(context.Background(), &missing, "orphan")
  if apierr.Code(err) != "parent_not_found" {
    t.Fatalf("got %v, want parent_not_found", err)
  }
}

func TestRenameNodeCollision(t *testing.T) {
  env := newTestEnv(t)
  ctx := context.Background()

  root := env.mustCreateNode(t, nil, "India")
  cv := env.mustCreateNode(t, &root.ID, "CV")
  env.mustCreateNode(t, &root.ID, "PV")

  if err := env.hierarchy.RenameNode(ctx, cv.ID, "pv"); apierr.Code(err) != "duplicate_sibling_name" {
    t.Fatalf("rename onto sibling: got %v, want duplicate_sibling_name", err)
  }
  // Renaming to its own name (different casing) is allowed.
  if err := env.hierarchy.RenameNode(ctx, cv.ID, "cv"); err != nil {
    t.Fatalf("rename to own name: %v", err)
  }
}

func TestDeleteNodeBlockedByChildren(t *testing.T) {
  env := newTestEnv(t)
  ctx := context.Background()

  root := env.mustCreateNode(t, nil, "India")
  child := env.mustCreateNode(t, &root.ID, "CV")

  if err := env.hierarchy.DeleteNode(ctx, root.ID); apierr.Code(err) != "node_has_children" {
    t.Fatalf("delete parent: got %v, want node_has_children", err)
  }
  if err := env.hierarchy.DeleteNode(ctx, child.ID); err != nil {
    t.Fatalf("delete leaf: %v", err)
  }
  if err := env.hierarchy.DeleteNode(ctx, root.ID); err != nil {
    t.Fatalf("delete root after leaf removed: %v", err)
  }
}

func TestDeleteNodeBlockedByVolumeData(t *testing.T) {
  env := newTestEnv(t)
  ctx := context.Background()

  root := env.mustCreateNode(t, nil, "India")
  leaf := env.mustCreateNode(t, &root.ID, "CV")

  stream := root.ID.String() + "," + leaf.ID.String()
  matrix := types.Matrix{"MDV": {"jan_25": types.NumberCell(10)}}
  if err := env.volumes.Upsert(ctx, stream, uuid.New(), matrix); err != nil {
    t.Fatalf("seed volume data: %v", err)
  }

  if err := env.hierarchy.DeleteNode(ctx, leaf.ID); apierr.Code(err) != "node_referenced_by_volume_data" {
    t.Fatalf("delete referenced node: got %v, want node_referenced_by_volume_data", err)
  }
}

func TestBuildPath(t *testing.T) {
  root := PathNode{ID: uuid.New()}
  mid := PathNode{ID: uuid.New(), ParentID: &root.ID}
  leaf := PathNode{ID: uuid.New(), ParentID: &mid.ID}
  nodes := []PathNode{leaf, mid, root}

  t.Run("root first leaf last", func(t *testing.T) {
    got := BuildPath(nodes, leaf.ID)
    want := strings.Join([]string{root.ID.String(), mid.ID.String(), leaf.ID.String()}, ",")
    if got != want {
      t.Fatalf("BuildPath = %q, want %q", got, want)
    }
  })

  t.Run("root resolves to itself", func(t *testing.T) {
    if got := BuildPath(nodes, root.ID); got != root.ID.String() {
      t.Fatalf("BuildPath(root) = %q", got)
    }
  })

  t.Run("unknown id yields empty path", func(t *testing.T) {
    if got := BuildPath(nodes, uuid.New()); got != "" {
      t.Fatalf("BuildPath(unknown) = %q, want empty", got)
    }
  })

  t.Run("dangling parent treated as root", func(t *testing.T) {
    missing := uuid.New()
    orphan := PathNode{ID: uuid.New(), ParentID: &missing}
    if got := BuildPath([]PathNode{orphan}, orphan.ID); got != orphan.ID.String() {
      t.Fatalf("BuildPath(orphan) = %q", got)
    }
  })

  t.Run("cycle terminates", func(t *testing.T) {
    a := uuid.New()
    b := uuid.New()
    cyclic := []PathNode{
      {ID: a, ParentID: &b},
      {ID: b, ParentID: &a},
    }
    got := BuildPath(cyclic, a)
    if !strings.HasSuffix(got, a.String()) {
      t.Fatalf("cyclic BuildPath = %q, want suffix %s", got, a)
    }
  })
}

func TestFindChildByName(t *testing.T) {
  parentID := uuid.New()
  nodes := []*types.HierarchyNode{
    {ID: uuid.New(), ParentID: &parentID, Name: "CV"},
    {ID: uuid.New(), ParentID: &parentID, Name: "PV"},
    {ID: uuid.New(), Name: "CV"}, // different parent (root)
  }

  found, err := FindChildByName(nodes, &parentID, "  cv ")
  if err != nil {
    t.Fatalf("FindChildByName: %v", err)
  }
  if found == nil || found.Name != "CV" {
    t.Fatalf("FindChildByName = %+v", found)
  }

  missing, err := FindChildByName(nodes, &parentID, "Tractor")
  if err != nil || missing != nil {
    t.Fatalf("missing child: got %+v, %v", missing, err)
  }

  dup := append(nodes, &types.HierarchyNode{ID: uuid.New(), ParentID: &parentID, Name: "cv"})
  if _, err := FindChildByName(dup, &parentID, "CV"); err == nil {
    t.Fatal("expected error for ambiguous name")
  }
}
