package services

import (
  "strings"
  "github.com/google/uuid"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

// PathNode is the minimal node view the stream path walk needs; both
// hierarchy trees project into it.
type PathNode struct {
  ID       uuid.UUID
  ParentID *uuid.UUID
}

func HierarchyPathNodes(nodes []*types.HierarchyNode) []PathNode {
  out := make([]PathNode, 0, len(nodes))
  for _, n := range nodes {
    out = append(out, PathNode{ID: n.ID, ParentID: n.ParentID})
  }
  return out
}

func FormatPathNodes(nodes []*types.FormatHierarchyNode) []PathNode {
  out := make([]PathNode, 0, len(nodes))
  for _, n := range nodes {
    out = append(out, PathNode{ID: n.ID, ParentID: n.ParentID})
  }
  return out
}

// BuildPath walks parent links from id up to the root and returns the
// comma-joined ancestor-id path, root first. An unresolvable parent is
// treated as the root, and a visited set guards against a corrupt cyclic
// tree.
func BuildPath(nodes []PathNode, id uuid.UUID) string {
  byID := make(map[uuid.UUID]PathNode, len(nodes))
  for _, n := range nodes {
    byID[n.ID] = n
  }

  var reversed []string
  visited := map[uuid.UUID]bool{}
  current, ok := byID[id]
  for ok && !visited[current.ID] {
    visited[current.ID] = true
    reversed = append(reversed, current.ID.String())
    if current.ParentID == nil {
      break
    }
    current, ok = byID[*current.ParentID]
  }

  path := make([]string, 0, len(reversed))
  for i := len(reversed) - 1; i >= 0; i-- {
    path = append(path, reversed[i])
  }
  return strings.Join(path, ",")
}
