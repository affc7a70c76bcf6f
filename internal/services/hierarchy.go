package services

import (
  "context"
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

type HierarchyService interface {
  CreateNode(ctx context.Context, parentID *uuid.UUID, name string) (*types.HierarchyNode, error)
  RenameNode(ctx context.Context, id uuid.UUID, name string) error
  DeleteNode(ctx context.Context, id uuid.UUID) error
  ListAll(ctx context.Context) ([]*types.HierarchyNode, error)
}

type hierarchyService struct {
  db             *gorm.DB
  log            *logger.Logger
  nodeRepo       repos.HierarchyNodeRepo
  volumeDataRepo repos.VolumeDataRepo
}

func NewHierarchyService(db *gorm.DB, log *logger.Logger, nodeRepo repos.HierarchyNodeRepo, volumeDataRepo repos.VolumeDataRepo) HierarchyService {
  serviceLog := log.With("service", "HierarchyService")
  return &hierarchyService{
    db:             db,
    log:            serviceLog,
    nodeRepo:       nodeRepo,
    volumeDataRepo: volumeDataRepo,
  }
}

func normalizeName(name string) string {
  return strings.ToLower(strings.TrimSpace(name))
}

func (hs *hierarchyService) CreateNode(ctx context.Context, parentID *uuid.UUID, name string) (*types.HierarchyNode, error) {
  trimmed := strings.TrimSpace(name)
  if trimmed == "" {
    return nil, apierr.BadRequest("name_required", fmt.Errorf("node name is required"))
  }

  var created *types.HierarchyNode
  err := hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if parentID == nil {
      rootExists, reErr := hs.nodeRepo.RootExists(ctx, tx)
      if reErr != nil {
        return apierr.Internal(reErr)
      }
      if rootExists {
        return apierr.BadRequest("root_conflict", fmt.Errorf("a root node already exists"))
      }
    } else {
      parents, pErr := hs.nodeRepo.GetByIDs(ctx, tx, []uuid.UUID{*parentID})
      if pErr != nil {
        return apierr.Internal(pErr)
      }
      if len(parents) == 0 {
        return apierr.NotFound("parent_not_found", fmt.Errorf("parent node %s not found", parentID))
      }
    }

    siblings, sErr := hs.nodeRepo.SiblingsByName(ctx, tx, parentID, normalizeName(trimmed))
    if sErr != nil {
      return apierr.Internal(sErr)
    }
    if len(siblings) > 0 {
      return apierr.BadRequest("duplicate_sibling_name", fmt.Errorf("a sibling named %q already exists", trimmed))
    }

    node := &types.HierarchyNode{
      ID:        uuid.New(),
      ParentID:  parentID,
      Name:      trimmed,
      CreatedAt: time.Now(),
      UpdatedAt: time.Now(),
    }
    if _, cErr := hs.nodeRepo.Create(ctx, tx, []*types.HierarchyNode{node}); cErr != nil {
      return apierr.Internal(cErr)
    }
    created = node
    return nil
  })
  if err != nil {
    return nil, err
  }
  return created, nil
}

func (hs *hierarchyService) RenameNode(ctx context.Context, id uuid.UUID, name string) error {
  trimmed := strings.TrimSpace(name)
  if trimmed == "" {
    return apierr.BadRequest("name_required", fmt.Errorf("node name is required"))
  }

  return hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    nodes, gErr := hs.nodeRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
    if gErr != nil {
      return apierr.Internal(gErr)
    }
    if len(nodes) == 0 {
      return apierr.NotFound("node_not_found", fmt.Errorf("node %s not found", id))
    }

    siblings, sErr := hs.nodeRepo.SiblingsByName(ctx, tx, nodes[0].ParentID, normalizeName(trimmed))
    if sErr != nil {
      return apierr.Internal(sErr)
    }
    for _, sibling := range siblings {
      if sibling.ID != id {
        return apierr.BadRequest("duplicate_sibling_name", fmt.Errorf("a sibling named %q already exists", trimmed))
      }
    }

    if rErr := hs.nodeRepo.Rename(ctx, tx, id, trimmed); rErr != nil {
      return apierr.Internal(rErr)
    }
    return nil
  })
}

// DeleteNode refuses to orphan anything: a node with children or with volume
// entries addressing it stays until those are removed first.
func (hs *hierarchyService) DeleteNode(ctx context.Context, id uuid.UUID) error {
  return hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    nodes, gErr := hs.nodeRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
    if gErr != nil {
      return apierr.Internal(gErr)
    }
    if len(nodes) == 0 {
      return apierr.NotFound("node_not_found", fmt.Errorf("node %s not found", id))
    }

    childCount, ccErr := hs.nodeRepo.CountChildren(ctx, tx, id)
    if ccErr != nil {
      return apierr.Internal(ccErr)
    }
    if childCount > 0 {
      return apierr.BadRequest("node_has_children", fmt.Errorf("node %s has %d children; delete them first", id, childCount))
    }

    referenced, refErr := hs.volumeDataRepo.AnyStreamContains(ctx, tx, id)
    if refErr != nil {
      return apierr.Internal(refErr)
    }
    if referenced {
      return apierr.BadRequest("node_referenced_by_volume_data", fmt.Errorf("node %s is referenced by volume data; delete those entries first", id))
    }

    if dErr := hs.nodeRepo.Delete(ctx, tx, id); dErr != nil {
      return apierr.Internal(dErr)
    }
    return nil
  })
}

func (hs *hierarchyService) ListAll(ctx context.Context) ([]*types.HierarchyNode, error) {
  nodes, err := hs.nodeRepo.GetAll(ctx, nil)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  return nodes, nil
}

// FindChildByName returns the direct child of parentID whose trimmed name
// matches case-insensitively. Duplicate matches are an error rather than a
// silent first-wins pick.
func FindChildByName(nodes []*types.HierarchyNode, parentID *uuid.UUID, name string) (*types.HierarchyNode, error) {
  target := normalizeName(name)
  var found *types.HierarchyNode
  for _, n := range nodes {
    if !sameParent(n.ParentID, parentID) {
      continue
    }
    if normalizeName(n.Name) != target {
      continue
    }
    if found != nil {
      return nil, apierr.Internal(fmt.Errorf("ambiguous node name %q under parent %v", name, parentID))
    }
    found = n
  }
  return found, nil
}

func sameParent(a, b *uuid.UUID) bool {
  if a == nil || b == nil {
    return a == nil && b == nil
  }
  return *a == *b
}
