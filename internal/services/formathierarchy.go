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

type FormatHierarchyService interface {
  CreateNode(ctx context.Context, parentID *uuid.UUID, name string) (*types.FormatHierarchyNode, error)
  RenameNode(ctx context.Context, id uuid.UUID, name string) error
  DeleteNode(ctx context.Context, id uuid.UUID) error
  ListAll(ctx context.Context) ([]*types.FormatHierarchyNode, error)
  TemplateLabels(ctx context.Context, chartID uuid.UUID) (rowLabels []string, columnLabels []string, err error)
}

type formatHierarchyService struct {
  db         *gorm.DB
  log        *logger.Logger
  formatRepo repos.FormatHierarchyRepo
}

func NewFormatHierarchyService(db *gorm.DB, log *logger.Logger, formatRepo repos.FormatHierarchyRepo) FormatHierarchyService {
  serviceLog := log.With("service", "FormatHierarchyService")
  return &formatHierarchyService{db: db, log: serviceLog, formatRepo: formatRepo}
}

// CreateNode auto-assigns ChartID: a root gets its own id as the chart id,
// children inherit the parent's. Multiple template roots coexist, so there
// is no root-uniqueness rule on this tree.
func (fs *formatHierarchyService) CreateNode(ctx context.Context, parentID *uuid.UUID, name string) (*types.FormatHierarchyNode, error) {
  trimmed := strings.TrimSpace(name)
  if trimmed == "" {
    return nil, apierr.BadRequest("name_required", fmt.Errorf("node name is required"))
  }

  var created *types.FormatHierarchyNode
  err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    id := uuid.New()
    chartID := id
    if parentID != nil {
      parents, pErr := fs.formatRepo.GetByIDs(ctx, tx, []uuid.UUID{*parentID})
      if pErr != nil {
        return apierr.Internal(pErr)
      }
      if len(parents) == 0 {
        return apierr.NotFound("parent_not_found", fmt.Errorf("parent node %s not found", parentID))
      }
      chartID = parents[0].ChartID
    }

    siblings, sErr := fs.formatRepo.SiblingsByName(ctx, tx, parentID, normalizeName(trimmed))
    if sErr != nil {
      return apierr.Internal(sErr)
    }
    if len(siblings) > 0 {
      return apierr.BadRequest("duplicate_sibling_name", fmt.Errorf("a sibling named %q already exists", trimmed))
    }

    node := &types.FormatHierarchyNode{
      ID:        id,
      ParentID:  parentID,
      ChartID:   chartID,
      Name:      trimmed,
      CreatedAt: time.Now(),
      UpdatedAt: time.Now(),
    }
    if _, cErr := fs.formatRepo.Create(ctx, tx, []*types.FormatHierarchyNode{node}); cErr != nil {
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

func (fs *formatHierarchyService) RenameNode(ctx context.Context, id uuid.UUID, name string) error {
  trimmed := strings.TrimSpace(name)
  if trimmed == "" {
    return apierr.BadRequest("name_required", fmt.Errorf("node name is required"))
  }

  return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    nodes, gErr := fs.formatRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
    if gErr != nil {
      return apierr.Internal(gErr)
    }
    if len(nodes) == 0 {
      return apierr.NotFound("node_not_found", fmt.Errorf("node %s not found", id))
    }

    siblings, sErr := fs.formatRepo.SiblingsByName(ctx, tx, nodes[0].ParentID, normalizeName(trimmed))
    if sErr != nil {
      return apierr.Internal(sErr)
    }
    for _, sibling := range siblings {
      if sibling.ID != id {
        return apierr.BadRequest("duplicate_sibling_name", fmt.Errorf("a sibling named %q already exists", trimmed))
      }
    }

    if rErr := fs.formatRepo.Rename(ctx, tx, id, trimmed); rErr != nil {
      return apierr.Internal(rErr)
    }
    return nil
  })
}

func (fs *formatHierarchyService) DeleteNode(ctx context.Context, id uuid.UUID) error {
  return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    nodes, gErr := fs.formatRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
    if gErr != nil {
      return apierr.Internal(gErr)
    }
    if len(nodes) == 0 {
      return apierr.NotFound("node_not_found", fmt.Errorf("node %s not found", id))
    }

    childCount, ccErr := fs.formatRepo.CountChildren(ctx, tx, id)
    if ccErr != nil {
      return apierr.Internal(ccErr)
    }
    if childCount > 0 {
      return apierr.BadRequest("node_has_children", fmt.Errorf("node %s has %d children; delete them first", id, childCount))
    }

    if dErr := fs.formatRepo.Delete(ctx, tx, id); dErr != nil {
      return apierr.Internal(dErr)
    }
    return nil
  })
}

func (fs *formatHierarchyService) ListAll(ctx context.Context) ([]*types.FormatHierarchyNode, error) {
  nodes, err := fs.formatRepo.GetAll(ctx, nil)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  return nodes, nil
}

// TemplateLabels derives the expected row and column label sets of one
// spreadsheet template. Convention: the template root has two children named
// "rows" and "columns" whose children carry the labels.
func (fs *formatHierarchyService) TemplateLabels(ctx context.Context, chartID uuid.UUID) ([]string, []string, error) {
  nodes, err := fs.formatRepo.GetByChartIDs(ctx, nil, []uuid.UUID{chartID})
  if err != nil {
    return nil, nil, apierr.Internal(err)
  }
  if len(nodes) == 0 {
    return nil, nil, apierr.NotFound("format_not_found", fmt.Errorf("no format hierarchy for chart %s", chartID))
  }

  byParent := map[uuid.UUID][]*types.FormatHierarchyNode{}
  var root *types.FormatHierarchyNode
  for _, n := range nodes {
    if n.ParentID == nil {
      root = n
      continue
    }
    byParent[*n.ParentID] = append(byParent[*n.ParentID], n)
  }
  if root == nil {
    return nil, nil, apierr.Internal(fmt.Errorf("format hierarchy for chart %s has no root", chartID))
  }

  var rowLabels, columnLabels []string
  for _, axis := range byParent[root.ID] {
    labels := make([]string, 0, len(byParent[axis.ID]))
    for _, leaf := range byParent[axis.ID] {
      labels = append(labels, leaf.Name)
    }
    switch normalizeName(axis.Name) {
    case "rows":
      rowLabels = labels
    case "columns":
      columnLabels = labels
    }
  }
  return rowLabels, columnLabels, nil
}
