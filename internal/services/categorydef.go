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

type CategoryDefinitionService interface {
  Get(ctx context.Context, categoryID uuid.UUID) (*types.CategoryDefinition, error)
  Upsert(ctx context.Context, categoryID uuid.UUID, definition string) (*types.CategoryDefinition, error)
}

type categoryDefinitionService struct {
  db       *gorm.DB
  log      *logger.Logger
  defRepo  repos.CategoryDefinitionRepo
  nodeRepo repos.HierarchyNodeRepo
}

func NewCategoryDefinitionService(db *gorm.DB, log *logger.Logger, defRepo repos.CategoryDefinitionRepo, nodeRepo repos.HierarchyNodeRepo) CategoryDefinitionService {
  serviceLog := log.With("service", "CategoryDefinitionService")
  return &categoryDefinitionService{db: db, log: serviceLog, defRepo: defRepo, nodeRepo: nodeRepo}
}

func (cs *categoryDefinitionService) Get(ctx context.Context, categoryID uuid.UUID) (*types.CategoryDefinition, error) {
  def, err := cs.defRepo.GetByCategoryID(ctx, nil, categoryID)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  if def == nil {
    return nil, apierr.NotFound("definition_not_found", fmt.Errorf("no definition for category %s", categoryID))
  }
  return def, nil
}

// Upsert creates the 1:1 annotation when the category has none yet,
// otherwise updates the text in place.
func (cs *categoryDefinitionService) Upsert(ctx context.Context, categoryID uuid.UUID, definition string) (*types.CategoryDefinition, error) {
  definition = strings.TrimSpace(definition)
  if definition == "" {
    return nil, apierr.BadRequest("definition_required", fmt.Errorf("definition text is required"))
  }

  nodes, nErr := cs.nodeRepo.GetByIDs(ctx, nil, []uuid.UUID{categoryID})
  if nErr != nil {
    return nil, apierr.Internal(nErr)
  }
  if len(nodes) == 0 {
    return nil, apierr.NotFound("node_not_found", fmt.Errorf("hierarchy node %s not found", categoryID))
  }

  var result *types.CategoryDefinition
  err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, gErr := cs.defRepo.GetByCategoryID(ctx, tx, categoryID)
    if gErr != nil {
      return apierr.Internal(gErr)
    }
    if existing == nil {
      def := &types.CategoryDefinition{
        ID:         uuid.New(),
        CategoryID: categoryID,
        Definition: definition,
        CreatedAt:  time.Now(),
        UpdatedAt:  time.Now(),
      }
      if _, cErr := cs.defRepo.Create(ctx, tx, []*types.CategoryDefinition{def}); cErr != nil {
        return apierr.Internal(cErr)
      }
      result = def
      return nil
    }
    if uErr := cs.defRepo.UpdateDefinition(ctx, tx, existing.ID, definition); uErr != nil {
      return apierr.Internal(uErr)
    }
    existing.Definition = definition
    result = existing
    return nil
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}
