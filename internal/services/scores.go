package services

import (
  "context"
  "fmt"
  "strings"
  "time"
  "github.com/google/uuid"
  "github.com/samber/lo"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

// ScoreRow is the normalized shape both accepted POST payloads reduce to.
type ScoreRow struct {
  QuestionID string   `json:"question_id"`
  YearIndex  int      `json:"year_index"`
  Score      *float64 `json:"score"`
  Skipped    bool     `json:"skipped"`
}

type ScoreService interface {
  Save(ctx context.Context, graphID uuid.UUID, userEmail, basePeriod string, rows []ScoreRow) (*types.Submission, error)
  Get(ctx context.Context, filter repos.SubmissionFilter) ([]*types.Submission, error)
  DeleteByID(ctx context.Context, id uuid.UUID) error
  DeleteByKey(ctx context.Context, graphID uuid.UUID, userEmail, basePeriod string) error
}

type scoreService struct {
  db             *gorm.DB
  log            *logger.Logger
  submissionRepo repos.SubmissionRepo
  graphRepo      repos.GraphRepo
}

func NewScoreService(db *gorm.DB, log *logger.Logger, submissionRepo repos.SubmissionRepo, graphRepo repos.GraphRepo) ScoreService {
  serviceLog := log.With("service", "ScoreService")
  return &scoreService{db: db, log: serviceLog, submissionRepo: submissionRepo, graphRepo: graphRepo}
}

// Save replaces any prior submission for (graph, email, base period) with the
// new rows. Delete and insert run in one transaction so readers never see a
// window with zero rows.
func (ss *scoreService) Save(ctx context.Context, graphID uuid.UUID, userEmail, basePeriod string, rows []ScoreRow) (*types.Submission, error) {
  userEmail = strings.ToLower(strings.TrimSpace(userEmail))
  if userEmail == "" {
    return nil, apierr.BadRequest("email_required", fmt.Errorf("email is required"))
  }
  if strings.TrimSpace(basePeriod) == "" {
    return nil, apierr.BadRequest("base_period_required", fmt.Errorf("basePeriod is required"))
  }
  if len(rows) == 0 {
    return nil, apierr.BadRequest("scores_required", fmt.Errorf("no scores given"))
  }
  for _, row := range rows {
    if strings.TrimSpace(row.QuestionID) == "" {
      return nil, apierr.BadRequest("question_id_required", fmt.Errorf("every score row needs a question_id"))
    }
    if row.Score == nil && !row.Skipped {
      return nil, apierr.BadRequest("score_or_skip_required", fmt.Errorf("question %s year %d has neither a score nor a skip", row.QuestionID, row.YearIndex))
    }
  }

  graph, gErr := ss.graphRepo.GetByID(ctx, nil, graphID)
  if gErr != nil {
    return nil, apierr.Internal(gErr)
  }
  if graph == nil {
    return nil, apierr.NotFound("graph_not_found", fmt.Errorf("graph %s not found", graphID))
  }

  submission := &types.Submission{
    ID:         uuid.New(),
    GraphID:    graphID,
    UserEmail:  userEmail,
    BasePeriod: strings.TrimSpace(basePeriod),
    CreatedAt:  time.Now(),
    Scores: lo.Map(rows, func(row ScoreRow, _ int) types.SubmissionScore {
      return types.SubmissionScore{
        ID:         uuid.New(),
        QuestionID: row.QuestionID,
        YearIndex:  row.YearIndex,
        Score:      row.Score,
        Skipped:    row.Skipped,
      }
    }),
  }
  for i := range submission.Scores {
    submission.Scores[i].SubmissionID = submission.ID
  }

  err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dErr := ss.submissionRepo.DeleteByKey(ctx, tx, graphID, userEmail, submission.BasePeriod); dErr != nil {
      return apierr.Internal(dErr)
    }
    if _, cErr := ss.submissionRepo.Create(ctx, tx, []*types.Submission{submission}); cErr != nil {
      return apierr.Internal(cErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return submission, nil
}

func (ss *scoreService) Get(ctx context.Context, filter repos.SubmissionFilter) ([]*types.Submission, error) {
  submissions, err := ss.submissionRepo.GetFiltered(ctx, nil, filter)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  return submissions, nil
}

func (ss *scoreService) DeleteByID(ctx context.Context, id uuid.UUID) error {
  return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := ss.submissionRepo.DeleteByID(ctx, tx, id); err != nil {
      return apierr.Internal(err)
    }
    return nil
  })
}

func (ss *scoreService) DeleteByKey(ctx context.Context, graphID uuid.UUID, userEmail, basePeriod string) error {
  userEmail = strings.ToLower(strings.TrimSpace(userEmail))
  if userEmail == "" {
    return apierr.BadRequest("email_required", fmt.Errorf("email is required"))
  }
  return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := ss.submissionRepo.DeleteByKey(ctx, tx, graphID, userEmail, strings.TrimSpace(basePeriod)); err != nil {
      return apierr.Internal(err)
    }
    return nil
  })
}
