package services

import (
  "context"
  "errors"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/raceautoindia/race-analytics-backend/internal/apierr"
  "github.com/raceautoindia/race-analytics-backend/internal/clients/clustering"
  "github.com/raceautoindia/race-analytics-backend/internal/logger"
  "github.com/raceautoindia/race-analytics-backend/internal/repos"
  "github.com/raceautoindia/race-analytics-backend/internal/types"
)

type MLService interface {
  Recompute(ctx context.Context, graphID uuid.UUID) (*types.MLResult, error)
  Results(ctx context.Context, graphID uuid.UUID, modelVersion string) ([]*types.MLResult, error)
  Logs(ctx context.Context, graphID *uuid.UUID, limit int) ([]*types.ScoreRangeLog, error)
}

type mlService struct {
  db               *gorm.DB
  log              *logger.Logger
  submissionRepo   repos.SubmissionRepo
  mlResultRepo     repos.MLResultRepo
  scoreRangeLogs   repos.ScoreRangeLogRepo
  clusteringClient clustering.Client
  modelVersion     string
  timeout          time.Duration
}

func NewMLService(
  db *gorm.DB,
  log *logger.Logger,
  submissionRepo repos.SubmissionRepo,
  mlResultRepo repos.MLResultRepo,
  scoreRangeLogs repos.ScoreRangeLogRepo,
  clusteringClient clustering.Client,
  modelVersion string,
  timeout time.Duration,
) MLService {
  serviceLog := log.With("service", "MLService")
  if timeout <= 0 {
    timeout = 60 * time.Second
  }
  if modelVersion == "" {
    modelVersion = "v1"
  }
  return &mlService{
    db:               db,
    log:              serviceLog,
    submissionRepo:   submissionRepo,
    mlResultRepo:     mlResultRepo,
    scoreRangeLogs:   scoreRangeLogs,
    clusteringClient: clusteringClient,
    modelVersion:     modelVersion,
    timeout:          timeout,
  }
}

func (ms *mlService) writeLog(ctx context.Context, entry *types.ScoreRangeLog) {
  entry.ID = uuid.New()
  entry.CreatedAt = time.Now()
  if _, err := ms.scoreRangeLogs.Create(ctx, nil, []*types.ScoreRangeLog{entry}); err != nil {
    ms.log.Error("Failed to write score range log", "graph_id", entry.GraphID, "status", entry.Status, "error", err)
  }
}

// Recompute forwards a graph's score rows to the clustering service. The
// outbound call carries its own 60 second deadline; timeout, transport
// failure and a non-2xx remote status land in the audit log under distinct
// statuses.
func (ms *mlService) Recompute(ctx context.Context, graphID uuid.UUID) (*types.MLResult, error) {
  if ms.clusteringClient == nil {
    return nil, apierr.Upstream("ml_unavailable", fmt.Errorf("clustering service is not configured"))
  }

  submissions, sErr := ms.submissionRepo.GetFiltered(ctx, nil, repos.SubmissionFilter{GraphID: &graphID})
  if sErr != nil {
    return nil, apierr.Internal(sErr)
  }
  if len(submissions) == 0 {
    return nil, apierr.NotFound("no_submissions", fmt.Errorf("graph %s has no submissions to cluster", graphID))
  }

  var rows []clustering.ScoreRow
  for _, submission := range submissions {
    for _, score := range submission.Scores {
      rows = append(rows, clustering.ScoreRow{
        UserEmail:  submission.UserEmail,
        QuestionID: score.QuestionID,
        YearIndex:  score.YearIndex,
        Score:      score.Score,
        Skipped:    score.Skipped,
      })
    }
  }

  ms.writeLog(ctx, &types.ScoreRangeLog{
    GraphID:      graphID,
    ModelVersion: ms.modelVersion,
    Status:       types.MLStatusStarted,
    RowCount:     len(rows),
  })

  callCtx, cancel := context.WithTimeout(ctx, ms.timeout)
  defer cancel()

  started := time.Now()
  result, httpStatus, err := ms.clusteringClient.Recompute(callCtx, clustering.RecomputePayload{
    GraphID:      graphID.String(),
    ModelVersion: ms.modelVersion,
    Scores:       rows,
  })
  duration := time.Since(started).Milliseconds()

  if err != nil {
    logEntry := &types.ScoreRangeLog{
      GraphID:      graphID,
      ModelVersion: ms.modelVersion,
      DurationMS:   duration,
      RowCount:     len(rows),
      Message:      err.Error(),
    }
    var httpErr *clustering.HTTPError
    switch {
    case errors.Is(err, context.DeadlineExceeded):
      logEntry.Status = types.MLStatusTimeout
      ms.writeLog(ctx, logEntry)
      return nil, apierr.UpstreamTimeout("ml_timeout", fmt.Errorf("clustering service timed out after %s", ms.timeout))
    case errors.As(err, &httpErr):
      logEntry.Status = types.MLStatusError
      logEntry.HTTPStatus = &httpErr.StatusCode
      ms.writeLog(ctx, logEntry)
      return nil, apierr.Upstream("ml_error", fmt.Errorf("clustering service failed"))
    default:
      logEntry.Status = types.MLStatusError
      ms.writeLog(ctx, logEntry)
      return nil, apierr.Upstream("ml_error", fmt.Errorf("clustering service unreachable"))
    }
  }

  mlResult := &types.MLResult{
    ID:           uuid.New(),
    GraphID:      graphID,
    ModelVersion: ms.modelVersion,
    Result:       datatypes.JSON(result),
    ComputedAt:   time.Now(),
  }
  if uErr := ms.mlResultRepo.Upsert(ctx, nil, mlResult); uErr != nil {
    return nil, apierr.Internal(uErr)
  }

  ms.writeLog(ctx, &types.ScoreRangeLog{
    GraphID:      graphID,
    ModelVersion: ms.modelVersion,
    Status:       types.MLStatusSuccess,
    HTTPStatus:   &httpStatus,
    DurationMS:   duration,
    RowCount:     len(rows),
  })
  return mlResult, nil
}

func (ms *mlService) Results(ctx context.Context, graphID uuid.UUID, modelVersion string) ([]*types.MLResult, error) {
  results, err := ms.mlResultRepo.GetByGraph(ctx, nil, graphID, modelVersion)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  return results, nil
}

func (ms *mlService) Logs(ctx context.Context, graphID *uuid.UUID, limit int) ([]*types.ScoreRangeLog, error) {
  logs, err := ms.scoreRangeLogs.List(ctx, nil, graphID, limit)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  return logs, nil
}
