package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskserver/task-api/internal/core/domain"
	"github.com/taskserver/task-api/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Process persists a single activity entry.
func (s *activityService) Process(ctx context.Context, a domain.TaskActivity) error {
	if err := s.repo.Insert(ctx, &a); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	s.log.Debug().Ctx(ctx).
		Str("task_id", a.TaskID).
		Str("action", string(a.Action)).
		Msg("activity recorded")
	return nil
}

// History returns the audit trail of one task, oldest first.
func (s *activityService) History(ctx context.Context, taskID string) ([]domain.TaskActivity, error) {
	if !domain.ValidTaskID(taskID) {
		return nil, domain.ErrInvalidTaskID
	}

	ctx, span := tracer.Start(ctx, "ActivityService.History")
	defer span.End()

	entries, err := s.repo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.TaskActivity{}
	}
	return entries, nil
}
