package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/taskserver/task-api/internal/pkg/metrics"
	"github.com/taskserver/task-api/internal/core/domain"
	"github.com/taskserver/task-api/internal/core/ports"
)

type TaskService struct {
	repo     ports.TaskRepository
	activity ports.ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewTaskService returns a TaskService. activity may be nil to disable the
// audit trail.
func NewTaskService(repo ports.TaskRepository, activity ports.ActivityRecorder, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, activity: activity, logger: logger, now: time.Now}
}

// ListTasks returns the whole collection, unfiltered.
func (s *TaskService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.ListTasks")
	defer span.End()

	tasks, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Ctx(ctx).Err(err).Msg("failed to list tasks")
		return nil, err
	}
	span.SetAttributes(attribute.Int("tasks.count", len(tasks)))
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.GetTask")
	defer span.End()
	span.SetAttributes(attribute.String("task.id", id))

	return s.repo.FindByID(ctx, id)
}

// CreateTask stores fields as a new task once they pass the shape contract.
func (s *TaskService) CreateTask(ctx context.Context, fields domain.TaskFields, actor string) (*domain.InsertResult, error) {
	ctx, span := tracer.Start(ctx, "TaskService.CreateTask")
	defer span.End()

	if err := fields.Validate(); err != nil {
		return nil, err
	}

	id, err := s.repo.Insert(ctx, fields)
	if err != nil {
		s.logger.Error().Ctx(ctx).Err(err).Msg("failed to create task")
		return nil, err
	}

	span.SetAttributes(attribute.String("task.id", id))
	metrics.TaskMutationsTotal.WithLabelValues(string(domain.ActionCreated)).Inc()
	s.record(id, domain.ActionCreated, actor)
	s.logger.Info().Ctx(ctx).Str("task_id", id).Str("actor", actor).Msg("task created")

	return &domain.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// DeleteTask removes the task and returns the deleted count, which is
// always 1 on success.
func (s *TaskService) DeleteTask(ctx context.Context, id, actor string) (int64, error) {
	ctx, span := tracer.Start(ctx, "TaskService.DeleteTask")
	defer span.End()
	span.SetAttributes(attribute.String("task.id", id))

	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.ErrTaskNotFound
	}

	metrics.TaskMutationsTotal.WithLabelValues(string(domain.ActionDeleted)).Inc()
	s.record(id, domain.ActionDeleted, actor)
	s.logger.Info().Ctx(ctx).Str("task_id", id).Str("actor", actor).Msg("task deleted")

	return n, nil
}

// CompleteTask sets status to "complete" regardless of the current value.
// Repeating the call is harmless and reports zero modified documents.
func (s *TaskService) CompleteTask(ctx context.Context, id, actor string) (*ports.StatusUpdateResult, error) {
	ctx, span := tracer.Start(ctx, "TaskService.CompleteTask")
	defer span.End()
	span.SetAttributes(attribute.String("task.id", id))

	matched, modified, err := s.repo.SetStatus(ctx, id, domain.StatusComplete)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, domain.ErrTaskNotFound
	}

	if modified > 0 {
		metrics.TaskMutationsTotal.WithLabelValues(string(domain.ActionCompleted)).Inc()
		s.record(id, domain.ActionCompleted, actor)
		s.logger.Info().Ctx(ctx).Str("task_id", id).Str("actor", actor).Msg("task completed")
	}

	return &ports.StatusUpdateResult{ModifiedCount: modified}, nil
}

func (s *TaskService) record(taskID string, action domain.TaskAction, actor string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(domain.TaskActivity{
		TaskID: taskID,
		Action: action,
		Actor:  actor,
		At:     s.now().UTC(),
	})
}
