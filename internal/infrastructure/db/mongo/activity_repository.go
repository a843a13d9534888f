package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskserver/task-api/internal/core/domain"
	"github.com/taskserver/task-api/internal/core/ports"
)

const collectionActivity = "task_activity"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

type activityDoc struct {
	TaskID string    `bson:"task_id"`
	Action string    `bson:"action"`
	Actor  string    `bson:"actor,omitempty"`
	At     time.Time `bson:"at"`
}

// Insert persists an entry to the task_activity audit collection.
func (r *ActivityRepository) Insert(ctx context.Context, a *domain.TaskActivity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, activityDoc{
		TaskID: a.TaskID,
		Action: string(a.Action),
		Actor:  a.Actor,
		At:     a.At.UTC(),
	})
	return err
}

// ListByTask returns the entries for one task, oldest first.
func (r *ActivityRepository) ListByTask(ctx context.Context, taskID string) ([]domain.TaskActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"task_id": taskID}, opts)
	if err != nil {
		return nil, err
	}

	var docs []activityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.TaskActivity, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.TaskActivity{
			TaskID: d.TaskID,
			Action: domain.TaskAction(d.Action),
			Actor:  d.Actor,
			At:     d.At.UTC(),
		})
	}
	return out, nil
}

// EnsureIndexes creates the lookup index on task_id.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "task_id", Value: 1}, {Key: "at", Value: 1}},
	})
	return err
}
