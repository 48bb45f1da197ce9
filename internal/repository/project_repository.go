package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/membercat-studios/membercat-bot/internal/domain"
)

// ProjectRepository persists the Modrinth update tracker.
type ProjectRepository interface {
	// Get returns the tracker document, or an empty tracker when none
	// exists yet.
	Get(ctx context.Context) (*domain.ProjectTracker, error)
	// Track registers a newly discovered project without announcing it.
	Track(ctx context.Context, project domain.TrackedProject) error
	// SetLastUpdated advances a tracked project's update watermark.
	SetLastUpdated(ctx context.Context, projectID string, lastUpdated int64) error
	// SetTotal records the current project count.
	SetTotal(ctx context.Context, total int) error
}

type projectRepository struct {
	coll *mongo.Collection
}

// NewProjectRepository instantiates the repository over the projects
// collection.
func NewProjectRepository(db *mongo.Database) ProjectRepository {
	return &projectRepository{coll: db.Collection("projects")}
}

func (r *projectRepository) Get(ctx context.Context) (*domain.ProjectTracker, error) {
	var tracker domain.ProjectTracker
	err := r.coll.FindOne(ctx, bson.M{}).Decode(&tracker)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &domain.ProjectTracker{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &tracker, nil
}

func (r *projectRepository) Track(ctx context.Context, project domain.TrackedProject) error {
	update := bson.M{"$push": bson.M{"projects": project}}
	_, err := r.coll.UpdateOne(ctx, bson.M{}, update, options.Update().SetUpsert(true))
	return err
}

func (r *projectRepository) SetLastUpdated(ctx context.Context, projectID string, lastUpdated int64) error {
	filter := bson.M{"projects.id": projectID}
	update := bson.M{"$set": bson.M{"projects.$.lastUpdated": lastUpdated}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepository) SetTotal(ctx context.Context, total int) error {
	update := bson.M{"$set": bson.M{"totalProjects": total}}
	_, err := r.coll.UpdateOne(ctx, bson.M{}, update, options.Update().SetUpsert(true))
	return err
}
