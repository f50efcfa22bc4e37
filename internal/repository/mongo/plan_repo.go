// internal/repository/mongo/plan_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
)

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

func newMongoPlanRepository(db *mongo.Database) *mongoPlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// CreatePlan inserts a new plan. The id is allocated by the caller.
func (r *mongoPlanRepository) CreatePlan(ctx context.Context, plan *domain.Plan) error {
	if plan.ID == "" || plan.OwnerID == "" {
		return errors.New("plan requires id and ownerId")
	}
	_, err := r.collection.InsertOne(ctx, plan)
	return err
}

// GetPlan retrieves a single plan by its ID.
func (r *mongoPlanRepository) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListPlans retrieves all plans of an owner, newest first.
func (r *mongoPlanRepository) ListPlans(ctx context.Context, ownerID string) ([]domain.Plan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.Plan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// UpdatePlan rewrites name, kind and visibility. Status goes through SetPlanStatus.
func (r *mongoPlanRepository) UpdatePlan(ctx context.Context, plan *domain.Plan) error {
	update := bson.M{
		"$set": bson.M{
			"name":       plan.Name,
			"kind":       plan.Kind,
			"visibility": plan.Visibility,
			"updatedAt":  plan.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPlanRepository) SetPlanStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeactivateOtherPlans enforces the single active plan per owner.
func (r *mongoPlanRepository) DeactivateOtherPlans(ctx context.Context, ownerID, exceptID string) error {
	filter := bson.M{
		"ownerId": ownerID,
		"status":  domain.PlanStatusActive,
		"_id":     bson.M{"$ne": exceptID}, // Don't deactivate the plan we're trying to activate
	}
	update := bson.M{"$set": bson.M{"status": domain.PlanStatusInactive, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

func (r *mongoPlanRepository) DeletePlan(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates the plan indexes.
func EnsurePlanIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			// Listing and the active-plan switch both filter by owner and status
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := db.Collection(planCollectionName).Indexes().CreateMany(ctx, indexes)
	return err
}
