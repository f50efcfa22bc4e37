package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

const exerciseCollectionName = "exercises"

// mongoExerciseCatalog implements repository.ExerciseCatalog. The collection is
// seeded outside the application and only read here.
type mongoExerciseCatalog struct {
	collection *mongo.Collection
}

func newMongoExerciseCatalog(db *mongo.Database) *mongoExerciseCatalog {
	return &mongoExerciseCatalog{
		collection: db.Collection(exerciseCollectionName),
	}
}

// ExercisesByIDs looks the ids up in one query. Unknown ids are omitted.
func (r *mongoExerciseCatalog) ExercisesByIDs(ctx context.Context, ids []int64) (map[int64]domain.Exercise, error) {
	out := make(map[int64]domain.Exercise, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	for _, e := range exercises {
		out[e.ID] = e
	}
	return out, nil
}

func (r *mongoExerciseCatalog) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}
