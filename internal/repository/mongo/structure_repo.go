// internal/repository/mongo/structure_repo.go
package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
)

const (
	weekCollectionName = "weeks"
	dayCollectionName  = "days"
	slotCollectionName = "exercise_slots"
)

// mongoStructureRepository implements repository.StructureRepository over
// three flat collections. Children point at their parent by id.
type mongoStructureRepository struct {
	weeks *mongo.Collection
	days  *mongo.Collection
	slots *mongo.Collection
}

func newMongoStructureRepository(db *mongo.Database) *mongoStructureRepository {
	return &mongoStructureRepository{
		weeks: db.Collection(weekCollectionName),
		days:  db.Collection(dayCollectionName),
		slots: db.Collection(slotCollectionName),
	}
}

func insertAll[T any](ctx context.Context, coll *mongo.Collection, items []T) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

func (r *mongoStructureRepository) InsertWeeks(ctx context.Context, weeks []domain.Week) error {
	return insertAll(ctx, r.weeks, weeks)
}

func (r *mongoStructureRepository) InsertDays(ctx context.Context, days []domain.Day) error {
	return insertAll(ctx, r.days, days)
}

func (r *mongoStructureRepository) InsertSlots(ctx context.Context, slots []domain.ExerciseSlot) error {
	return insertAll(ctx, r.slots, slots)
}

// distinctIDs returns the _id of every document matching filter.
func distinctIDs(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]string, error) {
	values, err := coll.Distinct(ctx, "_id", filter)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *mongoStructureRepository) WeekIDsByPlan(ctx context.Context, planID string) ([]string, error) {
	return distinctIDs(ctx, r.weeks, bson.M{"planId": planID})
}

func (r *mongoStructureRepository) DayIDsByWeeks(ctx context.Context, weekIDs []string) ([]string, error) {
	if len(weekIDs) == 0 {
		return nil, nil
	}
	return distinctIDs(ctx, r.days, bson.M{"weekId": bson.M{"$in": weekIDs}})
}

// findSorted decodes every document matching filter, ordered by sort.
func findSorted[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []T
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoStructureRepository) WeeksByPlan(ctx context.Context, planID string) ([]domain.Week, error) {
	return findSorted[domain.Week](ctx, r.weeks, bson.M{"planId": planID},
		bson.D{{Key: "weekNumber", Value: 1}})
}

func (r *mongoStructureRepository) DaysByWeeks(ctx context.Context, weekIDs []string) ([]domain.Day, error) {
	if len(weekIDs) == 0 {
		return nil, nil
	}
	return findSorted[domain.Day](ctx, r.days, bson.M{"weekId": bson.M{"$in": weekIDs}},
		bson.D{{Key: "dayOfWeek", Value: 1}, {Key: "weekId", Value: 1}})
}

func (r *mongoStructureRepository) SlotsByDays(ctx context.Context, dayIDs []string) ([]domain.ExerciseSlot, error) {
	if len(dayIDs) == 0 {
		return nil, nil
	}
	return findSorted[domain.ExerciseSlot](ctx, r.slots, bson.M{"dayId": bson.M{"$in": dayIDs}},
		bson.D{{Key: "exerciseOrder", Value: 1}, {Key: "dayId", Value: 1}})
}

func (r *mongoStructureRepository) GetWeek(ctx context.Context, id string) (*domain.Week, error) {
	var week domain.Week
	if err := r.weeks.FindOne(ctx, bson.M{"_id": id}).Decode(&week); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &week, nil
}

func (r *mongoStructureRepository) GetDay(ctx context.Context, id string) (*domain.Day, error) {
	var day domain.Day
	if err := r.days.FindOne(ctx, bson.M{"_id": id}).Decode(&day); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

func deleteIn(ctx context.Context, coll *mongo.Collection, field string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := coll.DeleteMany(ctx, bson.M{field: bson.M{"$in": ids}})
	return err
}

func (r *mongoStructureRepository) DeleteSlotsByDays(ctx context.Context, dayIDs []string) error {
	return deleteIn(ctx, r.slots, "dayId", dayIDs)
}

func (r *mongoStructureRepository) DeleteDaysByWeeks(ctx context.Context, weekIDs []string) error {
	return deleteIn(ctx, r.days, "weekId", weekIDs)
}

func (r *mongoStructureRepository) DeleteWeeks(ctx context.Context, weekIDs []string) error {
	return deleteIn(ctx, r.weeks, "_id", weekIDs)
}

// EnsureStructureIndexes creates the parent-id indexes used by the range reads.
// The unique indexes reject duplicate ordinals the way the SQLite schema does.
func EnsureStructureIndexes(ctx context.Context, db *mongo.Database) error {
	models := map[string][]mongo.IndexModel{
		weekCollectionName: {
			{Keys: bson.D{{Key: "planId", Value: 1}, {Key: "weekNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		dayCollectionName: {
			{Keys: bson.D{{Key: "weekId", Value: 1}, {Key: "dayOfWeek", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		slotCollectionName: {
			{Keys: bson.D{{Key: "dayId", Value: 1}, {Key: "exerciseOrder", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for name, indexes := range models {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return err
		}
	}
	return nil
}
