// internal/repository/mongo/session_repo.go
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
	sessionCollectionName   = "sessions"
	setRecordCollectionName = "set_records"
)

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	sessions   *mongo.Collection
	setRecords *mongo.Collection
}

func newMongoSessionRepository(db *mongo.Database) *mongoSessionRepository {
	return &mongoSessionRepository{
		sessions:   db.Collection(sessionCollectionName),
		setRecords: db.Collection(setRecordCollectionName),
	}
}

func (r *mongoSessionRepository) InsertSession(ctx context.Context, session *domain.Session) error {
	if session.ID == "" || session.OwnerID == "" {
		return errors.New("session requires id and ownerId")
	}
	_, err := r.sessions.InsertOne(ctx, session)
	return err
}

func (r *mongoSessionRepository) InsertSetRecords(ctx context.Context, records []domain.SetRecord) error {
	return insertAll(ctx, r.setRecords, records)
}

func (r *mongoSessionRepository) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	if err := r.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListSessions retrieves the owner's sessions with the given status, oldest first.
func (r *mongoSessionRepository) ListSessions(ctx context.Context, ownerID string, status domain.SessionStatus) ([]domain.Session, error) {
	return findSorted[domain.Session](ctx, r.sessions,
		bson.M{"ownerId": ownerID, "status": status},
		bson.D{{Key: "startedAt", Value: 1}, {Key: "_id", Value: 1}})
}

func (r *mongoSessionRepository) SetRecordsBySessions(ctx context.Context, sessionIDs []string) ([]domain.SetRecord, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	return findSorted[domain.SetRecord](ctx, r.setRecords,
		bson.M{"sessionId": bson.M{"$in": sessionIDs}},
		bson.D{{Key: "sessionId", Value: 1}, {Key: "exerciseId", Value: 1}, {Key: "setIndex", Value: 1}})
}

// DetachSessionsFromDays unsets dayId so the sessions stay as ad-hoc history.
func (r *mongoSessionRepository) DetachSessionsFromDays(ctx context.Context, dayIDs []string) error {
	if len(dayIDs) == 0 {
		return nil
	}
	_, err := r.sessions.UpdateMany(ctx,
		bson.M{"dayId": bson.M{"$in": dayIDs}},
		bson.M{"$unset": bson.M{"dayId": ""}},
	)
	return err
}

// EnsureSessionIndexes creates the session and set record indexes.
func EnsureSessionIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(sessionCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}, {Key: "startedAt", Value: 1}}, Options: options.Index()},
		{Keys: bson.D{{Key: "dayId", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(setRecordCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "exerciseId", Value: 1}, {Key: "setIndex", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
