package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// Multi-document transactions need a replica set or sharded cluster.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Connect succeeds lazily; ping the primary so an unreachable server fails here.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// repos groups the collection repositories. Every method takes its context
// from the caller, so inside RunInTx the session context carries the transaction.
type repos struct {
	*mongoPlanRepository
	*mongoStructureRepository
	*mongoSessionRepository
}

// Store is the MongoDB backed repository.Store and repository.ExerciseCatalog.
type Store struct {
	repos
	*mongoExerciseCatalog
	client *mongo.Client
	db     *mongo.Database
}

var (
	_ repository.Store           = (*Store)(nil)
	_ repository.ExerciseCatalog = (*Store)(nil)
	_ repository.Tx              = repos{}
)

// NewStore wires the repositories on top of db. The client is kept to start sessions.
func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		repos: repos{
			mongoPlanRepository:      newMongoPlanRepository(db),
			mongoStructureRepository: newMongoStructureRepository(db),
			mongoSessionRepository:   newMongoSessionRepository(db),
		},
		mongoExerciseCatalog: newMongoExerciseCatalog(db),
		client:               client,
		db:                   db,
	}
}

// EnsureIndexes creates every index the store relies on. Call during startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"plans", EnsurePlanIndexes},
		{"structure", EnsureStructureIndexes},
		{"sessions", EnsureSessionIndexes},
	}
	for _, step := range steps {
		if err := step.fn(ctx, s.db); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", step.name, err)
		}
	}
	return nil
}

// RunInTx runs fn inside one MongoDB transaction. The transaction is started and
// committed by hand so a failed commit is reported to the caller, never retried.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.Background())

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sess.StartTransaction(); err != nil {
			return fmt.Errorf("start transaction: %w", err)
		}

		if err := fn(sc, s.repos); err != nil {
			if abortErr := sess.AbortTransaction(context.Background()); abortErr != nil {
				logrus.WithError(abortErr).Warn("failed to abort mongo transaction")
			}
			return err
		}

		if err := sess.CommitTransaction(sc); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes every collection of the store. Used by tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}
