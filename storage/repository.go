package storage

import (
	"context"
	"errors"

	"social-server/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a lookup by id matches no document.
var ErrNotFound = errors.New("document not found")

// UserRepository is the data access contract for the users collection.
// Every method returning a *models.User returns the document as it is after the write.
type UserRepository interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// FindByIDs returns the matching users in no particular order; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, patch models.UpdateUserInput) (*models.User, error)
	// Delete removes the user and returns the removed document.
	Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	AddFriend(ctx context.Context, id, friendID primitive.ObjectID) (*models.User, error)
	RemoveFriend(ctx context.Context, id, friendID primitive.ObjectID) (*models.User, error)
	PushThought(ctx context.Context, id, thoughtID primitive.ObjectID) (*models.User, error)
}

// ThoughtRepository is the data access contract for the thoughts collection.
type ThoughtRepository interface {
	FindAll(ctx context.Context) ([]models.Thought, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Thought, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Thought, error)
	Create(ctx context.Context, thought *models.Thought) error
	Update(ctx context.Context, id primitive.ObjectID, patch models.UpdateThoughtInput) (*models.Thought, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Thought, error)
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	PushReaction(ctx context.Context, id primitive.ObjectID, reaction models.Reaction) (*models.Thought, error)
	// PullReaction succeeds even when no reaction matches reactionID.
	PullReaction(ctx context.Context, id, reactionID primitive.ObjectID) (*models.Thought, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ UserRepository    = (*MongoUserRepository)(nil)
	_ ThoughtRepository = (*MongoThoughtRepository)(nil)
	_ UserRepository    = (*MemoryUserRepository)(nil)
	_ ThoughtRepository = (*MemoryThoughtRepository)(nil)
	_ UserRepository    = (*CachedUserRepository)(nil)
	_ Pinger            = (*MongoStore)(nil)
	_ Pinger            = (*MemoryStore)(nil)
)
