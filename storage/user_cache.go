package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"social-server/models"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// cacheClient is the subset of *redis.Client the user cache needs.
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// storeIfCurrentScript sets KEYS[1] only while the version in KEYS[2] still
// equals ARGV[1] (empty when the version key is absent).
const storeIfCurrentScript = `
local v = redis.call('GET', KEYS[2]) or ''
if v ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`

// invalidateScript bumps the version in KEYS[2] and drops KEYS[1] in one step.
const invalidateScript = `
redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[1])
return redis.call('DEL', KEYS[1])
`

// CachedUserRepository is a read-through Redis cache in front of another UserRepository.
// Only single-document reads are cached; every write drops the cached entry.
// Cache failures are logged and never fail the request.
//
// Each user also has a version key bumped by every write. A read only fills the
// cache if the version is unchanged since before it hit the store, so a slow
// read cannot put back a record that a concurrent write already replaced.
type CachedUserRepository struct {
	next   UserRepository
	client cacheClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedUserRepository(next UserRepository, client cacheClient, ttl time.Duration, logger *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func userKey(id primitive.ObjectID) string {
	return "user:" + id.Hex()
}

func userVersionKey(id primitive.ObjectID) string {
	return "user:" + id.Hex() + ":v"
}

func (r *CachedUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	return r.next.FindAll(ctx)
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	raw, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err == nil {
		var user models.User
		decodeErr := bson.Unmarshal(raw, &user)
		if decodeErr == nil {
			return &user, nil
		}
		r.logger.Warn("Failed to decode cached user", zap.String("user_id", id.Hex()), zap.Error(decodeErr))
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("Redis get failed", zap.String("user_id", id.Hex()), zap.Error(err))
	}

	version, err := r.client.Get(ctx, userVersionKey(id)).Result()
	cacheable := err == nil || errors.Is(err, redis.Nil)
	if !cacheable {
		r.logger.Warn("Redis version read failed", zap.String("user_id", id.Hex()), zap.Error(err))
	}

	user, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cacheable {
		r.store(ctx, user, version)
	}
	return user, nil
}

func (r *CachedUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	return r.next.FindByIDs(ctx, ids)
}

func (r *CachedUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.next.Create(ctx, user)
}

func (r *CachedUserRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.UpdateUserInput) (*models.User, error) {
	return r.invalidateAfter(ctx, id, func() (*models.User, error) { return r.next.Update(ctx, id, patch) })
}

func (r *CachedUserRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.invalidateAfter(ctx, id, func() (*models.User, error) { return r.next.Delete(ctx, id) })
}

func (r *CachedUserRepository) AddFriend(ctx context.Context, id, friendID primitive.ObjectID) (*models.User, error) {
	return r.invalidateAfter(ctx, id, func() (*models.User, error) { return r.next.AddFriend(ctx, id, friendID) })
}

func (r *CachedUserRepository) RemoveFriend(ctx context.Context, id, friendID primitive.ObjectID) (*models.User, error) {
	return r.invalidateAfter(ctx, id, func() (*models.User, error) { return r.next.RemoveFriend(ctx, id, friendID) })
}

func (r *CachedUserRepository) PushThought(ctx context.Context, id, thoughtID primitive.ObjectID) (*models.User, error) {
	return r.invalidateAfter(ctx, id, func() (*models.User, error) { return r.next.PushThought(ctx, id, thoughtID) })
}

// invalidateAfter drops the entry even when the write failed, since a failed
// write may still have been applied.
func (r *CachedUserRepository) invalidateAfter(ctx context.Context, id primitive.ObjectID, write func() (*models.User, error)) (*models.User, error) {
	user, err := write()
	keys := []string{userKey(id), userVersionKey(id)}
	if evalErr := r.client.Eval(ctx, invalidateScript, keys, r.ttl.Milliseconds()).Err(); evalErr != nil {
		r.logger.Warn("Redis invalidate failed", zap.String("user_id", id.Hex()), zap.Error(evalErr))
	}
	return user, err
}

// store caches user unless a write bumped its version after version was read.
func (r *CachedUserRepository) store(ctx context.Context, user *models.User, version string) {
	raw, err := bson.Marshal(user)
	if err != nil {
		r.logger.Warn("Failed to encode user for cache", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		return
	}
	keys := []string{userKey(user.ID), userVersionKey(user.ID)}
	stored, err := r.client.Eval(ctx, storeIfCurrentScript, keys, version, raw, r.ttl.Milliseconds()).Int()
	if err != nil {
		r.logger.Warn("Redis set failed", zap.String("user_id", user.ID.Hex()), zap.Error(fmt.Errorf("cache user: %w", err)))
		return
	}
	if stored == 0 {
		r.logger.Debug("Skipped caching user changed during read", zap.String("user_id", user.ID.Hex()))
	}
}
