package services

import (
	"context"
	"strings"
	"time"

	"social-server/models"
	"social-server/storage"
	"social-server/utils/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserService struct {
	users    storage.UserRepository
	thoughts storage.ThoughtRepository
	logger   *zap.Logger
}

func NewUserService(users storage.UserRepository, thoughts storage.ThoughtRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, thoughts: thoughts, logger: logger}
}

// ListUsers returns every user with thoughts and friends populated.
func (s *UserService) ListUsers(ctx context.Context) ([]models.PopulatedUser, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	populated, err := s.populate(ctx, users)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return populated, nil
}

func (s *UserService) GetUser(ctx context.Context, rawID string) (*models.PopulatedUser, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, errors.UserNotFoundMessage)
	}
	populated, err := s.populate(ctx, []models.User{*user})
	if err != nil {
		return nil, errors.BadRequest(err)
	}
	return &populated[0], nil
}

func (s *UserService) CreateUser(ctx context.Context, in models.CreateUserInput) (*models.User, error) {
	user := &models.User{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.TrimSpace(in.Email),
		Thoughts:  []primitive.ObjectID{},
		Friends:   []primitive.ObjectID{},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, errors.BadRequest(err)
	}
	s.logger.Info("User created", zap.String("user_id", user.ID.Hex()), zap.String("username", user.Username))
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, rawID string, in models.UpdateUserInput) (*models.User, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	if in.Username != nil {
		trimmed := strings.TrimSpace(*in.Username)
		in.Username = &trimmed
	}
	if in.Email != nil {
		trimmed := strings.TrimSpace(*in.Email)
		in.Email = &trimmed
	}
	user, err := s.users.Update(ctx, id, in)
	if err != nil {
		return nil, lookupError(err, errors.UserNotFoundMessage)
	}
	return user, nil
}

// DeleteUser removes the user and then every thought in its list. The second
// delete is not atomic with the first; if it fails the user is already gone.
func (s *UserService) DeleteUser(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	user, err := s.users.Delete(ctx, id)
	if err != nil {
		return lookupError(err, errors.UserNotFoundMessage)
	}

	deleted, err := s.thoughts.DeleteMany(ctx, user.Thoughts)
	if err != nil {
		s.logger.Error("User deleted but thought cascade failed", zap.String("user_id", id.Hex()), zap.Error(err))
		return errors.BadRequest(err)
	}
	s.logger.Info("User deleted", zap.String("user_id", id.Hex()), zap.Int64("thoughts_deleted", deleted))
	return nil
}

// AddFriend does not check that the friend exists.
func (s *UserService) AddFriend(ctx context.Context, rawUserID, rawFriendID string) (*models.User, error) {
	userID, friendID, err := parseIDPair(rawUserID, rawFriendID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.AddFriend(ctx, userID, friendID)
	if err != nil {
		return nil, lookupError(err, errors.UserNotFoundMessage)
	}
	return user, nil
}

func (s *UserService) RemoveFriend(ctx context.Context, rawUserID, rawFriendID string) (*models.User, error) {
	userID, friendID, err := parseIDPair(rawUserID, rawFriendID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.RemoveFriend(ctx, userID, friendID)
	if err != nil {
		return nil, lookupError(err, errors.UserNotFoundMessage)
	}
	return user, nil
}

func parseIDPair(a, b string) (primitive.ObjectID, primitive.ObjectID, error) {
	first, err := parseID(a)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	second, err := parseID(b)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return first, second, nil
}

// populate resolves thought and friend references with one batched query per
// collection. References to missing documents are dropped; order is kept.
func (s *UserService) populate(ctx context.Context, users []models.User) ([]models.PopulatedUser, error) {
	var thoughtIDs, friendIDs []primitive.ObjectID
	for _, u := range users {
		thoughtIDs = append(thoughtIDs, u.Thoughts...)
		friendIDs = append(friendIDs, u.Friends...)
	}

	thoughts, err := s.thoughts.FindByIDs(ctx, thoughtIDs)
	if err != nil {
		return nil, err
	}
	friends, err := s.users.FindByIDs(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	thoughtsByID := make(map[primitive.ObjectID]models.Thought, len(thoughts))
	for _, t := range thoughts {
		thoughtsByID[t.ID] = t
	}
	friendsByID := make(map[primitive.ObjectID]models.User, len(friends))
	for _, f := range friends {
		friendsByID[f.ID] = f
	}

	out := make([]models.PopulatedUser, 0, len(users))
	for _, u := range users {
		p := models.PopulatedUser{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Thoughts:  []models.Thought{},
			Friends:   []models.User{},
			CreatedAt: u.CreatedAt,
		}
		for _, id := range u.Thoughts {
			if t, ok := thoughtsByID[id]; ok {
				p.Thoughts = append(p.Thoughts, t)
			}
		}
		for _, id := range u.Friends {
			if f, ok := friendsByID[id]; ok {
				p.Friends = append(p.Friends, f)
			}
		}
		out = append(out, p)
	}
	return out, nil
}
