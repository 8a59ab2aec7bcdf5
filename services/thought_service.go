package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"social-server/models"
	"social-server/storage"
	"social-server/utils/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ThoughtService struct {
	thoughts storage.ThoughtRepository
	users    storage.UserRepository
	logger   *zap.Logger
}

func NewThoughtService(thoughts storage.ThoughtRepository, users storage.UserRepository, logger *zap.Logger) *ThoughtService {
	return &ThoughtService{thoughts: thoughts, users: users, logger: logger}
}

func (s *ThoughtService) ListThoughts(ctx context.Context) ([]models.Thought, error) {
	thoughts, err := s.thoughts.FindAll(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return thoughts, nil
}

func (s *ThoughtService) GetThought(ctx context.Context, rawID string) (*models.Thought, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	thought, err := s.thoughts.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, errors.ThoughtNotFoundMessage)
	}
	return thought, nil
}

// CreateThought inserts the thought and then pushes its id onto the owner's list.
// The two writes are independent: if the push fails the thought stays and the
// failure is reported. A push to a user that does not exist is not an error.
func (s *ThoughtService) CreateThought(ctx context.Context, in models.CreateThoughtInput) (*models.Thought, error) {
	userID, err := parseID(in.UserID)
	if err != nil {
		return nil, err
	}

	thought := &models.Thought{
		Text:      in.Text,
		Username:  strings.TrimSpace(in.Username),
		UserID:    userID,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Reactions: []models.Reaction{},
	}
	if err := s.thoughts.Create(ctx, thought); err != nil {
		return nil, errors.BadRequest(err)
	}

	if _, err := s.users.PushThought(ctx, userID, thought.ID); err != nil {
		if !stderrors.Is(err, storage.ErrNotFound) {
			s.logger.Error("Thought created but owner update failed",
				zap.String("thought_id", thought.ID.Hex()), zap.String("user_id", userID.Hex()), zap.Error(err))
			return nil, errors.BadRequest(err)
		}
		s.logger.Warn("Thought created for unknown user",
			zap.String("thought_id", thought.ID.Hex()), zap.String("user_id", userID.Hex()))
	}

	s.logger.Info("Thought created", zap.String("thought_id", thought.ID.Hex()), zap.String("user_id", userID.Hex()))
	return thought, nil
}

func (s *ThoughtService) UpdateThought(ctx context.Context, rawID string, in models.UpdateThoughtInput) (*models.Thought, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	if in.Username != nil {
		trimmed := strings.TrimSpace(*in.Username)
		in.Username = &trimmed
	}
	thought, err := s.thoughts.Update(ctx, id, in)
	if err != nil {
		return nil, lookupError(err, errors.ThoughtNotFoundMessage)
	}
	return thought, nil
}

// DeleteThought leaves the id in the owner's thought list.
func (s *ThoughtService) DeleteThought(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if _, err := s.thoughts.Delete(ctx, id); err != nil {
		return lookupError(err, errors.ThoughtNotFoundMessage)
	}
	s.logger.Info("Thought deleted", zap.String("thought_id", id.Hex()))
	return nil
}

func (s *ThoughtService) AddReaction(ctx context.Context, rawThoughtID string, in models.ReactionInput) (*models.Thought, error) {
	thoughtID, err := parseID(rawThoughtID)
	if err != nil {
		return nil, err
	}
	reaction := models.Reaction{
		ID:           primitive.NewObjectID(),
		ReactionBody: in.ReactionBody,
		Username:     strings.TrimSpace(in.Username),
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	thought, err := s.thoughts.PushReaction(ctx, thoughtID, reaction)
	if err != nil {
		return nil, lookupError(err, errors.ThoughtNotFoundMessage)
	}
	return thought, nil
}

// RemoveReaction returns the thought unchanged when no reaction matches.
func (s *ThoughtService) RemoveReaction(ctx context.Context, rawThoughtID, rawReactionID string) (*models.Thought, error) {
	thoughtID, err := parseID(rawThoughtID)
	if err != nil {
		return nil, err
	}
	reactionID, err := parseID(rawReactionID)
	if err != nil {
		return nil, err
	}
	thought, err := s.thoughts.PullReaction(ctx, thoughtID, reactionID)
	if err != nil {
		return nil, lookupError(err, errors.ThoughtNotFoundMessage)
	}
	return thought, nil
}
