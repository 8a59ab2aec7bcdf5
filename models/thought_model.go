package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Thought struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Text      string             `json:"text" bson:"text"`
	Username  string             `json:"username,omitempty" bson:"username,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	Reactions []Reaction         `json:"reactions" bson:"reactions"`
}

// MarshalJSON adds the derived reactionCount field.
func (t Thought) MarshalJSON() ([]byte, error) {
	type thought Thought
	return json.Marshal(struct {
		thought
		ReactionCount int `json:"reactionCount"`
	}{thought(t), len(t.Reactions)})
}

// Reaction only exists embedded in a Thought.
type Reaction struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	ReactionBody string             `json:"reactionBody" bson:"reactionBody"`
	Username     string             `json:"username" bson:"username"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

type CreateThoughtInput struct {
	Text     string `json:"text" validate:"required,min=1,max=280"`
	Username string `json:"username" validate:"omitempty,max=64"`
	UserID   string `json:"userId" validate:"required,mongodb"`
}

type UpdateThoughtInput struct {
	Text     *string `json:"text" validate:"omitempty,min=1,max=280"`
	Username *string `json:"username" validate:"omitempty,max=64"`
}

func (in UpdateThoughtInput) IsEmpty() bool {
	return in.Text == nil && in.Username == nil
}

type ReactionInput struct {
	ReactionBody string `json:"reactionBody" validate:"required,min=1,max=280"`
	Username     string `json:"username" validate:"required,max=64"`
}
