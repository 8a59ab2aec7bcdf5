package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username  string               `json:"username" bson:"username"`
	Email     string               `json:"email" bson:"email"`
	Thoughts  []primitive.ObjectID `json:"thoughts" bson:"thoughts"`
	Friends   []primitive.ObjectID `json:"friends" bson:"friends"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}

// MarshalJSON adds the derived friendCount field.
func (u User) MarshalJSON() ([]byte, error) {
	type user User
	return json.Marshal(struct {
		user
		FriendCount int `json:"friendCount"`
	}{user(u), len(u.Friends)})
}

// PopulatedUser is a User with its thought and friend references resolved to records.
type PopulatedUser struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	Email     string             `json:"email"`
	Thoughts  []Thought          `json:"thoughts"`
	Friends   []User             `json:"friends"`
	CreatedAt time.Time          `json:"createdAt"`
}

func (u PopulatedUser) MarshalJSON() ([]byte, error) {
	type populatedUser PopulatedUser
	return json.Marshal(struct {
		populatedUser
		FriendCount int `json:"friendCount"`
	}{populatedUser(u), len(u.Friends)})
}

type CreateUserInput struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=64"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

func (in UpdateUserInput) IsEmpty() bool {
	return in.Username == nil && in.Email == nil
}
