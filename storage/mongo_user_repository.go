package storage

import (
	"context"

	"social-server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoUserRepository struct {
	collection *mongo.Collection
}

func (r *MongoUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoUserRepository) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, translate(err, "find users")
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, translate(err, "decode users")
	}
	return users, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return translate(err, "insert user")
	}
	return nil
}

func (r *MongoUserRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.UpdateUserInput) (*models.User, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}
	set := bson.M{}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set}, "update user")
}

func (r *MongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err, "delete user")
	}
	return &user, nil
}

func (r *MongoUserRepository) AddFriend(ctx context.Context, id, friendID primitive.ObjectID) (*models.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$addToSet": bson.M{"friends": friendID}}, "add friend")
}

func (r *MongoUserRepository) RemoveFriend(ctx context.Context, id, friendID primitive.ObjectID) (*models.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$pull": bson.M{"friends": friendID}}, "remove friend")
}

func (r *MongoUserRepository) PushThought(ctx context.Context, id, thoughtID primitive.ObjectID) (*models.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$push": bson.M{"thoughts": thoughtID}}, "push thought")
}

func (r *MongoUserRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M, op string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, afterUpdate()).Decode(&user); err != nil {
		return nil, translate(err, op)
	}
	return &user, nil
}
