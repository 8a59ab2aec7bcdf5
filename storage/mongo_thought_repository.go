package storage

import (
	"context"

	"social-server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoThoughtRepository struct {
	collection *mongo.Collection
}

func (r *MongoThoughtRepository) FindAll(ctx context.Context) ([]models.Thought, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoThoughtRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Thought, error) {
	var thought models.Thought
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&thought); err != nil {
		return nil, translate(err, "find thought")
	}
	return &thought, nil
}

func (r *MongoThoughtRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Thought, error) {
	if len(ids) == 0 {
		return []models.Thought{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoThoughtRepository) find(ctx context.Context, filter bson.M) ([]models.Thought, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, translate(err, "find thoughts")
	}
	defer cursor.Close(ctx)

	thoughts := []models.Thought{}
	if err := cursor.All(ctx, &thoughts); err != nil {
		return nil, translate(err, "decode thoughts")
	}
	return thoughts, nil
}

func (r *MongoThoughtRepository) Create(ctx context.Context, thought *models.Thought) error {
	if thought.ID.IsZero() {
		thought.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, thought); err != nil {
		return translate(err, "insert thought")
	}
	return nil
}

func (r *MongoThoughtRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.UpdateThoughtInput) (*models.Thought, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}
	set := bson.M{}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set}, "update thought")
}

func (r *MongoThoughtRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Thought, error) {
	var thought models.Thought
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&thought); err != nil {
		return nil, translate(err, "delete thought")
	}
	return &thought, nil
}

func (r *MongoThoughtRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, translate(err, "delete thoughts")
	}
	return result.DeletedCount, nil
}

func (r *MongoThoughtRepository) PushReaction(ctx context.Context, id primitive.ObjectID, reaction models.Reaction) (*models.Thought, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$push": bson.M{"reactions": reaction}}, "push reaction")
}

func (r *MongoThoughtRepository) PullReaction(ctx context.Context, id, reactionID primitive.ObjectID) (*models.Thought, error) {
	update := bson.M{"$pull": bson.M{"reactions": bson.M{"_id": reactionID}}}
	return r.findOneAndUpdate(ctx, id, update, "pull reaction")
}

func (r *MongoThoughtRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M, op string) (*models.Thought, error) {
	var thought models.Thought
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, afterUpdate()).Decode(&thought); err != nil {
		return nil, translate(err, op)
	}
	return &thought, nil
}
