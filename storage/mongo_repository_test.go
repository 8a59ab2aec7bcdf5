package storage

import (
	"context"
	"testing"
	"time"

	"social-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// toDoc round-trips v through bson so mocked replies carry the stored field names.
func toDoc(t testing.TB, v any) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func ns(mt *mtest.T) string {
	return mt.DB.Name() + "." + mt.Coll.Name()
}

// noMatch is a findAndModify reply for a filter that matched nothing.
func noMatch() bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil})
}

func objectIDs(t testing.TB, value bson.RawValue) []primitive.ObjectID {
	t.Helper()
	values, err := value.Array().Values()
	require.NoError(t, err)
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		id, ok := v.ObjectIDOK()
		require.True(t, ok, "expected object id, got %s", v.Type)
		ids = append(ids, id)
	}
	return ids
}

func TestMongoUserRepository(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("find by id not found maps to ErrNotFound", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.FindByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("find by id decodes the document", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		user := models.User{
			ID:        primitive.NewObjectID(),
			Username:  "amiko",
			Email:     "amiko@example.com",
			Thoughts:  []primitive.ObjectID{primitive.NewObjectID()},
			Friends:   []primitive.ObjectID{primitive.NewObjectID()},
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, toDoc(mt, user)))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(mt, err)
		assert.Equal(mt, user, *found)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		assert.Equal(mt, user.ID, evt.Command.Lookup("filter", "_id").ObjectID())
	})

	mt.Run("find by ids filters with $in", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		a := models.User{ID: primitive.NewObjectID(), Username: "a", Email: "a@example.com"}
		b := models.User{ID: primitive.NewObjectID(), Username: "b", Email: "b@example.com"}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, toDoc(mt, a), toDoc(mt, b)))

		users, err := repo.FindByIDs(ctx, []primitive.ObjectID{a.ID, b.ID})
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, "a", users[0].Username)
		assert.Equal(mt, "b", users[1].Username)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, []primitive.ObjectID{a.ID, b.ID}, objectIDs(mt, evt.Command.Lookup("filter", "_id", "$in")))
	})

	mt.Run("find by ids with no ids skips the query", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}

		users, err := repo.FindByIDs(ctx, nil)
		require.NoError(mt, err)
		assert.Empty(mt, users)
		assert.NotNil(mt, users)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("empty patch reads the current record", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		user := models.User{ID: primitive.NewObjectID(), Username: "amiko", Email: "amiko@example.com"}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, toDoc(mt, user)))

		found, err := repo.Update(ctx, user.ID, models.UpdateUserInput{})
		require.NoError(mt, err)
		assert.Equal(mt, "amiko", found.Username)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
	})

	mt.Run("update sets only the given fields", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		email := "new@example.com"
		user := models.User{ID: primitive.NewObjectID(), Username: "amiko", Email: email}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt, user)}))

		updated, err := repo.Update(ctx, user.ID, models.UpdateUserInput{Email: &email})
		require.NoError(mt, err)
		assert.Equal(mt, email, updated.Email)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "findAndModify", evt.CommandName)
		set := evt.Command.Lookup("update", "$set").Document()
		assert.Equal(mt, email, set.Lookup("email").StringValue())
		_, err = set.LookupErr("username")
		assert.Error(mt, err, "username must not be part of $set")
		assert.True(mt, evt.Command.Lookup("new").Boolean(), "update must return the new document")
	})

	mt.Run("update of a missing user maps to ErrNotFound", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		name := "renamed"
		mt.AddMockResponses(noMatch())

		_, err := repo.Update(ctx, primitive.NewObjectID(), models.UpdateUserInput{Username: &name})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("add friend uses $addToSet", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		friendID := primitive.NewObjectID()
		user := models.User{ID: primitive.NewObjectID(), Username: "amiko", Friends: []primitive.ObjectID{friendID}}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt, user)}))

		updated, err := repo.AddFriend(ctx, user.ID, friendID)
		require.NoError(mt, err)
		assert.Equal(mt, []primitive.ObjectID{friendID}, updated.Friends)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, user.ID, evt.Command.Lookup("query", "_id").ObjectID())
		assert.Equal(mt, friendID, evt.Command.Lookup("update", "$addToSet", "friends").ObjectID())
	})

	mt.Run("remove friend uses $pull", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		friendID := primitive.NewObjectID()
		user := models.User{ID: primitive.NewObjectID(), Username: "amiko", Friends: []primitive.ObjectID{}}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt, user)}))

		_, err := repo.RemoveFriend(ctx, user.ID, friendID)
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, friendID, evt.Command.Lookup("update", "$pull", "friends").ObjectID())
	})

	mt.Run("push thought to a missing user maps to ErrNotFound", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		thoughtID := primitive.NewObjectID()
		mt.AddMockResponses(noMatch())

		_, err := repo.PushThought(ctx, primitive.NewObjectID(), thoughtID)
		assert.ErrorIs(mt, err, ErrNotFound)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, thoughtID, evt.Command.Lookup("update", "$push", "thoughts").ObjectID())
	})

	mt.Run("delete returns the removed document", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		thoughtID := primitive.NewObjectID()
		user := models.User{ID: primitive.NewObjectID(), Username: "amiko", Thoughts: []primitive.ObjectID{thoughtID}}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt, user)}))

		deleted, err := repo.Delete(ctx, user.ID)
		require.NoError(mt, err)
		assert.Equal(mt, []primitive.ObjectID{thoughtID}, deleted.Thoughts)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.True(mt, evt.Command.Lookup("remove").Boolean())
	})

	mt.Run("delete of a missing user maps to ErrNotFound", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		mt.AddMockResponses(noMatch())

		_, err := repo.Delete(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("create assigns an id and surfaces duplicate keys", func(mt *mtest.T) {
		repo := &MongoUserRepository{collection: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}),
		)

		user := &models.User{Username: "amiko", Email: "amiko@example.com"}
		require.NoError(mt, repo.Create(ctx, user))
		assert.False(mt, user.ID.IsZero())

		err := repo.Create(ctx, &models.User{Username: "amiko", Email: "amiko@example.com"})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})
}

func TestMongoThoughtRepository(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("find by id not found maps to ErrNotFound", func(mt *mtest.T) {
		repo := &MongoThoughtRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.FindByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("command errors are wrapped, not mapped to ErrNotFound", func(mt *mtest.T) {
		repo := &MongoThoughtRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Name: "Unauthorized", Message: "not authorized"}))

		_, err := repo.FindAll(ctx)
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
		assert.Contains(mt, err.Error(), "find thoughts")
	})

	mt.Run("empty patch reads the current record", func(mt *mtest.T) {
		repo := &MongoThoughtRepository{collection: mt.Coll}
		thought := models.Thought{ID: primitive.NewObjectID(), Text: "hello", Reactions: []models.Reaction{}}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, toDoc(mt, thought)))

		found, err := repo.Update(ctx, thought.ID, models.UpdateThoughtInput{})
		require.NoError(mt, err)
		assert.Equal(mt, "hello", found.Text)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
	})

	mt.Run("pull reaction matches on the reaction id", func(mt *mtest.T) {
		repo := &MongoThoughtRepository{collection: mt.Coll}
		reactionID := primitive.NewObjectID()
		thought := models.Thought{ID: primitive.NewObjectID(), Text: "hello", Reactions: []models.Reaction{}}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt, thought)}))

		updated, err := repo.PullReaction(ctx, thought.ID, reactionID)
		require.NoError(mt, err)
		assert.Empty(mt, updated.Reactions)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "findAndModify", evt.CommandName)
		assert.Equal(mt, thought.ID, evt.Command.Lookup("query", "_id").ObjectID())
		assert.Equal(mt, reactionID, evt.Command.Lookup("update", "$pull", "reactions", "_id").ObjectID())
	})

	mt.Run("pull reaction on a missing thought maps to ErrNotFound", func(mt *mtest.T) {
		repo := &MongoThoughtRepository{collection: mt.Coll}
		mt.AddMockResponses(noMatch())

		_, err := repo.PullReaction(ctx, primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("push reaction appends the subdocument", func(mt *mtest.T) {
		repo := &MongoThoughtRepository{collection: mt.Coll}
		reaction := models.Reaction{ID: primitive.NewObjectID(), ReactionBody: "nice", Username: "bo"}
		thought := models.Thought{ID: primitive.NewObjectID(), Text: "hello", Reactions: []models.Reaction{reaction}}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt, thought)}))

		updated, err := repo.PushReaction(ctx, thought.ID, reaction)
		require.NoError(mt, err)
		require.Len(mt, updated.Reactions, 1)
		assert.Equal(mt, reaction.ID, updated.Reactions[0].ID)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		pushed := evt.Command.Lookup("update", "$push", "reactions").Document()
		assert.Equal(mt, reaction.ID, pushed.Lookup("_id").ObjectID())
		assert.Equal(mt, "nice", pushed.Lookup("reactionBody").StringValue())
	})

	mt.Run("delete many removes by $in and reports the count", func(mt *mtest.T) {
		repo := &MongoThoughtRepository{collection: mt.Coll}
		ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}))

		deleted, err := repo.DeleteMany(ctx, ids)
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), deleted)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "delete", evt.CommandName)
		assert.Equal(mt, ids, objectIDs(mt, evt.Command.Lookup("deletes", "0", "q", "_id", "$in")))
	})

	mt.Run("delete many with no ids skips the query", func(mt *mtest.T) {
		repo := &MongoThoughtRepository{collection: mt.Coll}

		deleted, err := repo.DeleteMany(ctx, nil)
		require.NoError(mt, err)
		assert.Zero(mt, deleted)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("delete of a missing thought maps to ErrNotFound", func(mt *mtest.T) {
		repo := &MongoThoughtRepository{collection: mt.Coll}
		mt.AddMockResponses(noMatch())

		_, err := repo.Delete(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
