package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"social-server/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps both collections in process memory. It mirrors the Mongo
// repositories closely enough for tests and local runs without a database.
type MemoryStore struct {
	users    *MemoryUserRepository
	thoughts *MemoryThoughtRepository
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    &MemoryUserRepository{docs: map[primitive.ObjectID]*models.User{}},
		thoughts: &MemoryThoughtRepository{docs: map[primitive.ObjectID]*models.Thought{}},
	}
}

func (s *MemoryStore) Users() *MemoryUserRepository { return s.users }
func (s *MemoryStore) Thoughts() *MemoryThoughtRepository { return s.thoughts }

func (s *MemoryStore) Ping(context.Context) error { return nil }

type MemoryUserRepository struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]*models.User
}

func (r *MemoryUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, copyUser(r.docs[id]))
	}
	return users, nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	user := copyUser(doc)
	return &user, nil
}

func (r *MemoryUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := []models.User{}
	for _, id := range r.order {
		if slices.Contains(ids, id) {
			users = append(users, copyUser(r.docs[id]))
		}
	}
	return users, nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, exists := r.docs[user.ID]; exists {
		return fmt.Errorf("insert user: duplicate key _id %s", user.ID.Hex())
	}
	if err := r.checkUnique(user.ID, user.Username, user.Email); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	doc := copyUser(user)
	r.docs[user.ID] = &doc
	r.order = append(r.order, user.ID)
	return nil
}

// checkUnique mirrors the unique indexes on username and email.
func (r *MemoryUserRepository) checkUnique(self primitive.ObjectID, username, email string) error {
	for id, doc := range r.docs {
		if id == self {
			continue
		}
		if doc.Username == username {
			return fmt.Errorf("duplicate key username %q", username)
		}
		if doc.Email == email {
			return fmt.Errorf("duplicate key email %q", email)
		}
	}
	return nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.UpdateUserInput) (*models.User, error) {
	return r.mutate(id, func(doc *models.User) error {
		next := *doc
		if patch.Username != nil {
			next.Username = *patch.Username
		}
		if patch.Email != nil {
			next.Email = *patch.Email
		}
		if err := r.checkUnique(id, next.Username, next.Email); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		doc.Username, doc.Email = next.Username, next.Email
		return nil
	})
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.docs, id)
	r.order = slices.DeleteFunc(r.order, func(o primitive.ObjectID) bool { return o == id })
	user := copyUser(doc)
	return &user, nil
}

func (r *MemoryUserRepository) AddFriend(ctx context.Context, id, friendID primitive.ObjectID) (*models.User, error) {
	return r.mutate(id, func(doc *models.User) error {
		if !slices.Contains(doc.Friends, friendID) {
			doc.Friends = append(doc.Friends, friendID)
		}
		return nil
	})
}

func (r *MemoryUserRepository) RemoveFriend(ctx context.Context, id, friendID primitive.ObjectID) (*models.User, error) {
	return r.mutate(id, func(doc *models.User) error {
		doc.Friends = slices.DeleteFunc(doc.Friends, func(f primitive.ObjectID) bool { return f == friendID })
		return nil
	})
}

func (r *MemoryUserRepository) PushThought(ctx context.Context, id, thoughtID primitive.ObjectID) (*models.User, error) {
	return r.mutate(id, func(doc *models.User) error {
		doc.Thoughts = append(doc.Thoughts, thoughtID)
		return nil
	})
}

func (r *MemoryUserRepository) mutate(id primitive.ObjectID, fn func(*models.User) error) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	user := copyUser(doc)
	return &user, nil
}

type MemoryThoughtRepository struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]*models.Thought
}

func (r *MemoryThoughtRepository) FindAll(ctx context.Context) ([]models.Thought, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	thoughts := make([]models.Thought, 0, len(r.order))
	for _, id := range r.order {
		thoughts = append(thoughts, copyThought(r.docs[id]))
	}
	return thoughts, nil
}

func (r *MemoryThoughtRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Thought, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	thought := copyThought(doc)
	return &thought, nil
}

func (r *MemoryThoughtRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Thought, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	thoughts := []models.Thought{}
	for _, id := range r.order {
		if slices.Contains(ids, id) {
			thoughts = append(thoughts, copyThought(r.docs[id]))
		}
	}
	return thoughts, nil
}

func (r *MemoryThoughtRepository) Create(ctx context.Context, thought *models.Thought) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if thought.ID.IsZero() {
		thought.ID = primitive.NewObjectID()
	}
	if _, exists := r.docs[thought.ID]; exists {
		return fmt.Errorf("insert thought: duplicate key _id %s", thought.ID.Hex())
	}
	doc := copyThought(thought)
	r.docs[thought.ID] = &doc
	r.order = append(r.order, thought.ID)
	return nil
}

func (r *MemoryThoughtRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.UpdateThoughtInput) (*models.Thought, error) {
	return r.mutate(id, func(doc *models.Thought) {
		if patch.Text != nil {
			doc.Text = *patch.Text
		}
		if patch.Username != nil {
			doc.Username = *patch.Username
		}
	})
}

func (r *MemoryThoughtRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Thought, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.remove(id)
	thought := copyThought(doc)
	return &thought, nil
}

func (r *MemoryThoughtRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := r.docs[id]; ok {
			r.remove(id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *MemoryThoughtRepository) remove(id primitive.ObjectID) {
	delete(r.docs, id)
	r.order = slices.DeleteFunc(r.order, func(o primitive.ObjectID) bool { return o == id })
}

func (r *MemoryThoughtRepository) PushReaction(ctx context.Context, id primitive.ObjectID, reaction models.Reaction) (*models.Thought, error) {
	return r.mutate(id, func(doc *models.Thought) {
		doc.Reactions = append(doc.Reactions, reaction)
	})
}

func (r *MemoryThoughtRepository) PullReaction(ctx context.Context, id, reactionID primitive.ObjectID) (*models.Thought, error) {
	return r.mutate(id, func(doc *models.Thought) {
		doc.Reactions = slices.DeleteFunc(doc.Reactions, func(re models.Reaction) bool { return re.ID == reactionID })
	})
}

func (r *MemoryThoughtRepository) mutate(id primitive.ObjectID, fn func(*models.Thought)) (*models.Thought, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(doc)
	thought := copyThought(doc)
	return &thought, nil
}

// Stored documents never share slices with callers.
func copyUser(u *models.User) models.User {
	out := *u
	out.Thoughts = append([]primitive.ObjectID{}, u.Thoughts...)
	out.Friends = append([]primitive.ObjectID{}, u.Friends...)
	return out
}

func copyThought(t *models.Thought) models.Thought {
	out := *t
	out.Reactions = append([]models.Reaction{}, t.Reactions...)
	return out
}
