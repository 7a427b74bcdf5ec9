package service

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/todopad/todopad-go/internal/model"
	"github.com/todopad/todopad-go/internal/repository"
)

// fakeUserStore is an in-memory UserStore mirroring the repository's
// observable behavior, including the duplicate-email and token-presence rules.
type fakeUserStore struct {
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = bson.NewObjectID()
	stored := *user
	stored.Tokens = append([]model.AuthToken{}, user.Tokens...)
	f.users[user.ID.Hex()] = &stored
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByToken(_ context.Context, idHex, token string) (*model.User, error) {
	u, ok := f.users[idHex]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	for _, t := range u.Tokens {
		if t.Token == token && t.Access == model.ScopeAuth {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) PushToken(_ context.Context, id bson.ObjectID, token model.AuthToken) error {
	u, ok := f.users[id.Hex()]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Tokens = append(u.Tokens, token)
	return nil
}

func (f *fakeUserStore) PullToken(_ context.Context, id bson.ObjectID, token string) error {
	u, ok := f.users[id.Hex()]
	if !ok {
		return repository.ErrUserNotFound
	}
	kept := u.Tokens[:0]
	for _, t := range u.Tokens {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	u.Tokens = kept
	return nil
}

// fakeTodoStore is an in-memory TodoStore with the repository's id-format
// and ownership semantics.
type fakeTodoStore struct {
	todos []*model.Todo
}

func (f *fakeTodoStore) Insert(_ context.Context, todo *model.Todo) error {
	todo.ID = bson.NewObjectID()
	cp := *todo
	f.todos = append(f.todos, &cp)
	return nil
}

func (f *fakeTodoStore) ListByOwner(_ context.Context, owner bson.ObjectID) ([]model.Todo, error) {
	out := []model.Todo{}
	for _, t := range f.todos {
		if t.OwnerID == owner {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTodoStore) find(idHex string, owner bson.ObjectID) (*model.Todo, error) {
	id, err := bson.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, repository.ErrTodoNotFound
	}
	for _, t := range f.todos {
		if t.ID == id && t.OwnerID == owner {
			return t, nil
		}
	}
	return nil, repository.ErrTodoNotFound
}

func (f *fakeTodoStore) GetByIDForOwner(_ context.Context, idHex string, owner bson.ObjectID) (*model.Todo, error) {
	t, err := f.find(idHex, owner)
	if err != nil {
		return nil, err
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTodoStore) UpdateByIDForOwner(_ context.Context, idHex string, owner bson.ObjectID, patch model.TodoPatch) (*model.Todo, error) {
	t, err := f.find(idHex, owner)
	if err != nil {
		return nil, err
	}
	if patch.Text != nil {
		t.Text = *patch.Text
	}
	t.Completed = patch.Completed
	t.CompletedAt = patch.CompletedAt
	cp := *t
	return &cp, nil
}

func (f *fakeTodoStore) DeleteByIDForOwner(_ context.Context, idHex string, owner bson.ObjectID) (*model.Todo, error) {
	t, err := f.find(idHex, owner)
	if err != nil {
		return nil, err
	}
	kept := f.todos[:0]
	for _, existing := range f.todos {
		if existing != t {
			kept = append(kept, existing)
		}
	}
	f.todos = kept
	cp := *t
	return &cp, nil
}
