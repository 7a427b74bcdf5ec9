package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/todopad/todopad-go/internal/middleware"
	"github.com/todopad/todopad-go/internal/model"
	"github.com/todopad/todopad-go/internal/repository"
	"github.com/todopad/todopad-go/internal/service"
)

// In-memory stores so the full stack (router, middleware, handlers, services)
// can be exercised without a database.

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

// newTestAPI wires the router exactly like cmd/api does, minus CORS and the
// request logger.
func newTestAPI() (http.Handler, *fakeUserStore, *fakeTodoStore) {
	users := newFakeUserStore()
	todos := &fakeTodoStore{}

	authService := service.NewAuthService(users, "test-secret")
	authHandler := NewAuthHandler(authService)
	todoService := service.NewTodoService(todos)
	todoHandler := NewTodoHandler(todoService)

	r := chi.NewRouter()
	r.Post("/users", authHandler.HandleRegister)
	r.Post("/users/login", authHandler.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(authService))

		r.Get("/users/me", authHandler.HandleMe)
		r.Delete("/users/me/token", authHandler.HandleLogout)

		r.Post("/todos", todoHandler.HandleCreate)
		r.Get("/todos", todoHandler.HandleList)
		r.Get("/todos/{id}", todoHandler.HandleGet)
		r.Patch("/todos/{id}", todoHandler.HandleUpdate)
		r.Delete("/todos/{id}", todoHandler.HandleDelete)
	})

	return r, users, todos
}

// do issues a JSON request against the test router. A non-empty token is sent
// in the x-auth header.
func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthHeader, token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorded JSON response body.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

// register creates an account and returns its issued token.
func register(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/users", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register %s: expected 200, got %d (%s)", email, rec.Code, rec.Body.String())
	}
	token := rec.Header().Get(middleware.AuthHeader)
	if token == "" {
		t.Fatalf("register %s: expected x-auth header", email)
	}
	return token
}
