package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/todopad/todopad-go/internal/model"
	"github.com/todopad/todopad-go/internal/repository"
)

const minTodoTextLength = 5

var (
	ErrTextRequired = errors.New("text is required")
	ErrTextTooShort = errors.New("text must be at least 5 characters")
	ErrTodoNotFound = errors.New("todo not found")
)

// TodoStore is the persistence surface TodoService depends on. Every by-id
// operation takes the raw id string so the store can treat a malformed id
// the same as a missing record.
type TodoStore interface {
	Insert(ctx context.Context, todo *model.Todo) error
	ListByOwner(ctx context.Context, owner bson.ObjectID) ([]model.Todo, error)
	GetByIDForOwner(ctx context.Context, idHex string, owner bson.ObjectID) (*model.Todo, error)
	UpdateByIDForOwner(ctx context.Context, idHex string, owner bson.ObjectID, patch model.TodoPatch) (*model.Todo, error)
	DeleteByIDForOwner(ctx context.Context, idHex string, owner bson.ObjectID) (*model.Todo, error)
}

// TodoService handles todo validation and completion rules.
type TodoService struct {
	store TodoStore
}

// NewTodoService creates a new TodoService.
func NewTodoService(store TodoStore) *TodoService {
	return &TodoService{store: store}
}

// Create validates and stores a new todo for the owner. New todos always
// start incomplete.
func (s *TodoService) Create(ctx context.Context, owner bson.ObjectID, req model.CreateTodoRequest) (*model.Todo, error) {
	text, err := validateText(req.Text)
	if err != nil {
		return nil, err
	}

	todo := &model.Todo{
		Text:    text,
		OwnerID: owner,
	}

	if err := s.store.Insert(ctx, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// List returns the owner's todos in insertion order.
func (s *TodoService) List(ctx context.Context, owner bson.ObjectID) ([]model.Todo, error) {
	return s.store.ListByOwner(ctx, owner)
}

// Get retrieves a single todo scoped to its owner.
func (s *TodoService) Get(ctx context.Context, owner bson.ObjectID, idHex string) (*model.Todo, error) {
	todo, err := s.store.GetByIDForOwner(ctx, idHex, owner)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

// Update applies the allow-listed patch. The server owns completedAt: an
// explicit completed=true stamps the current time, anything else resets the
// todo to incomplete regardless of prior state.
func (s *TodoService) Update(ctx context.Context, owner bson.ObjectID, idHex string, req model.UpdateTodoRequest) (*model.Todo, error) {
	patch := model.TodoPatch{}
	if req.Text != nil {
		text, err := validateText(*req.Text)
		if err != nil {
			return nil, err
		}
		patch.Text = &text
	}
	patch.Completed, patch.CompletedAt = resolveCompletion(req.Completed)

	todo, err := s.store.UpdateByIDForOwner(ctx, idHex, owner, patch)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	return todo, nil
}

// Delete removes a todo and returns the deleted record.
func (s *TodoService) Delete(ctx context.Context, owner bson.ObjectID, idHex string) (*model.Todo, error) {
	todo, err := s.store.DeleteByIDForOwner(ctx, idHex, owner)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

// resolveCompletion derives the stored completion state from a patch. Only an
// explicit completed=true counts and is stamped with the current
// epoch-millisecond time.
func resolveCompletion(completed *bool) (bool, *int64) {
	if completed != nil && *completed {
		now := time.Now().UnixMilli()
		return true, &now
	}
	return false, nil
}

// validateText trims and validates todo text, returning the stored form.
func validateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrTextRequired
	}
	if len(trimmed) < minTodoTextLength {
		return "", ErrTextTooShort
	}
	return trimmed, nil
}
