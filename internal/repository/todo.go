package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/todopad/todopad-go/internal/model"
)

var ErrTodoNotFound = errors.New("todo not found")

const todosCollection = "todos"

// TodoRepository handles owner-scoped todo persistence operations.
type TodoRepository struct {
	coll *mongo.Collection
}

// NewTodoRepository creates a new TodoRepository.
func NewTodoRepository(db *mongo.Database) *TodoRepository {
	return &TodoRepository{coll: db.Collection(todosCollection)}
}

// Insert stores a new todo and sets the generated ID on the todo struct.
func (r *TodoRepository) Insert(ctx context.Context, todo *model.Todo) error {
	todo.ID = bson.NewObjectID()
	_, err := r.coll.InsertOne(ctx, todo)
	return err
}

// ListByOwner returns all todos owned by the given user in insertion order.
func (r *TodoRepository) ListByOwner(ctx context.Context, owner bson.ObjectID) ([]model.Todo, error) {
	cur, err := r.coll.Find(ctx,
		bson.D{{Key: "ownerId", Value: owner}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	todos := []model.Todo{}
	if err := cur.All(ctx, &todos); err != nil {
		return nil, err
	}

	return todos, nil
}

// GetByIDForOwner retrieves a single todo by id, scoped to its owner. A
// malformed id, a foreign owner, and a missing record all surface as
// ErrTodoNotFound.
func (r *TodoRepository) GetByIDForOwner(ctx context.Context, idHex string, owner bson.ObjectID) (*model.Todo, error) {
	filter, err := ownerScopedFilter(idHex, owner)
	if err != nil {
		return nil, err
	}

	todo := &model.Todo{}
	if err := r.coll.FindOne(ctx, filter).Decode(todo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	return todo, nil
}

// UpdateByIDForOwner applies an allow-listed patch and returns the updated
// record. Completion state is always written; text only when the patch
// carries it.
func (r *TodoRepository) UpdateByIDForOwner(ctx context.Context, idHex string, owner bson.ObjectID, patch model.TodoPatch) (*model.Todo, error) {
	filter, err := ownerScopedFilter(idHex, owner)
	if err != nil {
		return nil, err
	}

	set := bson.D{
		{Key: "completed", Value: patch.Completed},
		{Key: "completedAt", Value: patch.CompletedAt},
	}
	if patch.Text != nil {
		set = append(set, bson.E{Key: "text", Value: *patch.Text})
	}

	todo := &model.Todo{}
	err = r.coll.FindOneAndUpdate(ctx, filter,
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	return todo, nil
}

// DeleteByIDForOwner removes a todo and returns the deleted record.
func (r *TodoRepository) DeleteByIDForOwner(ctx context.Context, idHex string, owner bson.ObjectID) (*model.Todo, error) {
	filter, err := ownerScopedFilter(idHex, owner)
	if err != nil {
		return nil, err
	}

	todo := &model.Todo{}
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(todo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	return todo, nil
}

// ownerScopedFilter builds the {_id, ownerId} filter shared by the by-id
// operations. A malformed id yields ErrTodoNotFound directly, matching the
// outcome for a record that does not exist.
func ownerScopedFilter(idHex string, owner bson.ObjectID) (bson.D, error) {
	id, err := bson.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, ErrTodoNotFound
	}

	return bson.D{
		{Key: "_id", Value: id},
		{Key: "ownerId", Value: owner},
	}, nil
}
