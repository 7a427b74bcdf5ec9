package model

import "go.mongodb.org/mongo-driver/v2/bson"

// Todo represents a todo document owned by a single user. CompletedAt is an
// epoch-millisecond stamp, null while the todo is incomplete.
type Todo struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Text        string        `bson:"text" json:"text"`
	Completed   bool          `bson:"completed" json:"completed"`
	CompletedAt *int64        `bson:"completedAt" json:"completedAt"`
	OwnerID     bson.ObjectID `bson:"ownerId" json:"ownerId"`
}

// CreateTodoRequest represents a todo creation request. Unrecognized JSON
// fields are dropped by the decoder rather than rejected.
type CreateTodoRequest struct {
	Text string `json:"text"`
}

// UpdateTodoRequest represents a todo patch. Only text and completed are
// recognized; absent fields leave text unchanged but always reset completion
// unless completed is explicitly true.
type UpdateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// TodoPatch is the repository-level update derived from an UpdateTodoRequest.
// CompletedAt is written unconditionally: a nil value clears the stamp.
type TodoPatch struct {
	Text        *string
	Completed   bool
	CompletedAt *int64
}

// TodoListResponse wraps the owner-scoped todo listing.
type TodoListResponse struct {
	Todos []Todo `json:"todos"`
}

// TodoResponse wraps a single todo.
type TodoResponse struct {
	Todo Todo `json:"todo"`
}

// DeletedTodoResponse wraps the record removed by a delete.
type DeletedTodoResponse struct {
	Deleted Todo `json:"deleted"`
}
