package model

import "go.mongodb.org/mongo-driver/v2/bson"

// ScopeAuth is the only token scope currently issued.
const ScopeAuth = "auth"

// AuthToken is one live session token stored on the user document. A user may
// hold several at once (one per session).
type AuthToken struct {
	Access string `bson:"access" json:"access"`
	Token  string `bson:"token" json:"token"`
}

// User represents a user document. The password hash and token collection
// never leave the server; API responses use UserResponse.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"-"`
	Email        string        `bson:"email" json:"-"`
	PasswordHash string        `bson:"password" json:"-"`
	Tokens       []AuthToken   `bson:"tokens" json:"-"`
}

// Response returns the externally visible representation of the user.
func (u *User) Response() UserResponse {
	return UserResponse{ID: u.ID.Hex(), Email: u.Email}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
