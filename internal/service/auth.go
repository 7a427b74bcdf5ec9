package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/todopad/todopad-go/internal/crypto"
	"github.com/todopad/todopad-go/internal/model"
	"github.com/todopad/todopad-go/internal/repository"
)

const minPasswordLength = 6

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email is not a valid address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// UserStore is the persistence surface AuthService depends on.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByToken(ctx context.Context, idHex, token string) (*model.User, error)
	PushToken(ctx context.Context, id bson.ObjectID, token model.AuthToken) error
	PullToken(ctx context.Context, id bson.ObjectID, token string) error
}

// AuthService handles registration, login, and the token lifecycle.
type AuthService struct {
	store     UserStore
	jwtSecret string
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, secret string) *AuthService {
	return &AuthService{store: store, jwtSecret: secret}
}

// Register creates a new user account and issues its first auth token.
// The plaintext password is hashed exactly once, here, before persistence;
// no other code path writes the password field.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	if req.Email == "" {
		return nil, "", ErrEmailRequired
	}
	if !validEmail(req.Email) {
		return nil, "", ErrEmailInvalid
	}
	if len(req.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Tokens:       []model.AuthToken{},
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and issues a fresh token. Earlier tokens stay
// valid, one per session. Unknown email and wrong password are rejected
// identically.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	user, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetUserByToken resolves a bearer token to the user holding it. The
// signature must verify, the scope must be auth, and the exact token string
// must still be present on the user document — the store check is what makes
// logout effective for tokens that never expire.
func (s *AuthService) GetUserByToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := crypto.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	if claims.Scope != model.ScopeAuth {
		return nil, ErrNotAuthenticated
	}

	user, err := s.store.GetByToken(ctx, claims.UserID, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}

	return user, nil
}

// Logout revokes a single token. Revoking an already-removed token succeeds.
func (s *AuthService) Logout(ctx context.Context, user *model.User, token string) error {
	return s.store.PullToken(ctx, user.ID, token)
}

// issueToken signs a token and stores it on the user document. A persistence
// failure propagates instead of downgrading to an empty token.
func (s *AuthService) issueToken(ctx context.Context, user *model.User) (string, error) {
	token, err := crypto.GenerateToken(user.ID.Hex(), model.ScopeAuth, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	entry := model.AuthToken{Access: model.ScopeAuth, Token: token}
	if err := s.store.PushToken(ctx, user.ID, entry); err != nil {
		return "", fmt.Errorf("storing token: %w", err)
	}

	user.Tokens = append(user.Tokens, entry)
	return token, nil
}

// validEmail reports whether the input is a bare, parseable email address.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
