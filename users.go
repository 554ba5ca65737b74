package libris

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// UserRepo persists user accounts. GetByEmail returns ErrNotFound for
// unknown addresses; Create wraps a duplicate email in ErrValidation and
// other infrastructure failures in ErrPersistence.
type UserRepo interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

// PasswordHasher is the credential-hashing black box.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// UserService handles registration and login. Token and hash mechanics are
// delegated; this service only owns the account rules.
type UserService struct {
	users  UserRepo
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewUserService(users UserRepo, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates an account and returns an access token for it.
func (s *UserService) Register(ctx context.Context, nu NewUser) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("register user: %w", err)
	}

	if nu.Name == "" || nu.Email == "" || nu.Password == "" {
		return "", fmt.Errorf("register user: %w: name, email and password are required", ErrValidation)
	}

	_, err := s.users.GetByEmail(ctx, nu.Email)
	if err == nil {
		return "", fmt.Errorf("register user: %w: user already exists with this email", ErrValidation)
	}
	if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("register user: %w", err)
	}

	hash, err := s.hasher.Hash(nu.Password)
	if err != nil {
		return "", fmt.Errorf("register user: %w", err)
	}

	user, err := s.users.Create(ctx, User{
		Name:         nu.Name,
		Email:        nu.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return "", fmt.Errorf("register user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("register user: issue token: %w", err)
	}

	return token, nil
}

// Login verifies credentials and returns an access token. Unknown email and
// wrong password both map to ErrCredentials so the response does not reveal
// which accounts exist.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	if email == "" || password == "" {
		return "", fmt.Errorf("login: %w: email and password are required", ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("login: %w", ErrCredentials)
		}
		return "", fmt.Errorf("login: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", fmt.Errorf("login: %w", ErrCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("login: issue token: %w", err)
	}

	return token, nil
}
