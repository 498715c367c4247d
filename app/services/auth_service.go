package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/lojinha/app/models"
	"github.com/shashiranjanraj/lojinha/app/repositories"
	"github.com/shashiranjanraj/lojinha/pkg/auth"
	"github.com/shashiranjanraj/lojinha/pkg/event"
	"github.com/shashiranjanraj/lojinha/pkg/logger"
	"github.com/shashiranjanraj/lojinha/pkg/metrics"
)

// TokenCodec issues and parses session tokens. *auth.JWT implements it.
type TokenCodec interface {
	GenerateToken(userID uint, email string) (string, error)
	ValidateToken(token string) (*auth.Claims, error)
}

// TokenVerifier maps a token to the user it was issued for.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (models.User, error)
}

type AuthService struct {
	users  repositories.UserStore
	tokens TokenCodec
	events *event.Bus
}

// NewAuthService wires the service. events may be nil.
func NewAuthService(users repositories.UserStore, tokens TokenCodec, events *event.Bus) *AuthService {
	return &AuthService{users: users, tokens: tokens, events: events}
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return models.User{}, ErrInvalidInput
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("services: hash password: %w", err)
	}

	user := models.User{Name: name, Email: email, Password: hash}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("services: register: %w", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	if s.events != nil {
		s.events.Fire(ctx, EventUserRegistered, user)
	}
	return user, nil
}

// Authenticate checks email and password. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		metrics.Logins.WithLabelValues("invalid_credentials").Inc()
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("services: authenticate: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		metrics.Logins.WithLabelValues("invalid_credentials").Inc()
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", models.User{}, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", models.User{}, fmt.Errorf("services: issue token: %w", err)
	}

	metrics.Logins.WithLabelValues("success").Inc()
	return token, user, nil
}

// VerifyToken returns ErrInvalidToken for any token that does not resolve
// to an existing user.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (models.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, ErrInvalidToken
	}
	if err != nil {
		return models.User{}, fmt.Errorf("services: verify token: %w", err)
	}
	if user.ID != claims.UserID {
		return models.User{}, ErrInvalidToken
	}
	return user, nil
}

// Users lists every user in registration order.
func (s *AuthService) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("services: list users: %w", err)
	}
	return users, nil
}
