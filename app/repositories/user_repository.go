package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lojinha/app/models"
	"github.com/shashiranjanraj/lojinha/pkg/orm"
)

var (
	ErrDuplicateEmail = errors.New("repositories: email already registered")
	ErrUserNotFound   = errors.New("repositories: user not found")
)

// UserStore persists users. Create must check email uniqueness and insert
// atomically.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	All(ctx context.Context) ([]models.User, error)
	Reset(ctx context.Context) error
}

// ─── Memory ───────────────────────────────────────────────────────────────────

// MemoryUserStore keeps users in process memory, in registration order.
type MemoryUserStore struct {
	mu      sync.RWMutex
	nextID  uint
	byEmail map[string]int
	users   []models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byEmail: make(map[string]int)}
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	key := user.Email

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[key]; exists {
		return ErrDuplicateEmail
	}

	s.nextID++
	user.ID = s.nextID
	s.byEmail[key] = len(s.users)
	s.users = append(s.users, *user)
	return nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byEmail[email]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return s.users[idx], nil
}

func (s *MemoryUserStore) All(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...), nil
}

// Reset drops every user and restarts IDs at 1.
func (s *MemoryUserStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = 0
	s.byEmail = make(map[string]int)
	s.users = nil
	return nil
}

// ─── GORM ─────────────────────────────────────────────────────────────────────

// GormUserStore keeps users in the "users" table.
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

// Create checks and inserts inside one transaction; the unique index on
// email backs it up when two transactions race.
func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	err := orm.New(s.db).WithContext(ctx).Transaction(func(tx *orm.Query) error {
		taken, err := tx.Model(&models.User{}).Where("email = ?", user.Email).Exists()
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}
		return tx.Create(user)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateEmail
	default:
		return fmt.Errorf("repositories: create user: %w", err)
	}
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := orm.New(s.db).WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		First(&user)

	if errors.Is(err, orm.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("repositories: find user: %w", err)
	}
	return user, nil
}

func (s *GormUserStore) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := orm.New(s.db).WithContext(ctx).Model(&models.User{}).Order("id").Get(&users); err != nil {
		return nil, fmt.Errorf("repositories: list users: %w", err)
	}
	return users, nil
}

// Reset deletes every user row.
func (s *GormUserStore) Reset(ctx context.Context) error {
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error
	if err != nil {
		return fmt.Errorf("repositories: reset users: %w", err)
	}
	return nil
}
