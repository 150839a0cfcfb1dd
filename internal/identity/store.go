package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sales_dashboard/internal/kvstore"
	"sales_dashboard/internal/metrics"
)

// Store owns the user collection and the session record. The collection is
// loaded once by Initialize and written back whole after every change.
type Store struct {
	mu     sync.Mutex
	kv     kvstore.Store
	logger *zap.Logger
	users  []User
	now    func() time.Time
}

// NewStore creates an identity store on top of kv.
func NewStore(kv kvstore.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

func defaultUsers(now time.Time) []User {
	return []User{
		{ID: "admin-1", Username: "admin", Password: "admin123", Role: RoleAdmin, CreatedAt: now},
		{ID: "user-1", Username: "user", Password: "user123", Role: RoleUser, CreatedAt: now},
	}
}

// Initialize loads the persisted users. On first run, when nothing is
// persisted, it seeds one admin and one regular account.
func (s *Store) Initialize(ctx context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []User
	found, err := kvstore.GetJSON(ctx, s.kv, kvstore.KeyUsers, &users)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	if !found {
		users = defaultUsers(s.now())
		if err := kvstore.SetJSON(ctx, s.kv, kvstore.KeyUsers, users); err != nil {
			return nil, fmt.Errorf("seed users: %w", err)
		}
		s.logger.Info("seeded default users", zap.Int("count", len(users)))
	}

	s.users = users
	return s.copyUsers(), nil
}

// Authenticate finds the user whose username and password both match exactly
// and records a session for it.
func (s *Store) Authenticate(ctx context.Context, username, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			if err := s.saveSession(ctx, u); err != nil {
				return User{}, err
			}
			metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
			s.logger.Info("user logged in", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
			return u, nil
		}
	}

	metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
	s.logger.Warn("login failed", zap.String("username", username))
	return User{}, ErrInvalidCredentials
}

// Register appends a new account and logs it in. A taken username leaves the
// collection untouched.
func (s *Store) Register(ctx context.Context, username, password string, role Role) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return User{}, ErrDuplicateUsername
		}
	}

	user := User{
		ID:        "user-" + uuid.NewString(),
		Username:  username,
		Password:  password,
		Role:      role,
		CreatedAt: s.now(),
	}
	if err := validate.Struct(user); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	users := append(s.copyUsers(), user)
	if err := kvstore.SetJSON(ctx, s.kv, kvstore.KeyUsers, users); err != nil {
		s.logger.Error("failed to save users", zap.String("user_id", user.ID), zap.Error(err))
		return User{}, fmt.Errorf("save users: %w", err)
	}
	s.users = users

	if err := s.saveSession(ctx, user); err != nil {
		return User{}, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(role)).Inc()
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// EndSession clears the session record.
func (s *Store) EndSession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kvstore.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info("session ended")
	return nil
}

// CurrentSession returns the persisted session, or nil when logged out.
func (s *Store) CurrentSession(ctx context.Context) (*Session, error) {
	var session Session
	found, err := kvstore.GetJSON(ctx, s.kv, kvstore.KeySession, &session)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found || !session.IsAuthenticated {
		return nil, nil
	}
	return &session, nil
}

// Users returns a copy of every account in registration order.
func (s *Store) Users() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyUsers()
}

// UsersWithRole returns the accounts holding role, in registration order.
func (s *Store) UsersWithRole(role Role) []User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

func (s *Store) saveSession(ctx context.Context, u User) error {
	if err := kvstore.SetJSON(ctx, s.kv, kvstore.KeySession, Session{User: u, IsAuthenticated: true}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) copyUsers() []User {
	return append([]User(nil), s.users...)
}
