package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sales_dashboard/internal/kvstore"
)

func newTestStore(t *testing.T) (*Store, kvstore.Store) {
	t.Helper()
	kv := kvstore.NewMemoryStore()
	s := NewStore(kv, zaptest.NewLogger(t))
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)
	return s, kv
}

func TestInitialize_SeedsDefaultsOnEmptyStore(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	s := NewStore(kv, zaptest.NewLogger(t))

	users, err := s.Initialize(context.Background())
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.Equal(t, RoleAdmin, users[0].Role)
	assert.Equal(t, RoleUser, users[1].Role)
	assert.NotEqual(t, users[0].ID, users[1].ID)

	var persisted []User
	found, err := kvstore.GetJSON(context.Background(), kv, kvstore.KeyUsers, &persisted)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, persisted, 2)
}

func TestInitialize_LoadsExistingUnchanged(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	existing := []User{{ID: "u9", Username: "carol", Password: "pw", Role: RoleUser}}
	require.NoError(t, kvstore.SetJSON(ctx, kv, kvstore.KeyUsers, existing))

	users, err := NewStore(kv, zaptest.NewLogger(t)).Initialize(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0].Username)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	u, err := s.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)

	session, err := s.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, session.IsAuthenticated)
	assert.Equal(t, u.ID, session.User.ID)

	_, err = s.Authenticate(ctx, "Admin", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "usernames are case-sensitive")

	_, err = s.Authenticate(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_ThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	created, err := s.Register(ctx, "alice", "secret", RoleUser)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	session, err := s.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, created.ID, session.User.ID, "register logs the new user in")

	got, err := s.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, s.Users(), 3)
}

func TestRegister_DuplicateLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	_, err := s.Register(ctx, "user", "other", RoleAdmin)
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.Len(t, s.Users(), 2)

	var persisted []User
	_, err = kvstore.GetJSON(ctx, kv, kvstore.KeyUsers, &persisted)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestRegister_InvalidInput(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	cases := map[string]struct {
		username, password string
		role               Role
	}{
		"empty username": {"", "pw", RoleUser},
		"empty password": {"bob", "", RoleUser},
		"unknown role":   {"bob", "pw", Role("owner")},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Register(ctx, tc.username, tc.password, tc.role)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Len(t, s.Users(), 2)
		})
	}
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.Authenticate(ctx, "user", "user123")
	require.NoError(t, err)
	require.NoError(t, s.EndSession(ctx))

	session, err := s.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Len(t, s.Users(), 2, "ending a session does not touch users")
}

func TestUsersWithRole(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	_, err := s.Register(ctx, "bob", "pw", RoleUser)
	require.NoError(t, err)

	regular := s.UsersWithRole(RoleUser)
	require.Len(t, regular, 2)
	assert.Equal(t, "user", regular[0].Username)
	assert.Equal(t, "bob", regular[1].Username)
	assert.Len(t, s.UsersWithRole(RoleAdmin), 1)
}

func TestNewStore_NilLoggerFallback(t *testing.T) {
	s := NewStore(kvstore.NewMemoryStore(), nil)
	assert.NotNil(t, s.logger)
}
