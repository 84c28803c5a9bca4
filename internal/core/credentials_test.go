package core_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timada-org/todos/internal/core"
)

type memoryUsers struct {
	mux   sync.Mutex
	users map[string]core.User
}

func (m *memoryUsers) Create(ctx context.Context, user *core.User) error {
	m.mux.Lock()
	defer m.mux.Unlock()

	if _, ok := m.users[user.Username]; ok {
		return fmt.Errorf("%w: %s", core.ErrConflict, user.Username)
	}

	m.users[user.Username] = *user

	return nil
}

func (m *memoryUsers) FindByUsername(ctx context.Context, username string) (*core.User, error) {
	m.mux.Lock()
	defer m.mux.Unlock()

	user, ok := m.users[username]
	if !ok {
		return nil, core.ErrNotFound
	}

	return &user, nil
}

func (m *memoryUsers) remove(username string) {
	m.mux.Lock()
	defer m.mux.Unlock()

	delete(m.users, username)
}

func newCredentials(t *testing.T) (*core.Credentials, *memoryUsers) {
	users := &memoryUsers{users: make(map[string]core.User)}

	return core.NewCredentials(users, newHasher(t)), users
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate username", func(t *testing.T) {
		credentials, _ := newCredentials(t)

		user, err := credentials.Register(ctx, "alice", "wonderland")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.NotEqual(t, "wonderland", user.HashedPassword)

		_, err = credentials.Register(ctx, "alice", "another")
		require.ErrorIs(t, err, core.ErrConflict)
	})

	t.Run("fresh ids", func(t *testing.T) {
		credentials, _ := newCredentials(t)

		alice, err := credentials.Register(ctx, "alice", "wonderland")
		require.NoError(t, err)
		bob, err := credentials.Register(ctx, "bob", "builder")
		require.NoError(t, err)

		assert.NotEqual(t, alice.ID, bob.ID)
	})

	t.Run("empty fields", func(t *testing.T) {
		credentials, _ := newCredentials(t)

		_, err := credentials.Register(ctx, "", "wonderland")
		require.ErrorIs(t, err, core.ErrInvalid)

		_, err = credentials.Register(ctx, "alice", "")
		require.ErrorIs(t, err, core.ErrInvalid)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	credentials, _ := newCredentials(t)

	registered, err := credentials.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)

	t.Run("right password", func(t *testing.T) {
		user, err := credentials.Authenticate(ctx, "alice", "wonderland")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		for _, password := range []string{"", "Wonderland", "wonderland ", "wonderlan"} {
			_, err := credentials.Authenticate(ctx, "alice", password)
			require.ErrorIs(t, err, core.ErrAuth, password)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := credentials.Authenticate(ctx, "mallory", "wonderland")
		require.ErrorIs(t, err, core.ErrAuth)
	})

	t.Run("over-long password", func(t *testing.T) {
		password := strings.Repeat("z", 72)
		_, err := credentials.Register(ctx, "bob", password)
		require.NoError(t, err)

		_, err = credentials.Authenticate(ctx, "bob", password)
		require.NoError(t, err)

		_, err = credentials.Authenticate(ctx, "bob", password+"EXTRA")
		require.ErrorIs(t, err, core.ErrAuth)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	credentials, users := newCredentials(t)

	registered, err := credentials.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)

	user, err := credentials.Resolve(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	users.remove("alice")

	_, err = credentials.Resolve(ctx, "alice")
	require.ErrorIs(t, err, core.ErrAuth)
}
