package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
)

var admin = academy.User{ID: "3", Name: "Rajesh Kumar", Email: "admin@sreshtta.com", Role: academy.RoleAdmin}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.Save(ctx, admin))
	usr, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, admin, usr)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, s.Clear(ctx))
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewFileStore(dir)
	testStore(t, s)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "currentUser.json"), []byte("{oops"), 0o600))
	_, err := s.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "academy:", time.Hour)
	defer func() { _ = s.Close() }()

	testStore(t, s)

	require.NoError(t, s.Save(context.Background(), admin))
	assert.True(t, mr.Exists("academy:currentUser"))
	mr.FastForward(2 * time.Hour)
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestNew(t *testing.T) {
	s, err := New(&core.Config{Session: core.SessionConfig{Dir: t.TempDir()}})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = New(&core.Config{Session: core.SessionConfig{Backend: "cookie"}})
	assert.EqualError(t, err, `unknown session backend "cookie"`)
}

type directory map[string]academy.User

func (d directory) FindUser(email string) (academy.User, error) {
	if usr, ok := d[email]; ok {
		return usr, nil
	}
	return academy.User{}, academy.ErrNotFound
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewFileStore(t.TempDir()), directory{admin.Email: admin})

	_, err := m.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = m.Login(ctx, " ")
	assert.True(t, core.IsValidationError(err))
	_, err = m.Login(ctx, "nobody@example.com")
	assert.True(t, core.IsValidationError(err))

	usr, err := m.Login(ctx, admin.Email)
	require.NoError(t, err)
	assert.True(t, usr.IsAdmin())
	cur, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, admin, cur)

	require.NoError(t, m.Logout(ctx))
	_, err = m.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}
