// Package session persists the logged-in user between runs, under the single key "currentUser".
package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
)

const Key = "currentUser"

var ErrNoSession = errors.New("no user is logged in")

// Store keeps the current user.
type Store interface {
	// Load returns ErrNoSession when nobody is logged in.
	Load(ctx context.Context) (academy.User, error)
	Save(ctx context.Context, usr academy.User) error
	Clear(ctx context.Context) error
}

// New returns the store of conf.Backend: "file" (default) or "redis".
func New(conf *core.Config) (Store, error) {
	switch strings.ToLower(conf.Session.Backend) {
	case "", "file":
		return NewFileStore(conf.Session.Dir), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		return NewRedisStore(client, conf.Session.Prefix, conf.Session.TTL), nil
	}
	return nil, errors.Errorf("unknown session backend %q", conf.Session.Backend)
}

func decode(b []byte) (academy.User, error) {
	var usr academy.User
	if err := json.Unmarshal(b, &usr); err != nil {
		return academy.User{}, errors.Wrap(err, "decoding session")
	}
	if usr.ID == "" {
		return academy.User{}, ErrNoSession
	}
	return usr, nil
}

// FileStore keeps the user as JSON in <dir>/currentUser.json.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, Key+".json")}
}

func (s *FileStore) Load(_ context.Context) (academy.User, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return academy.User{}, ErrNoSession
	}
	if err != nil {
		return academy.User{}, errors.Wrap(err, "reading session")
	}
	return decode(b)
}

func (s *FileStore) Save(_ context.Context, usr academy.User) error {
	b, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	return errors.Wrap(os.WriteFile(s.path, b, 0o600), "writing session")
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session")
	}
	return nil
}

// RedisStore keeps the user as JSON under <prefix>currentUser, expiring after ttl (0: never).
type RedisStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: prefix + Key, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context) (academy.User, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return academy.User{}, ErrNoSession
	}
	if err != nil {
		return academy.User{}, errors.Wrap(err, "reading session")
	}
	return decode(b)
}

func (s *RedisStore) Save(ctx context.Context, usr academy.User) error {
	b, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	return errors.Wrap(s.client.Set(ctx, s.key, b, s.ttl).Err(), "writing session")
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return errors.Wrap(s.client.Del(ctx, s.key).Err(), "removing session")
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
