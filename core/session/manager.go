package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
)

// Directory finds users by email; *store.Store is one.
type Directory interface {
	FindUser(email string) (academy.User, error)
}

// Manager logs users in & out. There is no password: the email picks the account.
type Manager struct {
	store Store
	users Directory
}

func NewManager(store Store, users Directory) *Manager {
	return &Manager{store: store, users: users}
}

func (m *Manager) Login(ctx context.Context, email string) (academy.User, error) {
	if core.CleanString(email) == "" {
		return academy.User{}, core.NewFieldError("email", "this field is required")
	}
	usr, err := m.users.FindUser(email)
	if err != nil {
		if errors.Is(err, academy.ErrNotFound) {
			return academy.User{}, core.NewFieldError("email", "no account uses this email")
		}
		return academy.User{}, err
	}
	if err := m.store.Save(ctx, usr); err != nil {
		return academy.User{}, err
	}
	return usr, nil
}

func (m *Manager) Logout(ctx context.Context) error {
	return m.store.Clear(ctx)
}

// Current returns the logged-in user, ErrNoSession if none.
func (m *Manager) Current(ctx context.Context) (academy.User, error) {
	return m.store.Load(ctx)
}
