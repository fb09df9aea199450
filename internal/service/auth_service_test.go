package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos-ws/internal/cart"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/store"
)

// memUserRepo is an in-memory UserRepository. offline flips every call into
// an error to simulate an unreachable store.
type memUserRepo struct {
	mu      sync.Mutex
	users   map[string]model.User
	offline bool
}

var errStoreDown = errors.New("store unreachable")

func newMemUserRepo(users ...model.User) *memUserRepo {
	m := &memUserRepo{users: make(map[string]model.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUserRepo) FindByID(id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return nil, errStoreDown
	}
	u, ok := m.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &u, nil
}

func (m *memUserRepo) FindAll() ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return nil, errStoreDown
	}
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUserRepo) Create(u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return errStoreDown
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memUserRepo) Update(u *model.User) error { return m.Create(u) }

func (m *memUserRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return errStoreDown
	}
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) UpdatePassword(id, hashed string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return errStoreDown
	}
	u := m.users[id]
	u.Password = hashed
	m.users[id] = u
	return nil
}

func (m *memUserRepo) UpdateTokenVersion(id, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return errStoreDown
	}
	u := m.users[id]
	u.TokenVersion = version
	m.users[id] = u
	return nil
}

func (m *memUserRepo) SeedDefaults(defaultPassword string) error { return nil }

func seededUser(t *testing.T, id, name string, role model.Role, password string) model.User {
	t.Helper()
	u := model.User{ID: id, Name: name, Role: role}
	require.NoError(t, u.SetPassword(password))
	return u
}

func TestLoginSuccessReturnsTokenAndViews(t *testing.T) {
	repo := newMemUserRepo(seededUser(t, "2", "Cashier 1", model.RoleStaff, "0"))
	svc := NewAuthService(repo, nil, cart.NewRegistry())

	resp, err := svc.Login("2", "0")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Cashier 1", resp.User.Name)
	assert.Equal(t, []string{"pos", "users"}, resp.Views)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newMemUserRepo(seededUser(t, "2", "Cashier 1", model.RoleStaff, "0"))
	svc := NewAuthService(repo, nil, cart.NewRegistry())

	_, err := svc.Login("2", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("missing", "0")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginFallsBackToSnapshotWhenStoreDown(t *testing.T) {
	user := seededUser(t, "99", "Kitchen", model.RoleKitchen, "0")

	snap := store.NewSnapshot(t.TempDir())
	snap.SaveUsers([]model.User{user})

	repo := newMemUserRepo(user)
	repo.offline = true

	svc := NewAuthService(repo, snap, cart.NewRegistry())

	resp, err := svc.Login("99", "0")
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen", "users"}, resp.Views)
}

func TestViewsPerRole(t *testing.T) {
	assert.Equal(t, []string{"pos", "kitchen", "reports", "users", "display"}, model.RoleAdmin.Views())
	assert.Equal(t, []string{"pos", "users"}, model.RoleStaff.Views())
	assert.Equal(t, []string{"kitchen", "users"}, model.RoleKitchen.Views())
	assert.Equal(t, []string{"display", "users"}, model.RoleDisplay.Views())
}

func TestLogoutDropsSessionCart(t *testing.T) {
	repo := newMemUserRepo(seededUser(t, "2", "Cashier 1", model.RoleStaff, "0"))
	carts := cart.NewRegistry()
	svc := NewAuthService(repo, nil, carts)

	carts.Get("2").AddItem(model.Product{ID: "1", Name: "Combo"})
	require.Equal(t, 1, carts.Get("2").Len())

	svc.Logout("2")
	assert.Zero(t, carts.Get("2").Len())
}

func TestValidateTokenRoundTrip(t *testing.T) {
	repo := newMemUserRepo(seededUser(t, "1", "Manager", model.RoleAdmin, "0"))
	svc := NewAuthService(repo, nil, cart.NewRegistry())

	resp, err := svc.Login("1", "0")
	require.NoError(t, err)

	user, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, model.RoleAdmin, user.Role)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
