package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos-ws/internal/model"
)

func newTestUserService(t *testing.T) (UserService, *memUserRepo) {
	t.Helper()
	repo := newMemUserRepo(
		seededUser(t, model.SuperAdminID, "Coordinator", model.RoleAdmin, "0"),
		seededUser(t, "2", "Cashier 1", model.RoleStaff, "0"),
	)
	return NewUserService(repo, nil), repo
}

func TestCreateUserRejectsDuplicateID(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.CreateUser(&CreateUserRequest{ID: "2", Name: "Imposter", Password: "x", Role: model.RoleStaff})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, repo := newTestUserService(t)

	created, err := svc.CreateUser(&CreateUserRequest{ID: "7", Name: "Runner", Password: "hot-oil", Role: model.RoleKitchen})
	require.NoError(t, err)
	assert.Equal(t, model.RoleKitchen, created.Role)

	stored, err := repo.FindByID("7")
	require.NoError(t, err)
	assert.NotEqual(t, "hot-oil", stored.Password)
	assert.True(t, stored.CheckPassword("hot-oil"))
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.CreateUser(&CreateUserRequest{ID: "8", Name: "Ghost", Password: "x", Role: "janitor"})
	assert.Error(t, err)
}

func TestSuperAdminCannotBeDeleted(t *testing.T) {
	svc, repo := newTestUserService(t)

	assert.ErrorIs(t, svc.DeleteUser(model.SuperAdminID), ErrSuperAdminLocked)

	_, err := repo.FindByID(model.SuperAdminID)
	assert.NoError(t, err)

	// Regular accounts delete fine.
	require.NoError(t, svc.DeleteUser("2"))
}

func TestSuperAdminRenameRules(t *testing.T) {
	svc, _ := newTestUserService(t)

	// Someone else renaming the super admin is rejected.
	_, err := svc.UpdateUser(model.SuperAdminID, &UpdateUserRequest{Name: "Pwned", Role: model.RoleAdmin}, "2")
	assert.ErrorIs(t, err, ErrSuperAdminRenamed)

	// The super admin may rename themselves.
	updated, err := svc.UpdateUser(model.SuperAdminID, &UpdateUserRequest{Name: "Head Coordinator", Role: model.RoleAdmin}, model.SuperAdminID)
	require.NoError(t, err)
	assert.Equal(t, "Head Coordinator", updated.Name)

	// A non-rename edit of the super admin by another admin passes.
	_, err = svc.UpdateUser(model.SuperAdminID, &UpdateUserRequest{Name: "Head Coordinator", Role: model.RoleAdmin}, "2")
	assert.NoError(t, err)
}

func TestUpdateUserChangesRoleAndPassword(t *testing.T) {
	svc, repo := newTestUserService(t)

	newPass := "fresh"
	_, err := svc.UpdateUser("2", &UpdateUserRequest{Name: "Cashier 1", Password: &newPass, Role: model.RoleKitchen}, "1")
	require.NoError(t, err)

	stored, err := repo.FindByID("2")
	require.NoError(t, err)
	assert.Equal(t, model.RoleKitchen, stored.Role)
	assert.True(t, stored.CheckPassword("fresh"))
}
