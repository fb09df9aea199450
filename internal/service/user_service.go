package service

import (
	"errors"
	"fmt"
	"log"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/store"
	"go-pos-ws/pkg/validator"
)

var (
	ErrUserExists        = errors.New("user id already exists")
	ErrSuperAdminLocked  = errors.New("the super admin account cannot be deleted")
	ErrSuperAdminRenamed = errors.New("only the super admin may rename their own account")
)

type CreateUserRequest struct {
	ID       string     `json:"id" validate:"required"`
	Name     string     `json:"name" validate:"required"`
	Password string     `json:"password" validate:"required,min=1"`
	Role     model.Role `json:"role" validate:"required,user_role"`
}

type UpdateUserRequest struct {
	Name     string     `json:"name" validate:"required"`
	Password *string    `json:"password,omitempty"`
	Role     model.Role `json:"role" validate:"required,user_role"`
}

// UserService manages operator accounts. The super admin (fixed id) is exempt
// from deletion and from being renamed by anyone else.
type UserService interface {
	CreateUser(req *CreateUserRequest) (*model.UserResponse, error)
	UpdateUser(userID string, req *UpdateUserRequest, actorID string) (*model.UserResponse, error)
	DeleteUser(userID string) error
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id string) (*model.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	snap     *store.Snapshot
}

func NewUserService(userRepo repository.UserRepository, snap *store.Snapshot) UserService {
	return &userService{userRepo: userRepo, snap: snap}
}

func (s *userService) CreateUser(req *CreateUserRequest) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	if !model.ValidRole(req.Role) {
		return nil, errors.New("unknown role")
	}

	if existing, _ := s.userRepo.FindByID(req.ID); existing != nil {
		return nil, ErrUserExists
	}

	user := &model.User{
		ID:   req.ID,
		Name: req.Name,
		Role: req.Role,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	s.refreshSnapshot()

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateUser(userID string, req *UpdateUserRequest, actorID string) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	if !model.ValidRole(req.Role) {
		return nil, errors.New("unknown role")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if userID == model.SuperAdminID && actorID != model.SuperAdminID && req.Name != user.Name {
		return nil, ErrSuperAdminRenamed
	}

	user.Name = req.Name
	user.Role = req.Role
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	s.refreshSnapshot()

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) DeleteUser(userID string) error {
	if userID == model.SuperAdminID {
		return ErrSuperAdminLocked
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return err
	}
	s.refreshSnapshot()
	return nil
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]model.UserResponse, len(users))
	for i, u := range users {
		out[i] = u.ToResponse()
	}
	return out, nil
}

func (s *userService) GetUserByID(id string) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

// refreshSnapshot mirrors the user table into the local fallback file after
// each mutation so offline logins see current accounts.
func (s *userService) refreshSnapshot() {
	if s.snap == nil {
		return
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		log.Printf("users: snapshot refresh skipped: %v", err)
		return
	}
	s.snap.SaveUsers(users)
}
