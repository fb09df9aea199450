package service

import (
	"errors"
	"log"

	"github.com/google/uuid"

	"go-pos-ws/internal/cart"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/store"
	"go-pos-ws/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid user or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService interface {
	Login(userID, password string) (*LoginResponse, error)
	Logout(sessionID string)
	ValidateToken(tokenString string) (*model.UserResponse, error)
	LoginOptions() []model.UserResponse
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
	Views []string           `json:"views"`
}

type authService struct {
	userRepo repository.UserRepository
	snap     *store.Snapshot
	carts    *cart.Registry
}

func NewAuthService(userRepo repository.UserRepository, snap *store.Snapshot, carts *cart.Registry) AuthService {
	return &authService{
		userRepo: userRepo,
		snap:     snap,
		carts:    carts,
	}
}

// lookup reads the user from the database, falling back to the local user
// snapshot so the register can still authenticate while the store is down.
func (s *authService) lookup(userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err == nil {
		return user, nil
	}
	if s.snap != nil {
		for _, u := range s.snap.LoadUsers() {
			if u.ID == userID {
				log.Printf("auth: database lookup failed, using local snapshot for user %s", userID)
				return &u, nil
			}
		}
	}
	return nil, ErrUserNotFound
}

func (s *authService) Login(userID, password string) (*LoginResponse, error) {
	user, err := s.lookup(userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session per account: rotate the token version. Best effort when
	// the store is unreachable; the old token then stays valid until the next
	// successful rotation.
	newVersion := uuid.NewString()
	if err := s.userRepo.UpdateTokenVersion(user.ID, newVersion); err != nil {
		log.Printf("auth: token version rotation failed for %s: %v", user.ID, err)
		newVersion = user.TokenVersion
	}

	token, err := jwt.GenerateToken(user.ID, user.Name, string(user.Role), newVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
		Views: user.Role.Views(),
	}, nil
}

// Logout drops the session cart. Token invalidation happens naturally on the
// next login's version rotation.
func (s *authService) Logout(sessionID string) {
	s.carts.Drop(sessionID)
}

func (s *authService) ValidateToken(tokenString string) (*model.UserResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.lookup(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	resp := user.ToResponse()
	return &resp, nil
}

// LoginOptions lists the accounts the login screen offers, without
// credentials. Falls back to the snapshot when the store is unreachable.
func (s *authService) LoginOptions() []model.UserResponse {
	users, err := s.userRepo.FindAll()
	if err != nil && s.snap != nil {
		users = s.snap.LoadUsers()
	}

	out := make([]model.UserResponse, len(users))
	for i, u := range users {
		out[i] = u.ToResponse()
	}
	return out
}
