package service

import (
	"errors"

	"go-taskboard-ws/internal/model"
	"go-taskboard-ws/internal/repository"
	"go-taskboard-ws/pkg/jwt"
)

// ErrInvalidCredentials covers both unknown username and wrong password so
// the response never reveals which factor failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
}

type LoginResponse struct {
	Token       string             `json:"token"`
	User        model.UserResponse `json:"user"`
	Permissions []uint             `json:"permissions"` // Flat permission IDs for easy checking
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	// 1. Find user by exact username match
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Verify password (bcrypt compare, deliberately slow)
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Resolve the effective permission set across all assigned roles
	permissions := user.EffectivePermissions()

	// 4. Issue the token; no session state is kept server-side
	token, err := jwt.GenerateToken(user.ID, user.Username, permissions)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:       token,
		User:        user.ToResponse(),
		Permissions: permissions,
	}, nil
}
