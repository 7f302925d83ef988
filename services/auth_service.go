package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/models"
	"storefront/utils"
)

type AuthService struct {
	users     UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(users UserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrEmptyPassword) {
			return nil, models.FieldInvalid("password", msgBlank)
		}
		return nil, err
	}

	user := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		FullName: strings.TrimSpace(req.FullName),
		Role:     models.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, models.Conflict("Email already registered")
		}
		return nil, err
	}

	return s.issue(user)
}

// Login answers Unauthorized for both unknown emails and wrong passwords.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(user.Password, req.Password) {
		return nil, models.Unauthorized("Invalid email or password")
	}
	return s.issue(user)
}

func (s *AuthService) Profile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NotFound("User not found")
	}
	return user, err
}

func (s *AuthService) issue(user *models.User) (*models.LoginResponse, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: *user}, nil
}
