package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront-backend/models"
	"storefront-backend/repository"
)

// AuthService registers accounts and authenticates logins.
type AuthService struct {
	users  repository.UserRepository
	tokens *TokenService
	logger *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tokens *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Register creates an account with a bcrypt-hashed password and returns a
// session token.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *ServiceError) {
	if req.Password != req.ConfirmPassword {
		return nil, &ServiceError{StatusCode: 400, Message: "Passwords do not match"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create account"}
	}

	user := &models.User{
		Email:    strings.ToLower(req.Email),
		Password: string(hash),
		Name:     req.Name,
		Role:     models.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Email already registered"}
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create account"}
	}

	token, err := s.tokens.Generate(user.ID.String(), user.Email, user.Role)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create session"}
	}

	s.logger.Info("User registered", zap.String("email", user.Email))
	return &models.AuthResponse{Token: token, User: *user}, nil
}

// Login checks credentials and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *ServiceError) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 401, Message: "Invalid email or password"}
		}
		s.logger.Error("Login lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Login failed"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, &ServiceError{StatusCode: 401, Message: "Invalid email or password"}
	}

	token, err := s.tokens.Generate(user.ID.String(), user.Email, user.Role)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create session"}
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}
