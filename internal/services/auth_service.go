// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/agrifresh/agrifresh-backend/internal/config"
	"github.com/agrifresh/agrifresh-backend/internal/models"
	"github.com/agrifresh/agrifresh-backend/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type RegisterRequest struct {
	FirstName   string          `json:"firstname" validate:"required,max=100"`
	LastName    string          `json:"lastname" validate:"max=100"`
	Email       string          `json:"email" validate:"required,email"`
	Password    string          `json:"password" validate:"required,min=8"`
	PhoneNumber string          `json:"phonenumber" validate:"max=30"`
	Role        models.UserRole `json:"role" validate:"required,oneof=customer farmer"`
}

type LoginRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required"`
	Role     models.UserRole `json:"role" validate:"required,oneof=customer farmer"`
}

type AuthResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Check if user already exists
	var existingUser models.User
	if err := s.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return nil, errors.New("user with this email already exists")
	}

	user := &models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Where("email = ? AND role = ?", req.Email, req.Role).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return s.issueToken(&user)
}

func (s *AuthService) issueToken(user *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:      user,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}
