// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bayt-organic/storefront/internal/pkg/auth"
	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/sirupsen/logrus"
)

// ErrInvalidCredentials is returned when an email and password do not match
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service handles user business logic
type Service struct {
	repo            Repository
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	tokenTTL        time.Duration
	log             logrus.FieldLogger
}

// NewService creates a new user service
func NewService(repo Repository, pm *auth.PasswordManager, jm *auth.JWTManager, tokenTTL time.Duration, log logrus.FieldLogger) *Service {
	return &Service{
		repo:            repo,
		passwordManager: pm,
		jwtManager:      jm,
		tokenTTL:        tokenTTL,
		log:             log,
	}
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login authenticates a user and issues an access token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	if err := s.repo.TouchLastLogin(ctx, u.ID, time.Now().UTC()); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("failed to update last login")
	}

	return &AuthResponse{
		User:        u,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

// GetByID returns an active user. Malformed ids are reported as not found.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	if !entityid.IsValid(id) {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}
