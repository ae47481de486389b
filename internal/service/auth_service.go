package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/apperrors"
	"backoffice/internal/audit"
	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/requestctx"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// --- DTOs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// --- Interface ---

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	recorder *audit.Recorder
	secret   []byte
}

func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, recorder *audit.Recorder, secret []byte) AuthService {
	return &authService{users: users, tokens: tokens, recorder: recorder, secret: secret}
}

// --- Implementation ---

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	// Status gates panel access before any permission is consulted.
	if !user.CanAccessPanel() {
		return nil, apperrors.Conflict("account is %s", user.Status)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	// The authenticated principal is not in context yet at login time.
	audit.LoginRecorded(requestctx.WithActor(ctx, user), s.recorder, user)

	return tokens, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	stored, err := s.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokens.Delete(ctx, stored.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.CanAccessPanel() {
		return nil, apperrors.Conflict("account is %s", user.Status)
	}

	// Rotate: the presented token is single-use.
	if err := s.tokens.Delete(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	user := requestctx.Actor(ctx)

	if refreshToken != "" {
		if stored, err := s.tokens.FindByToken(ctx, refreshToken); err == nil {
			if user == nil {
				if u, lookupErr := s.users.GetByID(ctx, stored.UserID); lookupErr == nil {
					user = u
				}
			}
			if err := s.tokens.Delete(ctx, stored.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
	}

	if user != nil {
		audit.LogoutRecorded(requestctx.WithActor(ctx, user), s.recorder, user)
	}
	return nil
}

// --- Helpers ---

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	roleSlug := ""
	if user.Role != nil {
		roleSlug = user.Role.Slug
	}

	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": roleSlug,
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, &model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{
		Token:        signed,
		RefreshToken: refresh,
		User:         toUserResponse(user),
	}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
