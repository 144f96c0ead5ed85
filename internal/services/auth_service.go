package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hallbook/hallbook-api/internal/config"
	"github.com/hallbook/hallbook-api/internal/models"
	"github.com/hallbook/hallbook-api/internal/repository"
)

// AuthService handles authentication operations. Issued JWTs carry the
// user's organization id; every downstream read and write is scoped to
// that claim.
type AuthService struct {
	repos *repository.Repositories
	cfg   *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(repos *repository.Repositories, cfg *config.Config) *AuthService {
	return &AuthService{repos: repos, cfg: cfg}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	Token        string              `json:"token"`
	RefreshToken string              `json:"refresh_token"`
	User         models.UserResponse `json:"user"`
}

// Login authenticates a user and returns tokens. Unknown email and bad
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repos.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidPassword
	}
	if !user.Active {
		return nil, ErrUnauthorized
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidPassword
	}

	now := time.Now()
	user.LastLoginAt = &now
	_ = s.repos.User.Update(ctx, user)

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token and returns a fresh token pair. The
// old token is consumed whether or not the rotation succeeds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	rt, err := s.repos.User.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if rt.IsExpired() {
		_ = s.repos.User.DeleteRefreshToken(ctx, refreshToken)
		return nil, ErrUnauthorized
	}

	user, err := s.repos.User.FindByID(ctx, rt.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !user.Active {
		return nil, ErrUnauthorized
	}

	if err := s.repos.User.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// Logout invalidates a refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.repos.User.DeleteRefreshToken(ctx, refreshToken)
}

// Register creates an organization together with its first admin user.
func (s *AuthService) Register(ctx context.Context, orgName, email, password, fullName string) (*LoginResult, error) {
	if orgName == "" {
		return nil, NewValidationError("organization_name", "is required")
	}
	if email == "" {
		return nil, NewValidationError("email", "is required")
	}
	if len(password) < 8 {
		return nil, NewValidationError("password", "must be at least 8 characters")
	}
	if _, err := s.repos.User.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicate
	}

	user := &models.User{
		Email:    email,
		FullName: fullName,
		Role:     models.RoleAdmin,
		Active:   true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	err := s.repos.Atomically(ctx, func(tx *repository.Repositories) error {
		org := &models.Organization{Name: orgName, Currency: "INR"}
		if err := tx.User.CreateOrganization(ctx, org); err != nil {
			return err
		}
		user.OrganizationID = org.ID
		return tx.User.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	token, err := s.generateJWT(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}

// generateJWT creates a new JWT token for a user
func (s *AuthService) generateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":         user.ID,
		"organization_id": user.OrganizationID,
		"email":           user.Email,
		"role":            user.Role,
		"exp":             time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":             time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// generateRefreshToken creates and stores a new refresh token
func (s *AuthService) generateRefreshToken(ctx context.Context, userID uint) (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(bytes)

	expiresAt := time.Now().Add(30 * 24 * time.Hour)
	rt := &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: &expiresAt,
	}
	if err := s.repos.User.CreateRefreshToken(ctx, rt); err != nil {
		return "", err
	}
	return token, nil
}
