package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"smartinvoice/internal/config"
	"smartinvoice/internal/domain"
)

// Claims represents the JWT claims issued on login.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginInput is the DTO for login requests. The app is single-user, so the
// only credential is a password.
type LoginInput struct {
	Password string `json:"password" binding:"required"`
}

// RefreshInput is the DTO for token refresh requests.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthService defines the authentication contract.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ValidateToken(tokenString string) (*Claims, error)
	// Enabled reports whether a password is configured. When false the API
	// is open and the auth middleware passes everything through.
	Enabled() bool
}

type authService struct {
	passwordHash []byte
	cfg          config.AuthConfig
}

// NewAuthService creates a new AuthService implementation. The configured
// password may be either a bcrypt hash or plaintext; plaintext is hashed at
// startup so comparisons always go through bcrypt.
func NewAuthService(cfg config.AuthConfig) (AuthService, error) {
	s := &authService{cfg: cfg}
	if cfg.Password == "" {
		return s, nil
	}

	if _, err := bcrypt.Cost([]byte(cfg.Password)); err == nil {
		s.passwordHash = []byte(cfg.Password)
		return s, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing configured password: %w", err)
	}
	s.passwordHash = hash
	return s, nil
}

func (s *authService) Enabled() bool {
	return s.passwordHash != nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	if !s.Enabled() {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.generateTokenPair()
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if _, err := s.validateTokenString(refreshToken, "refresh"); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return s.generateTokenPair()
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return s.validateTokenString(tokenString, "access")
}

func (s *authService) generateTokenPair() (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.AccessTokenExpiry)
	refreshExpiry := now.Add(s.cfg.RefreshTokenExpiry)

	accessClaims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "owner",
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExpiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{"access"},
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	refreshClaims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "owner",
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExpiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{"refresh"},
		},
	}

	refreshTokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshTokenObj.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresAt:    accessExpiry,
	}, nil
}

func (s *authService) validateTokenString(tokenString, audience string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	aud, _ := claims.GetAudience()
	for _, a := range aud {
		if a == audience {
			return claims, nil
		}
	}
	return nil, domain.ErrUnauthorized
}
