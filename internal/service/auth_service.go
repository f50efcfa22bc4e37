package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- Error Definitions ---
var (
	ErrTokenGeneration = errors.New("failed to generate authentication token")
	ErrMissingOwner    = errors.New("owner id cannot be empty")
)

// --- Service Interface ---

// AuthService issues the bearer tokens the API accepts. Credentials are
// checked by whoever asks for a token, never here.
type AuthService interface {
	IssueToken(ownerID string) (string, time.Time, error)
	GetJWTSecret() string
}

// --- Service Implementation ---

type authService struct {
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	OwnerID string `json:"uid"`
	jwt.RegisteredClaims
}

// IssueToken signs a token naming ownerID as the actor.
func (s *authService) IssueToken(ownerID string) (string, time.Time, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", time.Time{}, ErrMissingOwner
	}

	now := s.now()
	expiresAt := now.Add(s.jwtExpiration)
	claims := &jwtClaims{
		OwnerID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "gymmora",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, ErrTokenGeneration
	}
	return signedToken, expiresAt, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
