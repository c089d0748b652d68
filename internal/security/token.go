package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// UserClaims carries the request-scoped session: who the user is, which role
// they hold and whether 2FA was verified for this session.
type UserClaims struct {
	UserID            int32     `json:"user_id"`
	Email             string    `json:"email,omitempty"`
	Role              string    `json:"role,omitempty"`
	Type              TokenType `json:"type"`
	TwoFactorVerified bool      `json:"2fa_verified"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAccessToken(userID int32, email, role string, twoFactorVerified bool) (string, error)
	GenerateRefreshToken(userID int32, email string, twoFactorVerified bool) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenManager(secret string, accessExpiry, refreshExpiry time.Duration) TokenManager {
	if accessExpiry <= 0 {
		accessExpiry = time.Hour
	}
	if refreshExpiry <= 0 {
		refreshExpiry = 7 * 24 * time.Hour
	}
	return &tokenManager{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (m *tokenManager) GenerateAccessToken(userID int32, email, role string, twoFactorVerified bool) (string, error) {
	claims := UserClaims{
		UserID:            userID,
		Email:             email,
		Role:              role,
		Type:              TokenTypeAccess,
		TwoFactorVerified: twoFactorVerified,
		RegisteredClaims:  m.registered(userID, m.accessExpiry, "api-access"),
	}
	return m.sign(claims)
}

// GenerateRefreshToken carries the 2FA flag so a refreshed session keeps its
// verification.
func (m *tokenManager) GenerateRefreshToken(userID int32, email string, twoFactorVerified bool) (string, error) {
	claims := UserClaims{
		UserID:            userID,
		Email:             email,
		Type:              TokenTypeRefresh,
		TwoFactorVerified: twoFactorVerified,
		RegisteredClaims:  m.registered(userID, m.refreshExpiry, "token-refresh"),
	}
	return m.sign(claims)
}

func (m *tokenManager) registered(userID int32, ttl time.Duration, audience string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   strconv.Itoa(int(userID)),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    "admission-portal",
		Audience:  jwt.ClaimStrings{audience},
		ID:        uuid.NewString(),
	}
}

func (m *tokenManager) sign(claims UserClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		if claims.UserID == 0 && claims.Subject != "" {
			uid, _ := strconv.Atoi(claims.Subject)
			claims.UserID = int32(uid)
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
