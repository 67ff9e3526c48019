package jwthelper

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	PurposeSession  = "session"
	PurposeDownload = "download"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongPurpose = errors.New("token was issued for another purpose")
)

type Claims struct {
	jwt.RegisteredClaims
	AdminID   uint   `json:"admin_id,omitempty"`
	ResultID  uint   `json:"result_id,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Purpose   string `json:"purpose"`
}

// GenerateToken signs an admin session token.
func GenerateToken(key []byte, adminID uint, userAgent string, ttl time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(adminID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AdminID:   adminID,
		UserAgent: userAgent,
		Purpose:   PurposeSession,
	}

	token, err := sign(key, claims)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// GenerateDownloadToken signs a short-lived token that lets the holder
// download one result sheet.
func GenerateDownloadToken(key []byte, resultID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		ResultID: resultID,
		Purpose:  PurposeDownload,
	}

	return sign(key, claims)
}

func sign(key []byte, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}
	return signed, nil
}

// ParseToken validates signature, expiry and purpose.
func ParseToken(key []byte, tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}

	return claims, nil
}
