package models

import (
	"errors"
	"time"
)

type (
	User struct {
		ID         int64
		Username   string
		SecretHash string // bcrypt hash, never the raw secret
		CreatedAt  time.Time
	}

	ShortLink struct {
		ID          int64
		Code        string // short code, unique across all users
		OriginalURL string
		UserID      int64
		CreatedAt   time.Time
	}

	// TokenClaims is the verified identity assertion carried by a bearer token.
	TokenClaims struct {
		UserID    int64
		Username  string
		IssuedAt  time.Time
		ExpiresAt time.Time
	}
)

var (
	ErrInvalidData        = errors.New("invalid input data")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenMalformed     = errors.New("token is malformed")
	ErrTokenSignature     = errors.New("token signature is invalid")
	ErrTokenExpired       = errors.New("token is expired")
	ErrMissingDestination = errors.New("original URL is required")
	ErrCodeTaken          = errors.New("short code is already taken")
	ErrNotFound           = errors.New("short link not found")
)
