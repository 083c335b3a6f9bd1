package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"shortlink/internal/domain/models"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = time.Hour

type UserStorage interface {
	UserCreate(ctx context.Context, user models.User) (models.User, error)
	UserGetByUsername(ctx context.Context, username string) (models.User, error)
}

// Service holds registered identities and issues/verifies the signed tokens
// that assert them. The signing key is fixed at construction and read-only
// afterwards, so token operations need no locking.
type Service struct {
	storage   UserStorage
	secretKey []byte
	tokenTTL  time.Duration
}

func NewService(storage UserStorage, secretKey string, tokenTTL time.Duration) (*Service, error) {
	key, err := base64.StdEncoding.DecodeString(secretKey)
	if err != nil || len(key) < 32 {
		return nil, errors.New("invalid JWT secret key: must be at least 32 bytes when decoded")
	}

	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}

	return &Service{
		storage:   storage,
		secretKey: key,
		tokenTTL:  tokenTTL,
	}, nil
}

// Register creates a new identity. The raw secret is bcrypt-hashed before it
// reaches the storage.
func (s *Service) Register(ctx context.Context, username, secret string) (models.User, error) {
	if username == "" || secret == "" {
		return models.User{}, models.ErrInvalidData
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash secret: %w", err)
	}

	user, err := s.storage.UserCreate(ctx, models.User{
		Username:   username,
		SecretHash: string(hash),
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUsername) {
			return models.User{}, models.ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and returns a signed token for the matched
// identity. The bcrypt comparison is constant-time, so a wrong secret and an
// unknown username are indistinguishable by latency.
func (s *Service) Login(ctx context.Context, username, secret string) (string, error) {
	user, err := s.storage.UserGetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.SecretHash), []byte(secret)) != nil {
		return "", models.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return token, nil
}

type jwtClaims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

func (s *Service) IssueToken(user models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   fmt.Sprintf("%d", user.ID),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// VerifyToken checks the signature and the validity window of a token string
// and returns the claims it carries. It is a pure function of the token, the
// signing key and the clock; no storage lookup happens here. The three failure
// kinds are distinct so callers can map them to different responses.
func (s *Service) VerifyToken(tokenString string) (models.TokenClaims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secretKey, nil
		})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return models.TokenClaims{}, models.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return models.TokenClaims{}, models.ErrTokenSignature
		default:
			return models.TokenClaims{}, models.ErrTokenMalformed
		}
	}

	if !token.Valid {
		return models.TokenClaims{}, models.ErrTokenSignature
	}

	return models.TokenClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
