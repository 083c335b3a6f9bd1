package repository

import (
	"context"
	"shortlink/internal/domain/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_storage.go -package=mocks
type (
	UserStorage interface {
		// UserCreate inserts a new user. The duplicate check and the insert
		// are a single atomic unit. Returns models.ErrDuplicateUsername if
		// the username is already taken.
		UserCreate(ctx context.Context, user models.User) (models.User, error)
		UserGetByUsername(ctx context.Context, username string) (models.User, error)
	}

	LinkStorage interface {
		// LinkCreate inserts a new short link. The code uniqueness check and
		// the insert are a single atomic unit. Returns models.ErrCodeTaken if
		// the code is already assigned.
		LinkCreate(ctx context.Context, link models.ShortLink) (models.ShortLink, error)
		LinkGetByCode(ctx context.Context, code string) (models.ShortLink, error)
		LinkGetBatchByUser(ctx context.Context, userID int64) ([]models.ShortLink, error)
		Ping(ctx context.Context) error
	}
)
