package shortener

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"shortlink/internal/domain/models"
)

const (
	maxGenerateAttempts = 5
	codeLength          = 6
	codeAlphabet        = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

type LinkStorage interface {
	LinkCreate(ctx context.Context, link models.ShortLink) (models.ShortLink, error)
	LinkGetByCode(ctx context.Context, code string) (models.ShortLink, error)
	LinkGetBatchByUser(ctx context.Context, userID int64) ([]models.ShortLink, error)
	Ping(ctx context.Context) error
}

// Shortener implements the link registry: assigning codes, resolving them
// and listing a user's links. Uniqueness is enforced by the storage, so each
// create attempt is atomic and a lost race surfaces as models.ErrCodeTaken.
type Shortener struct {
	storage LinkStorage
	baseURL string
}

func NewShortener(storage LinkStorage, baseURL string) *Shortener {
	return &Shortener{
		storage: storage,
		baseURL: baseURL,
	}
}

// Shorten creates a short link for originalURL owned by userID. A non-empty
// requestedCode is used verbatim and gets exactly one attempt; a generated
// code is retried a bounded number of times on random collision.
func (s *Shortener) Shorten(ctx context.Context, userID int64, originalURL, requestedCode string) (models.ShortLink, error) {
	if originalURL == "" {
		return models.ShortLink{}, models.ErrMissingDestination
	}
	if userID <= 0 {
		return models.ShortLink{}, models.ErrInvalidData
	}

	link := models.ShortLink{
		OriginalURL: originalURL,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}

	if requestedCode != "" {
		link.Code = requestedCode
		created, err := s.storage.LinkCreate(ctx, link)
		if err != nil {
			if errors.Is(err, models.ErrCodeTaken) {
				return models.ShortLink{}, models.ErrCodeTaken
			}
			return models.ShortLink{}, fmt.Errorf("failed to create link: %w", err)
		}
		return created, nil
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		link.Code = generateCode()

		created, err := s.storage.LinkCreate(ctx, link)
		if err == nil {
			return created, nil
		}
		if errors.Is(err, models.ErrCodeTaken) {
			continue
		}
		return models.ShortLink{}, fmt.Errorf("failed to create link: %w", err)
	}

	return models.ShortLink{}, fmt.Errorf("no free code after %d attempts: %w", maxGenerateAttempts, models.ErrCodeTaken)
}

// Resolve returns the link addressed by code. Open to anyone; the lookup is
// over the global code set, not a per-user scan.
func (s *Shortener) Resolve(ctx context.Context, code string) (models.ShortLink, error) {
	if code == "" {
		return models.ShortLink{}, models.ErrNotFound
	}

	link, err := s.storage.LinkGetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ShortLink{}, models.ErrNotFound
		}
		return models.ShortLink{}, fmt.Errorf("failed to get link: %w", err)
	}
	return link, nil
}

// UserLinks returns the user's links in creation order, empty if none exist.
func (s *Shortener) UserLinks(ctx context.Context, userID int64) ([]models.ShortLink, error) {
	if userID <= 0 {
		return nil, models.ErrInvalidData
	}

	links, err := s.storage.LinkGetBatchByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user links: %w", err)
	}
	return links, nil
}

// ShortURL returns the full short URL for a code.
func (s *Shortener) ShortURL(code string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, code)
}

func (s *Shortener) PingStorage(ctx context.Context) error {
	if err := s.storage.Ping(ctx); err != nil {
		return fmt.Errorf("storage ping failed: %w", err)
	}
	return nil
}

func generateCode() string {
	b := make([]byte, codeLength)
	letterCount := big.NewInt(int64(len(codeAlphabet)))

	for i := range b {
		n, _ := rand.Int(rand.Reader, letterCount)
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b)
}
