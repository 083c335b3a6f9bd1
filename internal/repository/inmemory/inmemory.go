package inmemory

import (
	"context"
	"sync"
	"time"

	"shortlink/internal/domain/models"
)

const initLastID = 0

// Storage keeps all state in process memory. A single mutex guards each of
// the two stores; create operations do their uniqueness check and insert
// under the same lock so concurrent requests can never both claim the same
// username or short code.
type Storage struct {
	usersMu     sync.RWMutex
	usersByName map[string]models.User
	lastUserID  int64

	linksMu     sync.RWMutex
	linksByCode map[string]models.ShortLink
	linksByUser map[int64][]models.ShortLink
	lastLinkID  int64
}

func NewStorage() *Storage {
	return &Storage{
		usersByName: make(map[string]models.User),
		lastUserID:  initLastID,
		linksByCode: make(map[string]models.ShortLink),
		linksByUser: make(map[int64][]models.ShortLink),
		lastLinkID:  initLastID,
	}
}

func (s *Storage) UserCreate(ctx context.Context, user models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	if user.Username == "" {
		return models.User{}, models.ErrInvalidData
	}

	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	if _, exists := s.usersByName[user.Username]; exists {
		return models.User{}, models.ErrDuplicateUsername
	}

	// IDs come from an explicit counter, never from the current map size,
	// so no identifier is ever reassigned.
	s.lastUserID++
	user.ID = s.lastUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	s.usersByName[user.Username] = user
	return user, nil
}

func (s *Storage) UserGetByUsername(ctx context.Context, username string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	user, exists := s.usersByName[username]
	if !exists {
		return models.User{}, models.ErrNotFound
	}
	return user, nil
}

func (s *Storage) LinkCreate(ctx context.Context, link models.ShortLink) (models.ShortLink, error) {
	if err := ctx.Err(); err != nil {
		return models.ShortLink{}, err
	}

	if link.Code == "" || link.OriginalURL == "" {
		return models.ShortLink{}, models.ErrInvalidData
	}

	s.linksMu.Lock()
	defer s.linksMu.Unlock()

	if _, exists := s.linksByCode[link.Code]; exists {
		return models.ShortLink{}, models.ErrCodeTaken
	}

	s.lastLinkID++
	link.ID = s.lastLinkID
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}

	// Both views share one lock, so the global code set and the per-user
	// sequence never diverge.
	s.linksByCode[link.Code] = link
	s.linksByUser[link.UserID] = append(s.linksByUser[link.UserID], link)
	return link, nil
}

func (s *Storage) LinkGetByCode(ctx context.Context, code string) (models.ShortLink, error) {
	if err := ctx.Err(); err != nil {
		return models.ShortLink{}, err
	}

	s.linksMu.RLock()
	defer s.linksMu.RUnlock()

	link, exists := s.linksByCode[code]
	if !exists {
		return models.ShortLink{}, models.ErrNotFound
	}
	return link, nil
}

func (s *Storage) LinkGetBatchByUser(ctx context.Context, userID int64) ([]models.ShortLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.linksMu.RLock()
	defer s.linksMu.RUnlock()

	links := make([]models.ShortLink, len(s.linksByUser[userID]))
	copy(links, s.linksByUser[userID])
	return links, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}
