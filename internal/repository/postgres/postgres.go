package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shortlink/internal/domain/models"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	storageMaxOpenConnections     = 5
	storageMaxIdleConnections     = 2
	storageConnectionsMaxIdleTime = 2 * time.Minute
	storageConnectionsLifetime    = 30 * time.Minute
	storagePingTimeout            = 5 * time.Second
)

// Storage is the Postgres-backed implementation of the user and link stores.
// Uniqueness is enforced by the UNIQUE constraints, so check-and-insert is
// atomic on the database side.
type Storage struct {
	db *sql.DB
}

func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	initConnectionPools(db)

	ctxPing, cancel := context.WithTimeout(ctx, storagePingTimeout)
	defer cancel()

	if err := db.PingContext(ctxPing); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Storage{db: db}, nil
}

func initConnectionPools(db *sql.DB) {
	db.SetMaxOpenConns(storageMaxOpenConnections)
	db.SetMaxIdleConns(storageMaxIdleConnections)
	db.SetConnMaxIdleTime(storageConnectionsMaxIdleTime)
	db.SetConnMaxLifetime(storageConnectionsLifetime)
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			secret_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS links (
			id BIGSERIAL PRIMARY KEY,
			code VARCHAR(32) UNIQUE NOT NULL,
			original_url TEXT NOT NULL,
			user_id BIGINT NOT NULL REFERENCES users (id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create links table: %w", err)
	}
	return nil
}

func (p *Storage) UserCreate(ctx context.Context, user models.User) (models.User, error) {
	if user.Username == "" {
		return models.User{}, models.ErrInvalidData
	}

	var created models.User
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO users (username, secret_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
		RETURNING id, username, secret_hash, created_at`,
		user.Username, user.SecretHash,
	).Scan(&created.ID, &created.Username, &created.SecretHash, &created.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("database error: %w", err)
	}

	return created, nil
}

func (p *Storage) UserGetByUsername(ctx context.Context, username string) (models.User, error) {
	if username == "" {
		return models.User{}, models.ErrInvalidData
	}

	var user models.User
	err := p.db.QueryRowContext(ctx,
		"SELECT id, username, secret_hash, created_at FROM users WHERE username = $1",
		username,
	).Scan(&user.ID, &user.Username, &user.SecretHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (p *Storage) LinkCreate(ctx context.Context, link models.ShortLink) (models.ShortLink, error) {
	if link.Code == "" || link.OriginalURL == "" {
		return models.ShortLink{}, models.ErrInvalidData
	}

	var created models.ShortLink
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO links (code, original_url, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO NOTHING
		RETURNING id, code, original_url, user_id, created_at`,
		link.Code, link.OriginalURL, link.UserID,
	).Scan(&created.ID, &created.Code, &created.OriginalURL, &created.UserID, &created.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ShortLink{}, models.ErrCodeTaken
		}
		return models.ShortLink{}, fmt.Errorf("database error: %w", err)
	}

	return created, nil
}

func (p *Storage) LinkGetByCode(ctx context.Context, code string) (models.ShortLink, error) {
	if code == "" {
		return models.ShortLink{}, models.ErrInvalidData
	}

	var link models.ShortLink
	err := p.db.QueryRowContext(ctx,
		"SELECT id, code, original_url, user_id, created_at FROM links WHERE code = $1",
		code,
	).Scan(&link.ID, &link.Code, &link.OriginalURL, &link.UserID, &link.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ShortLink{}, models.ErrNotFound
		}
		return models.ShortLink{}, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

func (p *Storage) LinkGetBatchByUser(ctx context.Context, userID int64) ([]models.ShortLink, error) {
	rows, err := p.db.QueryContext(ctx,
		"SELECT id, code, original_url, user_id, created_at FROM links WHERE user_id = $1 ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user links: %w", err)
	}
	defer rows.Close()

	links := make([]models.ShortLink, 0)
	for rows.Next() {
		var link models.ShortLink
		if err := rows.Scan(&link.ID, &link.Code, &link.OriginalURL, &link.UserID, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read links: %w", err)
	}

	return links, nil
}

func (p *Storage) Ping(ctx context.Context) error {
	ctxPing, cancel := context.WithTimeout(ctx, storagePingTimeout)
	defer cancel()
	return p.db.PingContext(ctxPing)
}

func (p *Storage) Close() error {
	return p.db.Close()
}
