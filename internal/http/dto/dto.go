package dto

import (
	"time"

	"shortlink/internal/domain/models"
)

// Request
type (
	RegisterRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	ShortenRequest struct {
		URL       string `json:"url"`
		Shortcode string `json:"shortcode,omitempty"`
	}
)

// Response
type (
	RegisterResponse struct {
		Message string `json:"message"`
		UserID  int64  `json:"user_id"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	ShortenResponse struct {
		Message   string `json:"message"`
		Shortcode string `json:"shortcode"`
		FullURL   string `json:"full_url"`
	}

	LinkResponse struct {
		Shortcode   string    `json:"shortcode"`
		OriginalURL string    `json:"original_url"`
		CreatedAt   time.Time `json:"created_at"`
	}

	UserLinksResponse struct {
		Message string         `json:"message"`
		URLs    []LinkResponse `json:"urls"`
	}
)

// Domain → Response
func LinksToResponse(links []models.ShortLink) []LinkResponse {
	out := make([]LinkResponse, len(links))
	for i, link := range links {
		out[i] = LinkResponse{
			Shortcode:   link.Code,
			OriginalURL: link.OriginalURL,
			CreatedAt:   link.CreatedAt,
		}
	}
	return out
}
