package createlink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"shortlink/internal/domain/models"
	"shortlink/internal/http/dto"
	"shortlink/internal/http/handlers/middlewares/auth"
	"shortlink/internal/http/httputils"
)

type LinkService interface {
	Shorten(ctx context.Context, userID int64, originalURL, requestedCode string) (models.ShortLink, error)
	ShortURL(code string) string
}

func HandlerCreateLink(svc LinkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := auth.ClaimsFromContext(ctx)
		if !ok {
			httputils.WriteJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req dto.ShortenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputils.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		link, err := svc.Shorten(ctx, claims.UserID, req.URL, req.Shortcode)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrMissingDestination):
				httputils.WriteJSONError(w, http.StatusBadRequest, models.ErrMissingDestination.Error())
			case errors.Is(err, models.ErrCodeTaken):
				httputils.WriteJSONError(w, http.StatusConflict, models.ErrCodeTaken.Error())
			default:
				httputils.WriteJSONError(w, http.StatusInternalServerError, "failed to shorten URL")
			}
			return
		}

		httputils.WriteJSONResponse(w, http.StatusCreated, dto.ShortenResponse{
			Message:   "URL shortened successfully",
			Shortcode: link.Code,
			FullURL:   svc.ShortURL(link.Code),
		})
	}
}
