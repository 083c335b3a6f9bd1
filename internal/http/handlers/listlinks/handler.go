package listlinks

import (
	"context"
	"fmt"
	"net/http"

	"shortlink/internal/domain/models"
	"shortlink/internal/http/dto"
	"shortlink/internal/http/handlers/middlewares/auth"
	"shortlink/internal/http/httputils"
)

type LinkService interface {
	UserLinks(ctx context.Context, userID int64) ([]models.ShortLink, error)
}

func HandlerListLinks(svc LinkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := auth.ClaimsFromContext(ctx)
		if !ok {
			httputils.WriteJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		links, err := svc.UserLinks(ctx, claims.UserID)
		if err != nil {
			httputils.WriteJSONError(w, http.StatusInternalServerError, "failed to get links")
			return
		}

		httputils.WriteJSONResponse(w, http.StatusOK, dto.UserLinksResponse{
			Message: fmt.Sprintf("Here are the URLs you've shortened, %s:", claims.Username),
			URLs:    dto.LinksToResponse(links),
		})
	}
}
