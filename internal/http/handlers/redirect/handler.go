package redirect

import (
	"context"
	"errors"
	"net/http"

	"shortlink/internal/domain/models"
	"shortlink/internal/http/httputils"

	"github.com/gorilla/mux"
)

type LinkService interface {
	Resolve(ctx context.Context, code string) (models.ShortLink, error)
}

func HandlerRedirect(svc LinkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		code := mux.Vars(r)["shortcode"]

		link, err := svc.Resolve(ctx, code)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				httputils.WriteJSONError(w, http.StatusNotFound, models.ErrNotFound.Error())
				return
			}
			httputils.WriteJSONError(w, http.StatusInternalServerError, "failed to resolve short link")
			return
		}

		httputils.WriteRedirect(w, link.OriginalURL)
	}
}
