package getping

import (
	"context"
	"net/http"

	"shortlink/internal/http/httputils"
)

type LinkService interface {
	PingStorage(ctx context.Context) error
}

func HandlerPing(svc LinkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.PingStorage(r.Context()); err != nil {
			httputils.WriteTextResponse(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		httputils.WriteTextResponse(w, http.StatusOK, "pong")
	}
}
