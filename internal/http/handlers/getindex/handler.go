package getindex

import (
	"net/http"

	"shortlink/internal/http/httputils"
)

func HandlerGetIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputils.WriteTextResponse(w, http.StatusOK, "shortlink service: POST /register, POST /login, POST /shorturls, GET /my-urls, GET /{shortcode}")
	}
}
