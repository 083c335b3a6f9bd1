package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"shortlink/internal/domain/models"
	"shortlink/internal/http/dto"
	"shortlink/internal/http/httputils"
)

type AuthService interface {
	Login(ctx context.Context, username, secret string) (string, error)
}

func HandlerLogin(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req dto.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputils.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, err := svc.Login(ctx, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, models.ErrInvalidCredentials) {
				httputils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidCredentials.Error())
				return
			}
			httputils.WriteJSONError(w, http.StatusInternalServerError, "failed to log in")
			return
		}

		httputils.WriteJSONResponse(w, http.StatusOK, dto.LoginResponse{Token: token})
	}
}
