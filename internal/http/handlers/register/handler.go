package register

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
	Register(ctx context.Context, username, secret string) (models.User, error)
}

func HandlerRegister(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req dto.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputils.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Username == "" || req.Password == "" {
			httputils.WriteJSONError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		user, err := svc.Register(ctx, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, models.ErrDuplicateUsername) {
				httputils.WriteJSONError(w, http.StatusConflict, models.ErrDuplicateUsername.Error())
				return
			}
			httputils.WriteJSONError(w, http.StatusInternalServerError, "failed to create user")
			return
		}

		httputils.WriteJSONResponse(w, http.StatusCreated, dto.RegisterResponse{
			Message: "user created successfully",
			UserID:  user.ID,
		})
	}
}
