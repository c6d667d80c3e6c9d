package user

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"recordaccess/internal/dto"
	"recordaccess/internal/models"
	utils "recordaccess/internal/utils/http_errors"
)

const maxBodyBytes = 1 << 16

func Add(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, ua UserAdder) {
	op := pkg + "Add"

	log = log.With(slog.String("op", op))

	defer r.Body.Close()

	var req dto.UserRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	login, err := ua.Register(ctx, req.Login, req.Password, req.AdminToken)
	if err != nil {
		log.Warn("failed to register user", slog.String("error", err.Error()))
		utils.WriteStatusError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	response := map[string]any{
		"response": map[string]any{
			"login": login,
		},
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
