package session

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

func Add(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, sa SessionAdder) {
	op := pkg + "Add"

	log = log.With(slog.String("op", op))

	defer r.Body.Close()

	var req dto.SessionRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	token, err := sa.Login(ctx, req.Login, req.Password)
	if err != nil {
		log.Warn("failed to login", slog.String("error", err.Error()))
		utils.WriteStatusError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	response := map[string]any{
		"response": map[string]any{
			"token": token,
		},
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
