package records

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"recordaccess/internal/models"
	errutils "recordaccess/internal/utils/http_errors"
)

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, rd RecordDeleter, admin AdminChecker) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	if !admin.IsAdmin(r.URL.Query().Get("admin")) {
		log.Warn("invalid admin token")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	if err := rd.DeleteRecord(ctx, id); err != nil {
		log.Warn("failed to delete record", slog.String("record_id", id), slog.String("error", err.Error()))
		errutils.WriteStatusError(w, err)
		return
	}

	response := map[string]any{
		"response": map[string]any{
			id: true,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
