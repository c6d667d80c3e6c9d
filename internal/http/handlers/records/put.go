package records

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"recordaccess/internal/dto"
	"recordaccess/internal/models"
	errutils "recordaccess/internal/utils/http_errors"
)

const maxRecordBytes = 1 << 20

// Save upserts a record. Only the admin token may push records.
func Save(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, rs RecordSaver, admin AdminChecker) {
	op := pkg + "Save"

	log = log.With(slog.String("op", op))

	defer r.Body.Close()

	var req dto.SaveRecordRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordBytes)).Decode(&req); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if !admin.IsAdmin(req.AdminToken) {
		log.Warn("invalid admin token")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	if req.Record == nil {
		errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if req.Record.ID == "" {
		req.Record.ID = id
	}

	if req.Record.ID != id {
		log.Warn("record id does not match path", slog.String("path_id", id), slog.String("body_id", req.Record.ID))
		errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := rs.SaveRecord(ctx, req.Record); err != nil {
		log.Warn("failed to save record", slog.String("error", err.Error()))
		errutils.WriteStatusError(w, err)
		return
	}

	response := map[string]any{
		"response": map[string]any{
			"id": id,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
