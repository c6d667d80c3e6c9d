package records

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"recordaccess/internal/dto"
	"recordaccess/internal/http/middleware"
	errutils "recordaccess/internal/utils/http_errors"
	parseutil "recordaccess/internal/utils/parseLimit"
)

// Access writes the access decision for one record and the request's viewer.
func Access(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, ap AccessProvider) {
	op := pkg + "Access"

	log = log.With(slog.String("op", op))

	viewer := middleware.ViewerFromContext(r.Context())

	decision, err := ap.RecordAccess(ctx, id, viewer)
	if err != nil {
		log.Warn("failed to evaluate access", slog.String("record_id", id), slog.String("error", err.Error()))
		errutils.WriteStatusError(w, err)
		return
	}

	response := map[string]any{
		"data": dto.AccessResponse{
			ID:       id,
			Viewer:   viewer,
			Decision: decision,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

// Files writes the file list of a work with per-file affordances.
func Files(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, workID string, ap AccessProvider) {
	op := pkg + "Files"

	log = log.With(slog.String("op", op))

	viewer := middleware.ViewerFromContext(r.Context())
	limit := parseutil.ParseLimit(r.URL.Query().Get("limit"))

	list, err := ap.FileList(ctx, workID, viewer, limit)
	if err != nil {
		log.Warn("failed to list files", slog.String("work_id", workID), slog.String("error", err.Error()))
		errutils.WriteStatusError(w, err)
		return
	}

	files := make([]dto.FileResponse, 0, len(list.Entries))
	for _, entry := range list.Entries {
		files = append(files, dto.NewFileResponse(entry))
	}

	response := map[string]any{
		"data": map[string]any{
			"id":    workID,
			"total": list.Total,
			"files": files,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
