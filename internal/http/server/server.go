package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"recordaccess/internal/config"
	"recordaccess/internal/http/handlers/records"
	"recordaccess/internal/http/handlers/session"
	"recordaccess/internal/http/handlers/user"
	"recordaccess/internal/http/middleware"
	"recordaccess/internal/models"
	utils "recordaccess/internal/utils/http_errors"
	"time"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 10 * time.Second

func StartServer(
	ctx context.Context,
	cfg *config.HTTPServer,
	log *slog.Logger,
	authService AuthService,
	recordService RecordService,
) error {
	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      NewRouter(log, authService, recordService),
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server", slog.String("error", err.Error()))
				errChan <- err
			}
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", slog.String("error", err.Error()))
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func NewRouter(log *slog.Logger, auth AuthService, rs RecordService) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))

	// POST user
	r.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		user.Add(r.Context(), log, w, r, auth)
	}).Methods(http.MethodPost)

	// POST session
	r.HandleFunc("/api/auth", func(w http.ResponseWriter, r *http.Request) {
		session.Add(r.Context(), log, w, r, auth)
	}).Methods(http.MethodPost)

	// DELETE session
	r.HandleFunc("/api/auth/{token}", func(w http.ResponseWriter, r *http.Request) {
		session.Delete(r.Context(), log, w, r, mux.Vars(r)["token"], auth)
	}).Methods(http.MethodDelete)

	// PUT record
	r.HandleFunc("/api/records/{id}", func(w http.ResponseWriter, r *http.Request) {
		records.Save(r.Context(), log, w, r, mux.Vars(r)["id"], rs, auth)
	}).Methods(http.MethodPut)

	// DELETE record
	r.HandleFunc("/api/records/{id}", func(w http.ResponseWriter, r *http.Request) {
		records.Delete(r.Context(), log, w, r, mux.Vars(r)["id"], rs, auth)
	}).Methods(http.MethodDelete)

	viewing := r.NewRoute().Subrouter()

	viewing.Use(middleware.Viewer(log, auth))

	// GET record access
	viewing.HandleFunc("/api/records/{id}/access", func(w http.ResponseWriter, r *http.Request) {
		records.Access(r.Context(), log, w, r, mux.Vars(r)["id"], rs)
	}).Methods(http.MethodGet)

	// GET files of a work
	viewing.HandleFunc("/api/records/{id}/files", func(w http.ResponseWriter, r *http.Request) {
		records.Files(r.Context(), log, w, r, mux.Vars(r)["id"], rs)
	}).Methods(http.MethodGet)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	return r
}
