package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"recordaccess/internal/models"
	"strings"
)

// Viewer resolves the session token, if any, into a viewer. Requests without
// a usable token continue as the anonymous viewer; nothing is rejected here.
func Viewer(log *slog.Logger, resolver ViewerResolver) func(http.Handler) http.Handler {
	log = log.With(slog.String("op", pkg+"Viewer"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := resolver.ViewerByToken(r.Context(), tokenFrom(r))

			log.Debug("viewer resolved", slog.Bool("logged_in", viewer.IsLoggedIn))

			ctx := context.WithValue(r.Context(), models.ViewerContextKey, viewer)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFrom(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

func ViewerFromContext(ctx context.Context) models.Viewer {
	viewer, ok := ctx.Value(models.ViewerContextKey).(models.Viewer)
	if !ok {
		return models.AnonymousViewer()
	}
	return viewer
}
