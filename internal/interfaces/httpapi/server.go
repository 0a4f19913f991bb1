package httpapi

import (
	"net/http"

	"github.com/ffdata/league-sync/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, internalJobToken string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, mux)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-week", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncWeekJob)))
	mux.Handle("POST /v1/internal/jobs/backfill-season", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBackfillSeasonJob)))
	mux.Handle("POST /v1/internal/jobs/reingest-recent", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReingestRecentJob)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
