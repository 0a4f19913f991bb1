package httpapi

import (
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/ffdata/league-sync/internal/platform/logging"
	"github.com/ffdata/league-sync/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	syncService *usecase.SyncService
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(syncService *usecase.SyncService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		syncService: syncService,
		logger:      logger,
		validator:   validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

type syncWeekRequest struct {
	// Week 0 means "resolve the current week upstream".
	Week int `json:"week" validate:"min=0,max=25"`
}

func (h *Handler) RunSyncWeekJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncWeekJob")
	defer span.End()

	var req syncWeekRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result := h.syncService.SyncWeek(ctx, req.Week)
	if !result.Success {
		h.logger.WarnContext(ctx, "sync week job failed", "week", req.Week, "error", result.Error)
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunBackfillSeasonJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBackfillSeasonJob")
	defer span.End()

	result := h.syncService.BackfillSeason(ctx)
	if result.FailedCount > 0 {
		h.logger.WarnContext(ctx, "backfill season finished with failures",
			"season", result.Season,
			"failed", result.FailedCount,
			"succeeded", result.SucceededCount,
		)
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

type reingestRecentRequest struct {
	// Depth 0 falls back to the configured default window.
	Depth int `json:"depth" validate:"min=0,max=25"`
}

func (h *Handler) RunReingestRecentJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReingestRecentJob")
	defer span.End()

	var req reingestRecentRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result := h.syncService.ReingestRecent(ctx, req.Depth)
	writeSuccess(ctx, w, http.StatusOK, result)
}

// decodeBody parses an optional JSON body. An empty body decodes to the zero
// request so the job routes can be curled without arguments.
func (h *Handler) decodeBody(r *http.Request, target any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
