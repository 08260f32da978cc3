package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/ultimate-fantasy/internal/platform/logging"
	"github.com/riskibarqy/ultimate-fantasy/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

type Handler struct {
	snapshotService *usecase.SnapshotService
	scoringService  *usecase.ScoringService
	priceService    *usecase.PriceService
	windowService   *usecase.TransferWindowService
	budgetService   *usecase.BudgetService
	statsService    *usecase.StatsService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	snapshotService *usecase.SnapshotService,
	scoringService *usecase.ScoringService,
	priceService *usecase.PriceService,
	windowService *usecase.TransferWindowService,
	budgetService *usecase.BudgetService,
	statsService *usecase.StatsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		snapshotService: snapshotService,
		scoringService:  scoringService,
		priceService:    priceService,
		windowService:   windowService,
		budgetService:   budgetService,
		statsService:    statsService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrValidationFailed, err)
	}

	return nil
}

// decodeJSON reads a strict JSON body into dst. An empty body is accepted
// only when optional is set, leaving dst untouched.
func decodeJSON(r *http.Request, dst any, optional bool) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrValidationFailed, err)
	}
	if len(raw) > maxRequestBodyBytes {
		return fmt.Errorf("%w: request body exceeds %d bytes", usecase.ErrValidationFailed, maxRequestBodyBytes)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		if optional {
			return nil
		}
		return fmt.Errorf("%w: request body is required", usecase.ErrValidationFailed)
	}
	if err := strictJSON.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrValidationFailed, err)
	}
	return nil
}

func pathValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PathValue(name))
}
