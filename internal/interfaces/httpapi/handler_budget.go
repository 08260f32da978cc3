package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/ultimate-fantasy/internal/usecase"
	"github.com/shopspring/decimal"
)

func (h *Handler) CalculateInitialBudget(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalculateInitialBudget")
	defer span.End()

	var req initialBudgetRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := pathValue(r, "seasonID")
	budget, err := h.budgetService.CalculateInitialBudget(ctx, seasonID, req.PlayerIDs)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, initialBudgetDTO{
		SeasonID: seasonID,
		Budget:   money(budget),
	})
}

// PlanTransfers diffs the requested roster against the team's previous
// snapshot and prices the resulting transfers at the target week.
func (h *Handler) PlanTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlanTransfers")
	defer span.End()

	var req transferPlanRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	previousBudget, err := decimal.NewFromString(req.PreviousBudget)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: previous_budget: %v", usecase.ErrValidationFailed, err))
		return
	}

	teamID, weekID := pathValue(r, "teamID"), pathValue(r, "weekID")
	plan, err := h.budgetService.PlanTransfers(ctx, teamID, weekID, req.Roster)
	if err != nil {
		h.logger.WarnContext(ctx, "plan transfers failed", "team_id", teamID, "week_id", weekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	view, err := h.windowService.GetWindow(ctx, weekID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	budget, err := h.budgetService.CalculateBudgetAfterTransfers(ctx, previousBudget, plan.Transfers, view.Week.Number, view.Week.SeasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "budget after transfers failed", "team_id", teamID, "week_id", weekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferPlanToDTO(plan, budget))
}
