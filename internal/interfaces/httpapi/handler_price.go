package httpapi

import "net/http"

func (h *Handler) FinalizeWeekPrices(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeWeekPrices")
	defer span.End()

	weekID := pathValue(r, "weekID")
	result, err := h.priceService.FinalizeWeekPrices(ctx, weekID)
	if err != nil {
		h.logger.WarnContext(ctx, "finalize week prices failed", "week_id", weekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, finalizePricesDTO{
		WeekID:       result.WeekID,
		PricedRound:  result.PricedRound,
		PlayersCount: result.PlayersCount,
		RowsSaved:    result.RowsSaved,
	})
}

func (h *Handler) ListCurrentPrices(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCurrentPrices")
	defer span.End()

	prices, err := h.priceService.GetCurrentPlayerPrices(ctx, pathValue(r, "seasonID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, currentPricesToDTO(prices))
}
