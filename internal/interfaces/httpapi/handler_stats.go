package httpapi

import (
	"net/http"

	"github.com/riskibarqy/ultimate-fantasy/internal/usecase"
)

// RecordGameStats stores a stat line and reports the cascade of re-scored
// teams. Per-team failures are listed in the summary, not returned as errors.
func (h *Handler) RecordGameStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordGameStats")
	defer span.End()

	var req recordStatsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID, playerID := pathValue(r, "gameID"), pathValue(r, "playerID")
	result, err := h.statsService.RecordGameStats(ctx, usecase.RecordGameStatsInput{
		GameID:     gameID,
		PlayerID:   playerID,
		Goals:      req.Goals,
		Assists:    req.Assists,
		Blocks:     req.Blocks,
		Drops:      req.Drops,
		Throwaways: req.Throwaways,
		Played:     *req.Played,
		Points:     req.Points,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record game stats failed", "game_id", gameID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if result.Recalculation.FailedCount > 0 {
		h.logger.WarnContext(ctx, "stats recalculation had failures",
			"game_id", gameID,
			"week_id", result.Recalculation.WeekID,
			"failed", result.Recalculation.FailedCount,
		)
	}

	writeSuccess(ctx, w, http.StatusOK, recordStatsDTO{
		Stats:         statsToDTO(result.Stats),
		Recalculation: recalculationSummaryToDTO(result.Recalculation),
	})
}
