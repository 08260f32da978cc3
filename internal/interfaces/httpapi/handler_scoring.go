package httpapi

import (
	"net/http"
)

func (h *Handler) GetWeekScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeekScore")
	defer span.End()

	score, err := h.scoringService.GetWeekScore(ctx, pathValue(r, "teamID"), pathValue(r, "weekID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekScoreToDTO(ctx, score))
}

func (h *Handler) CalculateWeekScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalculateWeekScore")
	defer span.End()

	teamID, weekID := pathValue(r, "teamID"), pathValue(r, "weekID")
	score, err := h.scoringService.CalculateWeekScore(ctx, teamID, weekID)
	if err != nil {
		h.logger.WarnContext(ctx, "calculate week score failed", "team_id", teamID, "week_id", weekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekScoreToDTO(ctx, score))
}

// RecalculateSubsequentWeeks re-scores the path week and every later week the
// team holds a snapshot for.
func (h *Handler) RecalculateSubsequentWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateSubsequentWeeks")
	defer span.End()

	teamID, weekID := pathValue(r, "teamID"), pathValue(r, "weekID")
	scores, err := h.scoringService.RecalculateAllSubsequentWeeks(ctx, teamID, weekID)
	if err != nil {
		h.logger.WarnContext(ctx, "recalculate subsequent weeks failed", "team_id", teamID, "week_id", weekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]weekScoreDTO, 0, len(scores))
	for _, score := range scores {
		out = append(out, weekScoreToDTO(ctx, score))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"team_id": teamID,
		"items":   out,
	})
}

func (h *Handler) ListTeamScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamScores")
	defer span.End()

	history, err := h.scoringService.ListTeamScores(ctx, pathValue(r, "teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamScoreHistoryToDTO(ctx, history))
}
