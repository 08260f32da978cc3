package httpapi

import (
	"net/http"

	"github.com/riskibarqy/ultimate-fantasy/internal/usecase"
)

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSnapshot")
	defer span.End()

	teamID, weekID := pathValue(r, "teamID"), pathValue(r, "weekID")
	item, err := h.snapshotService.GetSnapshot(ctx, teamID, weekID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, item))
}

func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSnapshot")
	defer span.End()

	input, err := h.snapshotInput(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.snapshotService.CreateSnapshot(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create snapshot failed", "team_id", input.TeamID, "week_id", input.WeekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, snapshotToDTO(ctx, item))
}

func (h *Handler) ReplaceSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceSnapshot")
	defer span.End()

	input, err := h.snapshotInput(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.snapshotService.ReplaceSnapshot(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "replace snapshot failed", "team_id", input.TeamID, "week_id", input.WeekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, item))
}

func (h *Handler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSnapshot")
	defer span.End()

	teamID, weekID := pathValue(r, "teamID"), pathValue(r, "weekID")
	if err := h.snapshotService.DeleteSnapshot(ctx, teamID, weekID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"team_id": teamID,
		"week_id": weekID,
		"status":  "deleted",
	})
}

func (h *Handler) snapshotInput(r *http.Request) (usecase.CreateSnapshotInput, error) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.snapshotInput")
	defer span.End()

	var req snapshotRequest
	if err := decodeJSON(r, &req, false); err != nil {
		return usecase.CreateSnapshotInput{}, err
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.CreateSnapshotInput{}, err
	}

	slots := make([]usecase.SnapshotSlotInput, 0, len(req.Slots))
	for _, slot := range req.Slots {
		slots = append(slots, usecase.SnapshotSlotInput{
			PlayerID:  slot.PlayerID,
			Position:  slot.Position,
			IsBenched: slot.IsBenched,
			IsCaptain: slot.IsCaptain,
		})
	}

	return usecase.CreateSnapshotInput{
		TeamID:       pathValue(r, "teamID"),
		WeekID:       pathValue(r, "weekID"),
		Slots:        slots,
		AllowPartial: req.AllowPartial,
	}, nil
}
