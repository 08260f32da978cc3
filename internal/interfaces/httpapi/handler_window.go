package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GetWindow(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWindow")
	defer span.End()

	view, err := h.windowService.GetWindow(ctx, pathValue(r, "weekID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, windowToDTO(view))
}

func (h *Handler) OpenWindow(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenWindow")
	defer span.End()

	var req openWindowRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	weekID := pathValue(r, "weekID")
	view, err := h.windowService.OpenWindow(ctx, weekID, req.CutoffTime)
	if err != nil {
		h.logger.WarnContext(ctx, "open transfer window failed", "week_id", weekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, windowToDTO(view))
}

func (h *Handler) CloseWindow(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseWindow")
	defer span.End()

	weekID := pathValue(r, "weekID")
	view, err := h.windowService.CloseWindow(ctx, weekID)
	if err != nil {
		h.logger.WarnContext(ctx, "close transfer window failed", "week_id", weekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, windowToDTO(view))
}

func (h *Handler) CanMakeTransfer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CanMakeTransfer")
	defer span.End()

	req := eligibilityRequest{UserID: strings.TrimSpace(r.URL.Query().Get("user_id"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	weekID := pathValue(r, "weekID")
	allowed, err := h.windowService.CanMakeTransfer(ctx, weekID, req.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eligibilityDTO{
		WeekID:  weekID,
		UserID:  req.UserID,
		Allowed: allowed,
	})
}

func (h *Handler) ListSeasonWindows(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonWindows")
	defer span.End()

	views, err := h.windowService.ListSeasonWindows(ctx, pathValue(r, "seasonID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]windowDTO, 0, len(views))
	for _, view := range views {
		out = append(out, windowToDTO(view))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
