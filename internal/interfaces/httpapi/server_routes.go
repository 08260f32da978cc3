package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams/{teamID}/scores", handler.ListTeamScores)
	mux.HandleFunc("GET /v1/teams/{teamID}/weeks/{weekID}/snapshot", handler.GetSnapshot)
	mux.HandleFunc("POST /v1/teams/{teamID}/weeks/{weekID}/snapshot", handler.CreateSnapshot)
	mux.HandleFunc("PUT /v1/teams/{teamID}/weeks/{weekID}/snapshot", handler.ReplaceSnapshot)
	mux.HandleFunc("DELETE /v1/teams/{teamID}/weeks/{weekID}/snapshot", handler.DeleteSnapshot)
	mux.HandleFunc("GET /v1/teams/{teamID}/weeks/{weekID}/score", handler.GetWeekScore)
	mux.HandleFunc("POST /v1/teams/{teamID}/weeks/{weekID}/score", handler.CalculateWeekScore)
	mux.HandleFunc("POST /v1/teams/{teamID}/weeks/{weekID}/recalculate", handler.RecalculateSubsequentWeeks)
	mux.HandleFunc("POST /v1/teams/{teamID}/weeks/{weekID}/transfers/plan", handler.PlanTransfers)
}

func registerWeekRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.HandleFunc("GET /v1/weeks/{weekID}/window", handler.GetWindow)
	mux.HandleFunc("GET /v1/weeks/{weekID}/window/eligibility", handler.CanMakeTransfer)
	mux.Handle("POST /v1/weeks/{weekID}/window/open", RequireAdminToken(adminToken, http.HandlerFunc(handler.OpenWindow)))
	mux.Handle("POST /v1/weeks/{weekID}/window/close", RequireAdminToken(adminToken, http.HandlerFunc(handler.CloseWindow)))
	mux.Handle("POST /v1/weeks/{weekID}/prices/finalize", RequireAdminToken(adminToken, http.HandlerFunc(handler.FinalizeWeekPrices)))
}

func registerSeasonRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons/{seasonID}/prices", handler.ListCurrentPrices)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/windows", handler.ListSeasonWindows)
	mux.HandleFunc("POST /v1/seasons/{seasonID}/budget/initial", handler.CalculateInitialBudget)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("PUT /v1/games/{gameID}/stats/{playerID}", RequireAdminToken(adminToken, http.HandlerFunc(handler.RecordGameStats)))
}
