package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/playerstats"
	"github.com/riskibarqy/ultimate-fantasy/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/ultimate-fantasy/internal/platform/id"
	"github.com/riskibarqy/ultimate-fantasy/internal/platform/logging"
	"github.com/riskibarqy/ultimate-fantasy/internal/usecase"
	"github.com/shopspring/decimal"
)

const testAdminToken = "test-admin-token"

const fullRosterBody = `{"slots":[
	{"player_id":"hnd-01","position":"handler","is_captain":true},
	{"player_id":"hnd-02","position":"handler"},
	{"player_id":"hnd-03","position":"handler"},
	{"player_id":"cut-01","position":"cutter"},
	{"player_id":"cut-02","position":"cutter"},
	{"player_id":"rcv-01","position":"receiver"},
	{"player_id":"rcv-02","position":"receiver"},
	{"player_id":"hnd-04","position":"handler","is_benched":true},
	{"player_id":"cut-03","position":"cutter","is_benched":true},
	{"player_id":"rcv-03","position":"receiver","is_benched":true}
]}`

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	seed, err := memory.LoadSeed()
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}

	logger := logging.NewNop()
	seasons := memory.NewSeasonRepository(seed.Seasons)
	weeks := memory.NewWeekRepository(seed.Weeks)
	players := memory.NewPlayerRepository(seed.Players)
	games := memory.NewGameRepository(seed.Games)
	teams := memory.NewFantasyTeamRepository(seed.FantasyTeams)
	stats := memory.NewPlayerStatsRepository(nil)
	values := memory.NewValueChangeRepository()
	snaps := memory.NewSnapshotRepository()
	scores := memory.NewWeekScoreRepository()

	priceSvc := usecase.NewPriceService(seasons, weeks, games, players, stats, values, logger)
	snapSvc := usecase.NewSnapshotService(teams, weeks, players, snaps, priceSvc, idgen.NewUUIDGenerator(), logger)
	scoreSvc := usecase.NewScoringService(weeks, snaps, games, stats, scores, 2, logger)
	windowSvc := usecase.NewTransferWindowService(weeks, []string{"ops-user"}, logger)
	budgetSvc := usecase.NewBudgetService(seasons, weeks, teams, players, priceSvc, snapSvc, decimal.NewFromInt(1000), logger)
	statsSvc := usecase.NewStatsService(games, players, stats, playerstats.DefaultRules(), scoreSvc, logger)

	handler := NewHandler(snapSvc, scoreSvc, priceSvc, windowSvc, budgetSvc, statsSvc, logger)
	return NewRouter(handler, logger, []string{"*"}, testAdminToken)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, admin bool) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set(adminTokenHeader, testAdminToken)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("%s %s: unmarshal response body: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec, envelope
}

func dataObject(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()

	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", envelope)
	}
	return data
}

func errorStatus(envelope map[string]any) string {
	errObj, _ := envelope["error"].(map[string]any)
	status, _ := errObj["status"].(string)
	return status
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/healthz", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := dataObject(t, envelope)["status"]; got != "ok" {
		t.Fatalf("expected status=ok, got %v", got)
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	router := newTestRouter(t)
	const path = "/v1/teams/ft-demo-1/weeks/s2026-w1/snapshot"

	rec, envelope := doRequest(t, router, http.MethodPost, path, fullRosterBody, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	created := dataObject(t, envelope)
	if got := created["total_value"]; got != "1130.00" {
		t.Fatalf("expected total_value=1130.00, got %v", got)
	}
	if got := created["captain_player_id"]; got != "hnd-01" {
		t.Fatalf("expected captain hnd-01, got %v", got)
	}

	rec, envelope = doRequest(t, router, http.MethodPost, path, fullRosterBody, false)
	if rec.Code != http.StatusConflict || errorStatus(envelope) != "ABORTED" {
		t.Fatalf("duplicate create: expected 409 ABORTED, got %d %s", rec.Code, errorStatus(envelope))
	}

	rec, envelope = doRequest(t, router, http.MethodGet, path, "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected status 200, got %d", rec.Code)
	}
	slots, _ := dataObject(t, envelope)["slots"].([]any)
	if len(slots) != 10 {
		t.Fatalf("expected 10 slots, got %d", len(slots))
	}

	replaced := strings.Replace(fullRosterBody, `"hnd-02"`, `"hnd-05"`, 1)
	rec, envelope = doRequest(t, router, http.MethodPut, path, replaced, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("replace: expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := dataObject(t, envelope)["total_value"]; got != "1116.00" {
		t.Fatalf("expected replaced total_value=1116.00, got %v", got)
	}

	rec, _ = doRequest(t, router, http.MethodDelete, path, "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected status 200, got %d", rec.Code)
	}

	rec, envelope = doRequest(t, router, http.MethodGet, path, "", false)
	if rec.Code != http.StatusNotFound || errorStatus(envelope) != "NOT_FOUND" {
		t.Fatalf("get after delete: expected 404 NOT_FOUND, got %d %s", rec.Code, errorStatus(envelope))
	}
}

func TestCreateSnapshot_RejectsInvalidRoster(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "two captains", body: strings.Replace(fullRosterBody, `"hnd-02","position":"handler"`, `"hnd-02","position":"handler","is_captain":true`, 1)},
		{name: "benched captain", body: strings.Replace(strings.Replace(fullRosterBody, `,"is_captain":true`, ``, 1), `"is_benched":true}`, `"is_benched":true,"is_captain":true}`, 1)},
		{name: "unknown position", body: strings.Replace(fullRosterBody, `"position":"cutter"`, `"position":"goalie"`, 1)},
		{name: "unknown field", body: `{"slots":[],"bonus":true}`},
		{name: "empty body", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t)
			rec, envelope := doRequest(t, router, http.MethodPost, "/v1/teams/ft-demo-1/weeks/s2026-w1/snapshot", tt.body, false)
			if rec.Code != http.StatusBadRequest || errorStatus(envelope) != "INVALID_ARGUMENT" {
				t.Fatalf("expected 400 INVALID_ARGUMENT, got %d %s body=%s", rec.Code, errorStatus(envelope), rec.Body.String())
			}
		})
	}
}

func TestTransferWindowRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/weeks/s2026-w1/window/open", "", false)
	if rec.Code != http.StatusUnauthorized || errorStatus(envelope) != "UNAUTHENTICATED" {
		t.Fatalf("open without token: expected 401, got %d %s", rec.Code, errorStatus(envelope))
	}

	rec, envelope = doRequest(t, router, http.MethodPost, "/v1/weeks/s2026-w2/window/open", "", true)
	if rec.Code != http.StatusPreconditionFailed || errorStatus(envelope) != "FAILED_PRECONDITION" {
		t.Fatalf("open week 2 before prices: expected 412, got %d %s", rec.Code, errorStatus(envelope))
	}

	rec, envelope = doRequest(t, router, http.MethodPost, "/v1/weeks/s2026-w1/window/open", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("open week 1: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := dataObject(t, envelope)["state"]; got != "open" {
		t.Fatalf("expected state=open, got %v", got)
	}

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/weeks/s2026-w1/prices/finalize", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("finalize week 1: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec, envelope = doRequest(t, router, http.MethodPost, "/v1/weeks/s2026-w2/window/open", "", true)
	if rec.Code != http.StatusConflict || errorStatus(envelope) != "ABORTED" {
		t.Fatalf("second open window: expected 409, got %d %s", rec.Code, errorStatus(envelope))
	}

	rec, envelope = doRequest(t, router, http.MethodGet, "/v1/weeks/s2026-w1/window/eligibility?user_id=demo-user-1", "", false)
	if rec.Code != http.StatusOK || dataObject(t, envelope)["allowed"] != true {
		t.Fatalf("eligibility in open window: got %d %v", rec.Code, envelope)
	}

	rec, envelope = doRequest(t, router, http.MethodPost, "/v1/weeks/s2026-w1/window/close", "", true)
	if rec.Code != http.StatusOK || dataObject(t, envelope)["state"] != "completed" {
		t.Fatalf("close week 1: got %d %v", rec.Code, envelope)
	}

	rec, envelope = doRequest(t, router, http.MethodGet, "/v1/weeks/s2026-w1/window/eligibility?user_id=demo-user-1", "", false)
	if rec.Code != http.StatusOK || dataObject(t, envelope)["allowed"] != false {
		t.Fatalf("eligibility after close: got %d %v", rec.Code, envelope)
	}
	rec, envelope = doRequest(t, router, http.MethodGet, "/v1/weeks/s2026-w1/window/eligibility?user_id=ops-user", "", false)
	if rec.Code != http.StatusOK || dataObject(t, envelope)["allowed"] != true {
		t.Fatalf("bypass user eligibility: got %d %v", rec.Code, envelope)
	}

	rec, envelope = doRequest(t, router, http.MethodGet, "/v1/weeks/s2026-w1/window/eligibility", "", false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("eligibility without user: expected 400, got %d %v", rec.Code, envelope)
	}

	rec, envelope = doRequest(t, router, http.MethodGet, "/v1/seasons/s2026/windows", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("list windows: expected 200, got %d", rec.Code)
	}
	windows, _ := envelope["data"].([]any)
	if len(windows) != 4 {
		t.Fatalf("expected 4 windows, got %d", len(windows))
	}
}

func TestRecordGameStats_RescoresCaptain(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodPost, "/v1/teams/ft-demo-1/weeks/s2026-w1/snapshot", fullRosterBody, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create snapshot: expected 201, got %d", rec.Code)
	}

	rec, envelope := doRequest(t, router, http.MethodPut, "/v1/games/g-w1-1/stats/hnd-01", `{"goals":2,"played":true}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("record stats: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	result := dataObject(t, envelope)
	statsObj, _ := result["stats"].(map[string]any)
	if got := statsObj["points"]; got != float64(6) {
		t.Fatalf("expected 6 points for two goals, got %v", got)
	}
	recalc, _ := result["recalculation"].(map[string]any)
	if got := recalc["success_count"]; got != float64(1) {
		t.Fatalf("expected one team recalculated, got %v", got)
	}

	rec, envelope = doRequest(t, router, http.MethodGet, "/v1/teams/ft-demo-1/weeks/s2026-w1/score", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("get score: expected 200, got %d", rec.Code)
	}
	score := dataObject(t, envelope)
	if got := score["captain_points"]; got != float64(12) {
		t.Fatalf("expected captain_points=12, got %v", got)
	}
	if got := score["points"]; got != float64(12) {
		t.Fatalf("expected points=12, got %v", got)
	}

	rec, envelope = doRequest(t, router, http.MethodGet, "/v1/teams/ft-demo-1/scores", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("list scores: expected 200, got %d", rec.Code)
	}
	history := dataObject(t, envelope)
	if got := history["total_points"]; got != float64(12) {
		t.Fatalf("expected total_points=12, got %v", got)
	}
	weeks, _ := history["weeks"].([]any)
	if len(weeks) != 1 {
		t.Fatalf("expected one scored week, got %d", len(weeks))
	}
	if first, _ := weeks[0].(map[string]any); first["week_number"] != float64(1) {
		t.Fatalf("expected week_number=1, got %v", first["week_number"])
	}

	rec, envelope = doRequest(t, router, http.MethodPut, "/v1/games/g-w1-1/stats/hnd-01", `{"goals":-1,"played":true}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative goals: expected 400, got %d %v", rec.Code, envelope)
	}
}

func TestBudgetRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/seasons/s2026/budget/initial",
		`{"player_ids":["hnd-01","hnd-02","hnd-03","cut-01","cut-02","rcv-01","rcv-02","hnd-04","cut-03","rcv-03"]}`, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("initial budget: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := dataObject(t, envelope)["budget"]; got != "70.00" {
		t.Fatalf("expected budget=70.00, got %v", got)
	}

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/teams/ft-demo-1/weeks/s2026-w1/snapshot", fullRosterBody, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create snapshot: expected 201, got %d", rec.Code)
	}

	plan := `{"previous_budget":"70.00","roster":["hnd-01","hnd-05","hnd-03","cut-01","cut-02","rcv-01","rcv-02","hnd-04","cut-03","rcv-03"]}`
	rec, envelope = doRequest(t, router, http.MethodPost, "/v1/teams/ft-demo-1/weeks/s2026-w2/transfers/plan", plan, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("plan transfers: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data := dataObject(t, envelope)
	if got := data["count"]; got != float64(1) {
		t.Fatalf("expected one transfer, got %v", got)
	}
	budget, _ := data["budget"].(map[string]any)
	if got := budget["budget"]; got != "84.00" {
		t.Fatalf("expected budget=84.00 after swapping hnd-02 for hnd-05, got %v", got)
	}
	if got := budget["valid"]; got != true {
		t.Fatalf("expected valid budget, got %v", got)
	}
}

func TestListCurrentPrices(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/v1/seasons/s2026/prices", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	prices, _ := envelope["data"].([]any)
	if len(prices) != 14 {
		t.Fatalf("expected 14 prices, got %d", len(prices))
	}

	rec, envelope = doRequest(t, router, http.MethodGet, "/v1/seasons/missing/prices", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown season: expected 200, got %d %v", rec.Code, envelope)
	}
	if prices, _ := envelope["data"].([]any); len(prices) != 0 {
		t.Fatalf("unknown season: expected no prices, got %d", len(prices))
	}
}
