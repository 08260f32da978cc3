package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/playerstats"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/snapshot"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/valuechange"
	"github.com/riskibarqy/ultimate-fantasy/internal/usecase"
	"github.com/shopspring/decimal"
)

type snapshotSlotRequest struct {
	PlayerID  string `json:"player_id" validate:"required"`
	Position  string `json:"position" validate:"required"`
	IsBenched bool   `json:"is_benched"`
	IsCaptain bool   `json:"is_captain"`
}

type snapshotRequest struct {
	Slots        []snapshotSlotRequest `json:"slots" validate:"max=10,dive"`
	AllowPartial bool                  `json:"allow_partial"`
}

type transferPlanRequest struct {
	Roster         []string `json:"roster" validate:"required,min=1,max=10,dive,required"`
	PreviousBudget string   `json:"previous_budget" validate:"required,numeric"`
}

type openWindowRequest struct {
	CutoffTime *time.Time `json:"cutoff_time"`
}

type initialBudgetRequest struct {
	PlayerIDs []string `json:"player_ids" validate:"required,min=1,max=10,dive,required"`
}

type eligibilityRequest struct {
	UserID string `validate:"required,max=128"`
}

type recordStatsRequest struct {
	Goals      int   `json:"goals" validate:"gte=0"`
	Assists    int   `json:"assists" validate:"gte=0"`
	Blocks     int   `json:"blocks" validate:"gte=0"`
	Drops      int   `json:"drops" validate:"gte=0"`
	Throwaways int   `json:"throwaways" validate:"gte=0"`
	Played     *bool `json:"played" validate:"required"`
	Points     *int  `json:"points"`
}

type snapshotSlotDTO struct {
	PlayerID        string `json:"player_id"`
	Position        string `json:"position"`
	IsBenched       bool   `json:"is_benched"`
	IsCaptain       bool   `json:"is_captain"`
	ValueAtSnapshot string `json:"value_at_snapshot"`
}

type snapshotDTO struct {
	ID              string            `json:"id"`
	TeamID          string            `json:"team_id"`
	WeekID          string            `json:"week_id"`
	CaptainPlayerID string            `json:"captain_player_id,omitempty"`
	TotalValue      string            `json:"total_value"`
	CreatedAt       string            `json:"created_at"`
	Slots           []snapshotSlotDTO `json:"slots"`
}

type substitutionDTO struct {
	GameID      string `json:"game_id"`
	OutPlayerID string `json:"out_player_id"`
	InPlayerID  string `json:"in_player_id"`
	Position    string `json:"position"`
	Points      int    `json:"points"`
	Reason      string `json:"reason"`
}

type weekScoreDTO struct {
	TeamID        string            `json:"team_id"`
	WeekID        string            `json:"week_id"`
	TotalPoints   int               `json:"total_points"`
	CaptainPoints int               `json:"captain_points"`
	Points        int               `json:"points"`
	Substitutions []substitutionDTO `json:"substitutions"`
	CalculatedAt  string            `json:"calculated_at,omitempty"`
}

type scoredWeekDTO struct {
	SeasonID   string       `json:"season_id"`
	WeekNumber int          `json:"week_number"`
	Score      weekScoreDTO `json:"score"`
}

type teamScoreHistoryDTO struct {
	TeamID      string          `json:"team_id"`
	TotalPoints int             `json:"total_points"`
	Weeks       []scoredWeekDTO `json:"weeks"`
}

type windowDTO struct {
	WeekID                 string `json:"week_id"`
	SeasonID               string `json:"season_id"`
	WeekNumber             int    `json:"week_number"`
	State                  string `json:"state"`
	PricesReady            bool   `json:"prices_ready"`
	PricesCalculated       bool   `json:"prices_calculated"`
	TransferWindowOpen     bool   `json:"transfer_window_open"`
	TransferCutoffTime     string `json:"transfer_cutoff_time,omitempty"`
	TransferWindowClosedAt string `json:"transfer_window_closed_at,omitempty"`
}

type eligibilityDTO struct {
	WeekID  string `json:"week_id"`
	UserID  string `json:"user_id"`
	Allowed bool   `json:"allowed"`
}

type currentPriceDTO struct {
	PlayerID string `json:"player_id"`
	Round    int    `json:"round"`
	Value    string `json:"value"`
	Delta    string `json:"delta"`
}

type finalizePricesDTO struct {
	WeekID       string `json:"week_id"`
	PricedRound  int    `json:"priced_round"`
	PlayersCount int    `json:"players_count"`
	RowsSaved    int    `json:"rows_saved"`
}

type transferDTO struct {
	OutPlayerID string `json:"out_player_id,omitempty"`
	InPlayerID  string `json:"in_player_id,omitempty"`
	Position    string `json:"position"`
}

type budgetDTO struct {
	Budget  string `json:"budget"`
	Valid   bool   `json:"valid"`
	Deficit string `json:"deficit"`
}

type transferPlanDTO struct {
	Transfers []transferDTO `json:"transfers"`
	Count     int           `json:"count"`
	Allowed   int           `json:"allowed"`
	Unlimited bool          `json:"unlimited"`
	Budget    budgetDTO     `json:"budget"`
}

type initialBudgetDTO struct {
	SeasonID string `json:"season_id"`
	Budget   string `json:"budget"`
}

type teamRecalculationDTO struct {
	TeamID     string `json:"team_id"`
	Weeks      int    `json:"weeks"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type recalculationSummaryDTO struct {
	WeekID       string                 `json:"week_id"`
	Teams        []teamRecalculationDTO `json:"teams"`
	SuccessCount int                    `json:"success_count"`
	FailedCount  int                    `json:"failed_count"`
}

type statsDTO struct {
	PlayerID   string `json:"player_id"`
	GameID     string `json:"game_id"`
	Goals      int    `json:"goals"`
	Assists    int    `json:"assists"`
	Blocks     int    `json:"blocks"`
	Drops      int    `json:"drops"`
	Throwaways int    `json:"throwaways"`
	Points     int    `json:"points"`
	Played     bool   `json:"played"`
}

type recordStatsDTO struct {
	Stats         statsDTO                `json:"stats"`
	Recalculation recalculationSummaryDTO `json:"recalculation"`
}

func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func formatOptionalTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func snapshotToDTO(ctx context.Context, v snapshot.Snapshot) snapshotDTO {
	_, span := startSpan(ctx, "httpapi.snapshotToDTO")
	defer span.End()

	slots := make([]snapshotSlotDTO, 0, len(v.Slots))
	for _, slot := range v.Slots {
		slots = append(slots, snapshotSlotDTO{
			PlayerID:        slot.PlayerID,
			Position:        slot.Position.String(),
			IsBenched:       slot.IsBenched,
			IsCaptain:       slot.IsCaptain,
			ValueAtSnapshot: money(slot.ValueAtSnapshot),
		})
	}

	return snapshotDTO{
		ID:              v.ID,
		TeamID:          v.TeamID,
		WeekID:          v.WeekID,
		CaptainPlayerID: v.CaptainPlayerID,
		TotalValue:      money(v.TotalValue),
		CreatedAt:       formatTime(v.CreatedAt),
		Slots:           slots,
	}
}

func weekScoreToDTO(ctx context.Context, v scoring.WeekScore) weekScoreDTO {
	_, span := startSpan(ctx, "httpapi.weekScoreToDTO")
	defer span.End()

	subs := make([]substitutionDTO, 0, len(v.Substitutions))
	for _, sub := range v.Substitutions {
		subs = append(subs, substitutionDTO{
			GameID:      sub.GameID,
			OutPlayerID: sub.OutPlayerID,
			InPlayerID:  sub.InPlayerID,
			Position:    sub.Position.String(),
			Points:      sub.Points,
			Reason:      sub.Reason,
		})
	}

	return weekScoreDTO{
		TeamID:        v.TeamID,
		WeekID:        v.WeekID,
		TotalPoints:   v.TotalPoints,
		CaptainPoints: v.CaptainPoints,
		Points:        v.Points(),
		Substitutions: subs,
		CalculatedAt:  formatTime(v.CalculatedAt),
	}
}

func teamScoreHistoryToDTO(ctx context.Context, v usecase.TeamScoreHistory) teamScoreHistoryDTO {
	weeks := make([]scoredWeekDTO, 0, len(v.Weeks))
	for _, item := range v.Weeks {
		weeks = append(weeks, scoredWeekDTO{
			SeasonID:   item.SeasonID,
			WeekNumber: item.WeekNumber,
			Score:      weekScoreToDTO(ctx, item.Score),
		})
	}
	return teamScoreHistoryDTO{
		TeamID:      v.TeamID,
		TotalPoints: v.TotalPoints,
		Weeks:       weeks,
	}
}

func windowToDTO(v usecase.WindowView) windowDTO {
	return windowDTO{
		WeekID:                 v.Week.ID,
		SeasonID:               v.Week.SeasonID,
		WeekNumber:             v.Week.Number,
		State:                  string(v.State),
		PricesReady:            v.PricesReady,
		PricesCalculated:       v.Week.PricesCalculated,
		TransferWindowOpen:     v.Week.TransferWindowOpen,
		TransferCutoffTime:     formatOptionalTime(v.Week.TransferCutoffTime),
		TransferWindowClosedAt: formatOptionalTime(v.Week.TransferWindowClosedAt),
	}
}

func currentPricesToDTO(items []valuechange.CurrentPrice) []currentPriceDTO {
	out := make([]currentPriceDTO, 0, len(items))
	for _, item := range items {
		out = append(out, currentPriceDTO{
			PlayerID: item.PlayerID,
			Round:    item.Round,
			Value:    money(item.Value),
			Delta:    money(item.Delta),
		})
	}
	return out
}

func budgetToDTO(v usecase.BudgetResult) budgetDTO {
	return budgetDTO{
		Budget:  money(v.Budget),
		Valid:   v.Valid,
		Deficit: money(v.Deficit),
	}
}

func transferPlanToDTO(plan usecase.TransferPlan, budget usecase.BudgetResult) transferPlanDTO {
	transfers := make([]transferDTO, 0, len(plan.Transfers))
	for _, t := range plan.Transfers {
		transfers = append(transfers, transferDTO{
			OutPlayerID: t.OutPlayerID,
			InPlayerID:  t.InPlayerID,
			Position:    t.Position.String(),
		})
	}

	return transferPlanDTO{
		Transfers: transfers,
		Count:     plan.Count,
		Allowed:   plan.Allowed,
		Unlimited: plan.Unlimited,
		Budget:    budgetToDTO(budget),
	}
}

func recalculationSummaryToDTO(v usecase.RecalculationSummary) recalculationSummaryDTO {
	teams := make([]teamRecalculationDTO, 0, len(v.Teams))
	for _, item := range v.Teams {
		teams = append(teams, teamRecalculationDTO{
			TeamID:     item.TeamID,
			Weeks:      item.Weeks,
			Status:     item.Status,
			Message:    item.Message,
			DurationMs: item.DurationMs,
		})
	}

	return recalculationSummaryDTO{
		WeekID:       v.WeekID,
		Teams:        teams,
		SuccessCount: v.SuccessCount,
		FailedCount:  v.FailedCount,
	}
}

func statsToDTO(v playerstats.Stats) statsDTO {
	return statsDTO{
		PlayerID:   v.PlayerID,
		GameID:     v.GameID,
		Goals:      v.Goals,
		Assists:    v.Assists,
		Blocks:     v.Blocks,
		Drops:      v.Drops,
		Throwaways: v.Throwaways,
		Points:     v.Points,
		Played:     v.Played,
	}
}
