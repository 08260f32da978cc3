package memory

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/riskibarqy/ultimate-fantasy/internal/domain/fantasyteam"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/game"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/season"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed is the demo season served by the in-memory store and loaded into
// postgres by the seeding helper.
type Seed struct {
	Seasons      []season.Season
	Weeks        []week.Week
	Players      []player.Player
	Games        []game.Game
	FantasyTeams []fantasyteam.Team
}

type seedFile struct {
	Seasons []struct {
		ID        string    `yaml:"id"`
		Name      string    `yaml:"name"`
		Active    bool      `yaml:"active"`
		StartsAt  time.Time `yaml:"starts_at"`
		EndsAt    time.Time `yaml:"ends_at"`
		SalaryCap string    `yaml:"salary_cap"`
	} `yaml:"seasons"`
	Weeks []struct {
		ID       string    `yaml:"id"`
		SeasonID string    `yaml:"season_id"`
		Number   int       `yaml:"number"`
		GameDate time.Time `yaml:"game_date"`
	} `yaml:"weeks"`
	Players []struct {
		ID            string `yaml:"id"`
		SeasonID      string `yaml:"season_id"`
		Name          string `yaml:"name"`
		TeamName      string `yaml:"team_name"`
		Position      string `yaml:"position"`
		StartingValue string `yaml:"starting_value"`
	} `yaml:"players"`
	Games []struct {
		ID       string    `yaml:"id"`
		WeekID   string    `yaml:"week_id"`
		HomeTeam string    `yaml:"home_team"`
		AwayTeam string    `yaml:"away_team"`
		StartsAt time.Time `yaml:"starts_at"`
	} `yaml:"games"`
	FantasyTeams []struct {
		ID          string    `yaml:"id"`
		SeasonID    string    `yaml:"season_id"`
		OwnerUserID string    `yaml:"owner_user_id"`
		Name        string    `yaml:"name"`
		CreatedAt   time.Time `yaml:"created_at"`
	} `yaml:"fantasy_teams"`
}

// LoadSeed decodes the embedded demo season.
func LoadSeed() (Seed, error) {
	return ParseSeed(seedYAML)
}

func ParseSeed(raw []byte) (Seed, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}

	var out Seed
	for _, s := range file.Seasons {
		salaryCap, err := decimal.NewFromString(s.SalaryCap)
		if err != nil {
			return Seed{}, fmt.Errorf("parse salary cap for season=%s: %w", s.ID, err)
		}
		out.Seasons = append(out.Seasons, season.Season{
			ID:        s.ID,
			Name:      s.Name,
			Active:    s.Active,
			StartsAt:  s.StartsAt.UTC(),
			EndsAt:    s.EndsAt.UTC(),
			SalaryCap: salaryCap,
		})
	}

	for _, w := range file.Weeks {
		item := week.Week{
			ID:       w.ID,
			SeasonID: w.SeasonID,
			Number:   w.Number,
			GameDate: w.GameDate.UTC(),
		}
		if err := item.Validate(); err != nil {
			return Seed{}, err
		}
		out.Weeks = append(out.Weeks, item)
	}

	for _, p := range file.Players {
		pos, err := player.ParsePosition(p.Position)
		if err != nil {
			return Seed{}, fmt.Errorf("player=%s: %w", p.ID, err)
		}
		value, err := decimal.NewFromString(p.StartingValue)
		if err != nil {
			return Seed{}, fmt.Errorf("parse starting value for player=%s: %w", p.ID, err)
		}
		item := player.Player{
			ID:            p.ID,
			SeasonID:      p.SeasonID,
			Name:          p.Name,
			TeamName:      p.TeamName,
			Position:      pos,
			StartingValue: value,
			Active:        true,
		}
		if err := item.Validate(); err != nil {
			return Seed{}, err
		}
		out.Players = append(out.Players, item)
	}

	for _, g := range file.Games {
		out.Games = append(out.Games, game.Game{
			ID:       g.ID,
			WeekID:   g.WeekID,
			HomeTeam: g.HomeTeam,
			AwayTeam: g.AwayTeam,
			StartsAt: g.StartsAt.UTC(),
		})
	}

	for _, t := range file.FantasyTeams {
		out.FantasyTeams = append(out.FantasyTeams, fantasyteam.Team{
			ID:          t.ID,
			SeasonID:    t.SeasonID,
			OwnerUserID: t.OwnerUserID,
			Name:        t.Name,
			CreatedAt:   t.CreatedAt.UTC(),
		})
	}

	return out, nil
}
