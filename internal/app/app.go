package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ultimate-fantasy/internal/config"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/fantasyteam"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/game"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/player"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/playerstats"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/season"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/snapshot"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/valuechange"
	"github.com/riskibarqy/ultimate-fantasy/internal/domain/week"
	"github.com/riskibarqy/ultimate-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/ultimate-fantasy/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/ultimate-fantasy/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/ultimate-fantasy/internal/platform/id"
	"github.com/riskibarqy/ultimate-fantasy/internal/platform/logging"
	"github.com/riskibarqy/ultimate-fantasy/internal/usecase"
)

type repositories struct {
	seasons  season.Repository
	weeks    week.Repository
	players  player.Repository
	games    game.Repository
	stats    playerstats.Repository
	values   valuechange.Repository
	teams    fantasyteam.Repository
	snaps    snapshot.Repository
	scores   scoring.Repository
	backend  string
	closeFns []func() error
}

func (r repositories) close() error {
	var firstErr error
	for _, fn := range r.closeFns {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewHTTPServer builds the engine services on top of postgres when DB_ENABLED
// is set and on the embedded demo season otherwise. The returned cleanup
// releases the database pool and must run after the server stops.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	priceSvc := usecase.NewPriceService(repos.seasons, repos.weeks, repos.games, repos.players, repos.stats, repos.values, logger)
	snapshotSvc := usecase.NewSnapshotService(repos.teams, repos.weeks, repos.players, repos.snaps, priceSvc, idgen.NewUUIDGenerator(), logger)
	scoringSvc := usecase.NewScoringService(repos.weeks, repos.snaps, repos.games, repos.stats, repos.scores, cfg.RecalcWorkers, logger)
	windowSvc := usecase.NewTransferWindowService(repos.weeks, cfg.TransferBypassUserIDs, logger)
	budgetSvc := usecase.NewBudgetService(repos.seasons, repos.weeks, repos.teams, repos.players, priceSvc, snapshotSvc, cfg.SalaryCapDefault, logger)
	statsSvc := usecase.NewStatsService(repos.games, repos.players, repos.stats, cfg.PointRules, scoringSvc, logger)

	handler := httpapi.NewHandler(snapshotSvc, scoringSvc, priceSvc, windowSvc, budgetSvc, statsSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminAPIToken)

	logger.InfoContext(ctx, "engine wired",
		"backend", repos.backend,
		"recalc_workers", cfg.RecalcWorkers,
		"bypass_users", len(cfg.TransferBypassUserIDs),
		"admin_routes_enabled", cfg.AdminAPIToken != "",
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, repos.close, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if !cfg.DBEnabled {
		return newMemoryRepositories()
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	if cfg.DBSeedEnabled {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}
		logger.InfoContext(ctx, "database seed checked")
	}

	return newPostgresRepositories(db), nil
}

func newPostgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		seasons:  postgres.NewSeasonRepository(db),
		weeks:    postgres.NewWeekRepository(db),
		players:  postgres.NewPlayerRepository(db),
		games:    postgres.NewGameRepository(db),
		stats:    postgres.NewPlayerStatsRepository(db),
		values:   postgres.NewValueChangeRepository(db),
		teams:    postgres.NewFantasyTeamRepository(db),
		snaps:    postgres.NewSnapshotRepository(db),
		scores:   postgres.NewWeekScoreRepository(db),
		backend:  "postgres",
		closeFns: []func() error{db.Close},
	}
}

func newMemoryRepositories() (repositories, error) {
	seed, err := memory.LoadSeed()
	if err != nil {
		return repositories{}, fmt.Errorf("load demo seed: %w", err)
	}

	return repositories{
		seasons: memory.NewSeasonRepository(seed.Seasons),
		weeks:   memory.NewWeekRepository(seed.Weeks),
		players: memory.NewPlayerRepository(seed.Players),
		games:   memory.NewGameRepository(seed.Games),
		stats:   memory.NewPlayerStatsRepository(nil),
		values:  memory.NewValueChangeRepository(),
		teams:   memory.NewFantasyTeamRepository(seed.FantasyTeams),
		snaps:   memory.NewSnapshotRepository(),
		scores:  memory.NewWeekScoreRepository(),
		backend: "memory",
	}, nil
}
