package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tribalcouncil/fantasy-survivor/internal/config"
	auditdomain "github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/prediction"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/roster"
	scoringdomain "github.com/tribalcouncil/fantasy-survivor/internal/domain/scoring"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/trade"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
	"github.com/tribalcouncil/fantasy-survivor/internal/infrastructure/account/gatehouse"
	auditinfra "github.com/tribalcouncil/fantasy-survivor/internal/infrastructure/audit"
	cacherepo "github.com/tribalcouncil/fantasy-survivor/internal/infrastructure/repository/cache"
	"github.com/tribalcouncil/fantasy-survivor/internal/infrastructure/repository/memory"
	"github.com/tribalcouncil/fantasy-survivor/internal/infrastructure/repository/postgres"
	"github.com/tribalcouncil/fantasy-survivor/internal/interfaces/httpapi"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/cache"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/invite"
	"github.com/tribalcouncil/fantasy-survivor/internal/usecase"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Server        *http.Server
	DB            *sqlx.DB
	AuditRecorder *auditinfra.Recorder
}

type repositories struct {
	user       user.Repository
	league     league.Repository
	contestant contestant.Repository
	episode    episode.Repository
	roster     roster.Repository
	trade      trade.Repository
	ledger     ledger.Repository
	prediction prediction.Repository
	scoring    scoringdomain.Repository
	audit      auditdomain.Repository
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, db, err := buildRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// The deadline gate reads lock state on every mutation, so only
	// league and contestant lookups go through the TTL cache.
	if cfg.CacheEnabled {
		cacheStore := cache.NewStore(cfg.CacheTTL)
		repos.league = cacherepo.NewLeagueRepository(repos.league, cacheStore)
		repos.contestant = cacherepo.NewContestantRepository(repos.contestant, cacheStore)
	}

	recorder, err := auditinfra.NewRecorder(repos.audit, cfg.AuditWorkers, logger)
	if err != nil {
		return nil, err
	}

	leagueSvc := usecase.NewLeagueService(repos.league, repos.scoring, repos.user, invite.Generator{}, logger)
	contestantSvc := usecase.NewContestantService(repos.league, repos.contestant, logger)
	episodeSvc := usecase.NewEpisodeService(repos.league, repos.episode, logger)
	rosterSvc := usecase.NewRosterService(repos.league, repos.contestant, repos.episode, repos.roster, recorder, logger)
	tradeSvc := usecase.NewTradeService(repos.league, repos.episode, repos.trade, recorder, logger)
	predictionSvc := usecase.NewPredictionService(repos.league, repos.contestant, repos.episode, repos.prediction, recorder, logger)
	scoringSvc := usecase.NewScoringService(repos.episode, repos.roster, repos.scoring, repos.ledger, repos.prediction, recorder, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.ledger, logger)
	exportSvc := usecase.NewExportService(repos.ledger, repos.audit, logger)

	verifier := gatehouse.NewClient(
		&http.Client{Timeout: cfg.GatehouseTimeout},
		cfg.GatehouseBaseURL,
		cfg.GatehouseIntrospectPath,
		gatehouse.CircuitBreakerConfig{
			FailureThreshold: cfg.GatehouseCircuitFailureCount,
			OpenTimeout:      cfg.GatehouseCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GatehouseCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		leagueSvc,
		contestantSvc,
		episodeSvc,
		rosterSvc,
		tradeSvc,
		predictionSvc,
		scoringSvc,
		leaderboardSvc,
		exportSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:        server,
		DB:            db,
		AuditRecorder: recorder,
	}, nil
}

// Close releases app-owned resources after the server has shut down.
func (a *App) Close() error {
	if a.AuditRecorder != nil {
		a.AuditRecorder.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildRepositories(ctx context.Context, cfg config.Config) (repositories, *sqlx.DB, error) {
	if cfg.StoreDriver == config.StoreMemory {
		store := memory.NewStore()
		if cfg.SeedDemoData {
			if err := memory.Seed(ctx, store); err != nil {
				return repositories{}, nil, fmt.Errorf("seed memory store: %w", err)
			}
		}

		return repositories{
			user:       memory.NewUserRepository(store),
			league:     memory.NewLeagueRepository(store),
			contestant: memory.NewContestantRepository(store),
			episode:    memory.NewEpisodeRepository(store),
			roster:     memory.NewRosterRepository(store),
			trade:      memory.NewTradeRepository(store),
			ledger:     memory.NewLedgerRepository(store),
			prediction: memory.NewPredictionRepository(store),
			scoring:    memory.NewScoringRepository(store),
			audit:      memory.NewAuditRepository(store),
		}, nil, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	return repositories{
		user:       postgres.NewUserRepository(db),
		league:     postgres.NewLeagueRepository(db),
		contestant: postgres.NewContestantRepository(db),
		episode:    postgres.NewEpisodeRepository(db),
		roster:     postgres.NewRosterRepository(db),
		trade:      postgres.NewTradeRepository(db),
		ledger:     postgres.NewLedgerRepository(db),
		prediction: postgres.NewPredictionRepository(db),
		scoring:    postgres.NewScoringRepository(db),
		audit:      postgres.NewAuditRepository(db),
	}, db, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
