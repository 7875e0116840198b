package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizville/quizville/internal/config"
	"github.com/quizville/quizville/internal/db/repository"
	"github.com/quizville/quizville/internal/identity"
	"github.com/quizville/quizville/internal/identity/jwt"
	"github.com/quizville/quizville/internal/logging"
	"github.com/quizville/quizville/internal/question"
	"github.com/quizville/quizville/internal/quiz"
	"github.com/quizville/quizville/internal/server"
	ws "github.com/quizville/quizville/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
// Both Postgres and Redis are optional: without Postgres the service runs
// on the in-memory mock tables, without Redis quiz sessions live in
// process memory and the imported-text fallback source is unavailable.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// sessionNotifier pushes identity session events onto the WebSocket hub.
type sessionNotifier struct {
	hub *ws.Hub
}

func (n sessionNotifier) SessionEvent(event string, user identity.User) {
	n.hub.Broadcast(ws.Message{
		Type: "session_event",
		Payload: map[string]interface{}{
			"event":    event,
			"user_id":  user.ID,
			"username": user.Username,
			"role":     string(user.Role),
		},
	})
}

// New bootstraps config, logger, optional Postgres/Redis, and the HTTP
// server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	if cfg.Security.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be configured")
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.Configured() {
		connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

		var err error
		pool, err = pgxpool.New(ctx, connString)
		if err != nil {
			// Remote store unusable; run on the fallback tables instead.
			logger.Warn().Err(err).Msg("postgres unavailable, using in-memory fallback stores")
			pool = nil
		}
	} else {
		logger.Warn().Msg("postgres not configured, using in-memory fallback stores")
	}

	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
	} else {
		logger.Warn().Msg("redis not configured, quiz sessions held in process memory")
	}

	hub := ws.NewHub(logger)

	// Identity resolution: remote directory when Postgres is up, always
	// backed by the fixed mock credential table.
	mock := identity.NewMemoryDirectory(identity.DefaultMockUsers())
	var remote identity.Directory
	if pool != nil {
		remote = identity.NewPostgresDirectory(repository.NewProfileRepository(pool))
	}

	tokenCfg := jwt.TokenConfig{
		AccessSecret:  []byte(cfg.Security.JWTSecret),
		RefreshSecret: []byte(cfg.Security.JWTSecret + "_refresh"),
		Issuer:        cfg.Name,
	}

	authSvc := identity.NewService(remote, mock, identity.ServiceOptions{
		TokenConfig: tokenCfg,
		Notifier:    sessionNotifier{hub: hub},
	}, logger)

	var oauthSvc *identity.OAuthService
	if cfg.OAuth.GoogleClientID != "" && cfg.OAuth.GoogleClientSecret != "" {
		redirectURL := cfg.OAuth.GoogleRedirectURL
		if redirectURL == "" {
			redirectURL = fmt.Sprintf("http://%s/v1/oauth/google/callback", cfg.HTTPAddr)
		}
		oauthSvc = identity.NewOAuthService(
			cfg.OAuth.GoogleClientID,
			cfg.OAuth.GoogleClientSecret,
			redirectURL,
			logger,
		)
		logger.Info().Msg("oauth service initialized")
	}

	authHandlers := identity.NewHTTPHandlers(authSvc, oauthSvc, logger)

	// Question store fallback chain: remote table, then the persisted
	// import blob, then the built-in seed. First source with data wins.
	var blobs question.BlobStore
	if redisClient != nil {
		blobs = question.NewRedisBlobStore(redisClient)
	}

	var providers []question.Provider
	if pool != nil {
		providers = append(providers, question.NewRemoteProvider(repository.NewQuestionRepository(pool)))
	}
	if blobs != nil {
		providers = append(providers, question.NewImportedProvider(blobs))
	}
	providers = append(providers, question.SeedProvider{})

	var questionSvc *question.Service
	if pool != nil {
		questionSvc = question.NewService(providers, repository.NewQuestionRepository(pool), blobs, logger)
	} else {
		questionSvc = question.NewService(providers, nil, blobs, logger)
	}
	questionHandlers := question.NewHTTPHandlers(questionSvc, logger)

	var stateMgr quiz.StateManager
	if redisClient != nil {
		stateMgr = quiz.NewRedisStateManager(redisClient, cfg.Quiz.SessionTTL, logger)
	} else {
		stateMgr = quiz.NewMemoryStateManager()
	}
	quizHandlers := quiz.NewHTTPHandlers(questionSvc, stateMgr, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, authSvc, authHandlers, questionHandlers, quizHandlers, hub)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
