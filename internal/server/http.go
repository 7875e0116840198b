package server

import (
	"context"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizville/quizville/internal/config"
	"github.com/quizville/quizville/internal/identity"
	"github.com/quizville/quizville/internal/logging"
	"github.com/quizville/quizville/internal/question"
	"github.com/quizville/quizville/internal/quiz"
	ws "github.com/quizville/quizville/pkg/http/ws"
)

// WSUpgrader handles WebSocket upgrades for the session event stream.
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the configured CORS origins once the SPA origin is fixed
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewHTTPServer wires the route table. pool and redisClient may be nil when
// the corresponding backend is unconfigured; the ping probe skips them.
func NewHTTPServer(
	cfg *config.App,
	logger zerolog.Logger,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	authSvc *identity.Service,
	authHandlers *identity.HTTPHandlers,
	questionHandlers *question.HTTPHandlers,
	quizHandlers *quiz.HTTPHandlers,
	hub *ws.Hub,
) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Auth endpoints
	mux.HandleFunc("POST /v1/auth/login", authHandlers.Login)
	mux.HandleFunc("POST /v1/auth/refresh", authHandlers.Refresh)
	mux.Handle("POST /v1/auth/logout", identity.RequireAuth(http.HandlerFunc(authHandlers.Logout)))
	mux.Handle("GET /v1/users/me", identity.RequireAuth(http.HandlerFunc(authHandlers.GetMe)))
	mux.HandleFunc("GET /v1/oauth/{provider}/start", authHandlers.OAuthStart)
	mux.HandleFunc("GET /v1/oauth/{provider}/callback", authHandlers.OAuthCallback)

	// Admin section
	adminOnly := identity.RequireRole(identity.RoleAdmin)
	mux.Handle("GET /v1/admin/users", adminOnly(http.HandlerFunc(authHandlers.ListUsers)))
	mux.Handle("POST /v1/admin/users", adminOnly(http.HandlerFunc(authHandlers.CreateUser)))
	mux.Handle("PUT /v1/admin/users/{id}", adminOnly(http.HandlerFunc(authHandlers.UpdateUser)))
	mux.Handle("DELETE /v1/admin/users/{id}", adminOnly(http.HandlerFunc(authHandlers.DeleteUser)))
	mux.Handle("POST /v1/admin/questions/import", adminOnly(http.HandlerFunc(questionHandlers.Import)))

	// Student section
	studentOnly := identity.RequireRole(identity.RoleStudent)
	mux.Handle("GET /v1/questions", studentOnly(http.HandlerFunc(questionHandlers.List)))
	mux.Handle("GET /v1/questions/review", studentOnly(http.HandlerFunc(questionHandlers.Review)))
	mux.Handle("POST /v1/quiz/session", studentOnly(http.HandlerFunc(quizHandlers.Start)))
	mux.Handle("GET /v1/quiz/session", studentOnly(http.HandlerFunc(quizHandlers.Get)))
	mux.Handle("POST /v1/quiz/session/next", studentOnly(http.HandlerFunc(quizHandlers.Next)))
	mux.Handle("POST /v1/quiz/session/previous", studentOnly(http.HandlerFunc(quizHandlers.Previous)))
	mux.Handle("POST /v1/quiz/session/jump", studentOnly(http.HandlerFunc(quizHandlers.Jump)))
	mux.Handle("POST /v1/quiz/session/flag", studentOnly(http.HandlerFunc(quizHandlers.Flag)))

	// Session event stream
	mux.HandleFunc("GET /ws/session", sessionEventsHandler(hub, logger))

	var handler http.Handler = mux
	handler = identity.Middleware(authSvc, logger)(handler)
	handler = cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})(handler)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

func sessionEventsHandler(hub *ws.Hub, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := WSUpgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		sub := ws.NewConnection(conn, logger)
		id := hub.Register(sub)

		go sub.WritePump()
		sub.ReadPump(func() { hub.Unregister(id) })
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if pool != nil {
		if err := pool.Ping(ctx); err != nil {
			return err
		}
	}
	if redisClient != nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
