package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/dbpool"
	"github.com/brokeragehq/backoffice/internal/middleware"
	"github.com/brokeragehq/backoffice/internal/models"
	"github.com/brokeragehq/backoffice/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log              *logrus.Logger
	Pool             *dbpool.Pool
	Hub              *ws.Hub
	Clients          ClientRepository
	Accounts         AccountRepository
	Instruments      InstrumentRepository
	Orders           OrderRepository
	Transactions     TransactionRepository
	Changes          ChangeQuerier
	ActorLookup      middleware.ActorLookup
	CORSOrigins      []string
	Version          string
	EnableChangeFeed bool
}

// Router-level limits.
const (
	maxBodySize = 10 << 20 // 10 MB
	rateLimit   = 100      // requests per second per IP
	rateBurst   = 200      // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version)
	clients := NewClientHandler(deps.Clients, log)
	accounts := NewAccountHandler(deps.Accounts, log)
	instruments := NewInstrumentHandler(deps.Instruments, log)
	orders := NewOrderHandler(deps.Orders, log)
	transactions := NewTransactionHandler(deps.Transactions, log)
	changes := NewChangesHandler(deps.Changes, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// All other API routes require authentication. Locked-out keys are
	// rejected before the key lookup ever reaches the database.
	lookup := middleware.NewCachedActorLookup(ctx, deps.ActorLookup)
	guard := middleware.NewBruteForceGuard(ctx, log)
	api.Use(middleware.BruteForceMiddleware(guard))
	api.Use(middleware.AuthMiddleware(lookup, log, guard))

	// Clients.
	api.GET("/clients", clients.List)
	api.POST("/clients", clients.Create)
	api.GET("/clients/:id", clients.Get)
	api.PUT("/clients/:id", clients.Update)
	api.DELETE("/clients/:id", clients.Delete)
	api.GET("/clients/:id/history", changes.History(models.EntityClient))

	// Accounts.
	api.GET("/accounts", accounts.List)
	api.POST("/accounts", accounts.Create)
	api.GET("/accounts/:id", accounts.Get)
	api.PUT("/accounts/:id", accounts.Update)
	api.DELETE("/accounts/:id", accounts.Delete)
	api.GET("/accounts/:id/history", changes.History(models.EntityAccount))

	// Instruments.
	api.GET("/instruments", instruments.List)
	api.POST("/instruments", instruments.Create)
	api.GET("/instruments/:id", instruments.Get)
	api.PUT("/instruments/:id", instruments.Update)
	api.DELETE("/instruments/:id", instruments.Delete)
	api.GET("/instruments/:id/history", changes.History(models.EntityInstrument))

	// Orders.
	api.GET("/orders", orders.List)
	api.POST("/orders", orders.Create)
	api.GET("/orders/:id", orders.Get)
	api.PUT("/orders/:id", orders.Update)
	api.DELETE("/orders/:id", orders.Delete)
	api.GET("/orders/:id/history", changes.History(models.EntityOrder))

	// Transactions.
	api.GET("/transactions", transactions.List)
	api.POST("/transactions", transactions.Create)
	api.GET("/transactions/:id", transactions.Get)
	api.PUT("/transactions/:id", transactions.Update)
	api.DELETE("/transactions/:id", transactions.Delete)
	api.GET("/transactions/:id/history", changes.History(models.EntityTransaction))

	// Cross-entity change feed.
	api.GET("/changes", changes.Feed)
	api.GET("/changes/export", changes.Export)
	api.GET("/changes/:id", changes.Get)

	// WebSocket feed of committed changes.
	if deps.EnableChangeFeed {
		api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.ActorLookup))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
