package handler

import (
	"bank-ledger/internal/adapter/http/middleware"
	redisStore "bank-ledger/internal/adapter/storage/redis"
	"bank-ledger/internal/core/ports"
	"bank-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const defaultMaxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	TokenSvc       ports.TokenService         // nil = authentication disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	RateLimitRules map[string]middleware.RateLimitRule
	HealthCheckers []ports.HealthChecker
	MaxBodyBytes   int64    // 0 = 1 MB
	CORSOrigins    []string // empty = no CORS headers
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	r.Use(middleware.RequestID())
	if len(deps.CORSOrigins) > 0 {
		r.Use(middleware.CORS(deps.CORSOrigins))
	}
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(logger.Component(deps.Logger, "http")))
	r.Use(middleware.MaxBodySize(maxBody))
	r.Use(middleware.AuditLog(logger.Component(deps.Logger, "audit")))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Returns the group's rate limiter if a store and rule exist, else a no-op.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := deps.RateLimitRules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}
	reads, mutations := rl(middleware.GroupReads), rl(middleware.GroupMutations)

	v1 := r.Group("/api/v1")
	if deps.TokenSvc != nil {
		v1.Use(middleware.JWTAuth(deps.TokenSvc, deps.Logger))
	}

	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	v1.GET("/ledger/summary", reads, ledgerHandler.Summary)

	accountHandler := NewAccountHandler(deps.LedgerSvc)
	accounts := v1.Group("/accounts")
	{
		accounts.POST("", mutations, accountHandler.Open)
		accounts.GET("", reads, accountHandler.List)
		accounts.GET("/:id", reads, accountHandler.Get)
		accounts.POST("/:id/deposit", mutations, accountHandler.Deposit)
		accounts.POST("/:id/withdraw", mutations, accountHandler.Withdraw)
		accounts.POST("/:id/interest", mutations, accountHandler.AddInterest)
		accounts.POST("/:id/fee", mutations, accountHandler.ChargeFee)
		accounts.POST("/:id/activate", mutations, accountHandler.Activate)
		accounts.POST("/:id/deactivate", mutations, accountHandler.Deactivate)
		accounts.GET("/:id/transactions", reads, accountHandler.ListTransactions)
		accounts.GET("/:id/employees", reads, accountHandler.ListEmployees)
		accounts.POST("/:id/employees", mutations, accountHandler.AddEmployee)
		accounts.DELETE("/:id/employees/:employee_id", mutations, accountHandler.RemoveEmployee)
	}

	return r
}
