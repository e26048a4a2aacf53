// Package httpserver manages server creation and api routing.
package httpserver

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/bootstrap"
	"github.com/go-petr/pet-ledger/internal/customerdelivery"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/transactiondelivery"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

// Server holds the ledger services, handlers router and configuration.
type Server struct {
	Ledger     *bootstrap.Ledger
	Engine     *gin.Engine
	Config     configpkg.Config
	TokenMaker tokenpkg.Maker
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}

	return c
}

// New creates Server type with instantiated handlers and routes.
func New(ledger *bootstrap.Ledger, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	tokenMaker, err := tokenpkg.New(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	loginLimiter, err := middleware.NewRateLimiter(config.LoginRateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_LIMIT %q: %w", config.LoginRateLimit, err)
	}

	if err := customerdelivery.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("cannot register validators: %w", err)
	}

	customerHandler := customerdelivery.NewHandler(ledger.Customers, ledger.Accounts, tokenMaker, config.AccessTokenDuration)
	accountHandler := accountdelivery.NewHandler(ledger.Accounts)
	transactionHandler := transactiondelivery.NewHandler(ledger.Transactions)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(cors.New(corsConfig(config.CORSAllowedOrigins)))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.GET("/", func(gctx *gin.Context) {
		gctx.JSON(http.StatusOK, gin.H{"message": "pet-ledger API"})
	})

	api := engine.Group("/api/v1")

	api.GET("/health", func(gctx *gin.Context) {
		gctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.POST("/users/register", customerHandler.Register)
	api.POST("/auth/login", middleware.RateLimit(loginLimiter), customerHandler.Login)

	authRoutes := api.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/users/profile", customerHandler.Profile)

	authRoutes.GET("/account/balance", accountHandler.Balance)
	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.POST("/accounts", accountHandler.Open)
	authRoutes.GET("/statement", accountHandler.Statement)

	authRoutes.POST("/transactions/deposit", transactionHandler.Deposit)
	authRoutes.POST("/transactions/withdraw", transactionHandler.Withdraw)

	server := &Server{
		Ledger:     ledger,
		Engine:     engine,
		Config:     config,
		TokenMaker: tokenMaker,
	}

	return server, nil
}
