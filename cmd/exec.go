package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	pubnub "github.com/pubnub/go"

	"matchday/config"
	"matchday/internal/auth"
	"matchday/internal/handlers"
	"matchday/internal/services"
	_ "matchday/migrations"
	"matchday/monitoring"
	"matchday/security"
	"matchday/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	// Initialize PubNub
	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	tokens := auth.NewTokenService(cfg.JWTSecretKey, cfg.JWTExpire)
	accounts := services.NewAccountService(app)
	ledger := services.NewTicketService(app)
	catalog := services.NewCatalogService(app, ledger)
	prices := services.NewPriceCache(redisClient, cfg.PriceCacheTTL)
	notify := services.NewNotifyService(pn)
	trade := services.NewTradeService(accounts, ledger, catalog, prices, notify)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accounts, tokens)
	adminHandler := handlers.NewAdminHandler(accounts)
	userHandler := handlers.NewUserHandler(accounts, ledger, trade)
	teamHandler := handlers.NewTeamHandler(catalog)
	matchHandler := handlers.NewMatchHandler(catalog)
	categoryHandler := handlers.NewCategoryHandler(catalog, prices)

	// Middlewares
	signed := security.NewSignedRequest(cfg.AppSecretKey).Require()
	bearer := security.NewBearer(tokens, accounts)
	userAuth := bearer.RequireUser()
	adminAuth := bearer.RequireAdmin()
	rateLimit := security.NewRateLimiter(redisClient, cfg.AuthRateLimit, cfg.AuthRateWindow).AuthRateLimit()

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Background tasks
	if cfg.EnableMetrics {
		monitoring.StartOpsServer(cfg.MetricsPort, redisClient)
		go monitoring.NewMonitor(app).Run(ctx)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	// Register routes
	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		e.Router.BindFunc(func(re *core.RequestEvent) error {
			start := time.Now()
			err := re.Next()
			monitoring.TrackRequest(monitoring.RouteLabel(re.Request.Pattern, re.Request.Method), time.Since(start))
			return err
		})

		// Admin endpoints
		e.Router.POST("/admin", adminHandler.Create).BindFunc(signed)
		e.Router.POST("/admin/login", authHandler.LoginAdmin).BindFunc(signed, rateLimit)
		e.Router.GET("/admin/{id}", adminHandler.Get).BindFunc(adminAuth)
		e.Router.DELETE("/admin/{id}", adminHandler.Remove).BindFunc(adminAuth)

		// Auth endpoints
		e.Router.POST("/auth/login", authHandler.LoginUser).BindFunc(signed, rateLimit)
		e.Router.POST("/auth/islogged", authHandler.IsLogged).BindFunc(signed, rateLimit)

		// User endpoints
		e.Router.POST("/user", userHandler.Create).BindFunc(signed)
		e.Router.GET("/user/{id}", userHandler.Get).BindFunc(userAuth)
		e.Router.DELETE("/user/{id}", userHandler.Remove).BindFunc(userAuth)
		e.Router.PUT("/user/buy", userHandler.Buy).BindFunc(userAuth)
		e.Router.PUT("/user/sell", userHandler.Sell).BindFunc(userAuth)
		e.Router.PUT("/user/budget", userHandler.IncreaseBudget).BindFunc(userAuth)
		e.Router.GET("/user/{id}/tickets", userHandler.Tickets).BindFunc(userAuth)

		// Team endpoints
		e.Router.POST("/team", teamHandler.Create).BindFunc(adminAuth)
		e.Router.PUT("/team", teamHandler.Update).BindFunc(adminAuth)
		e.Router.GET("/team/{id}", teamHandler.Get).BindFunc(signed)
		e.Router.DELETE("/team/{id}", teamHandler.Remove).BindFunc(adminAuth)

		// Match endpoints
		e.Router.POST("/match", matchHandler.Create).BindFunc(adminAuth)
		e.Router.PUT("/match", matchHandler.Update).BindFunc(adminAuth)
		e.Router.POST("/match/category", matchHandler.AddCategory).BindFunc(adminAuth)
		e.Router.GET("/match", matchHandler.GetAll).BindFunc(signed)
		e.Router.GET("/match/{id}", matchHandler.Get).BindFunc(signed)

		// Category endpoints
		e.Router.PUT("/category", categoryHandler.Update).BindFunc(adminAuth)
		e.Router.POST("/category/ticket", categoryHandler.AddTickets).BindFunc(adminAuth)

		slog.Info("server routes registered", "environment", cfg.Environment)

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		return err
	}
	return nil
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
