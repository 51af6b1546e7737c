package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/novabank/banking/internal/auth"
	"github.com/novabank/banking/internal/config"
	"github.com/novabank/banking/internal/events"
	"github.com/novabank/banking/internal/handler"
	"github.com/novabank/banking/internal/ledger"
	"github.com/novabank/banking/internal/middleware"
	"github.com/novabank/banking/internal/notify"
	"github.com/novabank/banking/internal/query"
	redisClient "github.com/novabank/banking/internal/redis"
	"github.com/novabank/banking/internal/requests"
	"github.com/novabank/banking/internal/store"
	"github.com/novabank/banking/internal/store/memory"
	"github.com/novabank/banking/internal/store/postgres"
)

func main() {
	cfg := config.Load()

	// Record store
	var st store.Store
	if cfg.InMemory {
		log.Println("Using in-memory store")
		st = memory.New()
	} else {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		st = postgres.New(db)
	}

	// Redis (view cache + event streaming)
	redis, err := redisClient.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	publisher := events.NewPublisher(redis.Client)

	// --- service wiring ---
	accountViews := query.NewAccountQueryService(st, redis.Client, 10*time.Minute)
	transactionViews := query.NewTransactionQueryService(st)

	ledgerSvc := ledger.NewService(st, publisher, accountViews, cfg.DefaultCurrency)
	requestSvc := requests.NewService(st, ledgerSvc)
	authSvc := auth.NewService(st, cfg.DefaultCurrency)

	authHandler := handler.NewAuthHandler(authSvc)
	accountHandler := handler.NewAccountHandler(accountViews, transactionViews)
	ledgerHandler := handler.NewLedgerHandler(ledgerSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	notificationHandler := handler.NewNotificationHandler(st.Notifications())
	adminHandler := handler.NewAdminHandler(requestSvc)

	// Setup router
	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		authed := v1.Group("", middleware.AuthMiddleware())
		{
			authed.GET("/accounts", accountHandler.ListAccounts)
			authed.GET("/accounts/:accountId", accountHandler.GetAccount)
			authed.GET("/accounts/:accountId/transactions", accountHandler.ListTransactions)

			authed.POST("/transfers", ledgerHandler.CreateTransfer)
			authed.POST("/payments", ledgerHandler.CreatePayment)

			authed.POST("/account-requests", requestHandler.SubmitAccountRequest)
			authed.POST("/fund-requests", requestHandler.SubmitFundRequest)

			authed.GET("/notifications", notificationHandler.ListNotifications)
			authed.PATCH("/notifications/:notificationId/read", notificationHandler.MarkRead)
		}

		admin := v1.Group("/admin", middleware.AuthMiddleware(), middleware.RequireAdmin(st.Profiles()))
		{
			admin.GET("/account-requests", adminHandler.ListAccountRequests)
			admin.POST("/account-requests/:requestId/approve", adminHandler.ApproveAccountRequest)
			admin.POST("/account-requests/:requestId/reject", adminHandler.RejectAccountRequest)

			admin.GET("/fund-requests", adminHandler.ListFundRequests)
			admin.POST("/fund-requests/:requestId/approve", adminHandler.ApproveFundRequest)
			admin.POST("/fund-requests/:requestId/reject", adminHandler.RejectFundRequest)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		dispatcher := notify.NewDispatcher(redis, notify.Config{
			RabbitMQURL:        cfg.RabbitMQURL,
			RabbitMQExchange:   cfg.RabbitMQExchange,
			RabbitMQRoutingKey: cfg.RabbitMQRoutingKey,
		})
		if err := dispatcher.Start(ctx); err != nil {
			log.Printf("Notification dispatcher stopped: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	log.Printf("NovaBank server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
