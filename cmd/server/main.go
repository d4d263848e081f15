package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/growplan/Commission-Engine-Backend/internal/api"
	"github.com/growplan/Commission-Engine-Backend/internal/config"
	"github.com/growplan/Commission-Engine-Backend/internal/database"
	"github.com/growplan/Commission-Engine-Backend/internal/repository"
	"github.com/growplan/Commission-Engine-Backend/internal/service"
	"github.com/growplan/Commission-Engine-Backend/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	treeRepo := repository.NewTreeRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	ledgerRepo := repository.NewLifetimeLedgerRepository(db)
	monthlyRepo := repository.NewMonthlyLedgerRepository(db)
	transactionRepo := repository.NewBVTransactionRepository(db)
	rankRepo := repository.NewRankRepository(db)
	walletRepo := repository.NewWalletRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	walletService := service.NewWalletService(walletRepo)
	rankService := service.NewRankService(rankRepo, treeRepo, walletService)
	propagationService := service.NewPropagationService(
		db,
		treeRepo,
		purchaseRepo,
		ledgerRepo,
		monthlyRepo,
		transactionRepo,
		rankService,
		walletService,
		cfg.Engine.SponsorPercentage,
	)
	purchaseService := service.NewPurchaseService(purchaseRepo, treeRepo, propagationService)
	snapshotService := service.NewSnapshotService(treeRepo, ledgerRepo, monthlyRepo, transactionRepo, walletRepo)

	// Schedule the propagation retry job
	retrier := worker.NewPropagationRetrier(
		purchaseRepo,
		propagationService,
		time.Duration(cfg.Retry.GraceMinutes)*time.Minute,
		cfg.Retry.BatchLimit,
		cfg.Retry.Concurrency,
	)
	scheduler := cron.New()
	_, err = scheduler.AddFunc(fmt.Sprintf("@every %dm", cfg.Retry.IntervalMinutes), func() {
		if _, err := retrier.Run(context.Background()); err != nil {
			log.Printf("Propagation retry run failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule propagation retry job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(systemService, purchaseService, snapshotService, walletService, rankService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
