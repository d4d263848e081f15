package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/growplan/Commission-Engine-Backend/internal/api/handlers"
	custommiddleware "github.com/growplan/Commission-Engine-Backend/internal/api/middleware"
	"github.com/growplan/Commission-Engine-Backend/internal/config"
	"github.com/growplan/Commission-Engine-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	purchaseService *service.PurchaseService,
	snapshotService *service.SnapshotService,
	walletService *service.WalletService,
	rankService *service.RankService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/purchase", func(r chi.Router) {
			purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
			r.Post("/", purchaseHandler.CreatePurchase)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", purchaseHandler.GetPurchase)
			})
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(snapshotService)
			r.Get("/", transactionHandler.ListTransactions)
			r.Get("/export", transactionHandler.ExportTransactions)
		})

		r.Route("/user/{uuid}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDMiddleware)
			userHandler := handlers.NewUserHandler(snapshotService, walletService, rankService)
			r.Get("/bv", userHandler.BVSnapshot)
			r.Get("/monthly", userHandler.MonthlyLedgers)
			r.Get("/wallet", userHandler.WalletStatement)
			r.Get("/achievements", userHandler.Achievements)
		})

		r.Route("/rank", func(r chi.Router) {
			rankHandler := handlers.NewRankHandler(rankService)
			r.Get("/", rankHandler.ListRanks)
		})
	})

	return r
}
