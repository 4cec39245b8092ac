package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hivetax/hivetax-platform/internal/api/handlers"
	"github.com/hivetax/hivetax-platform/internal/api/middleware"
	"github.com/hivetax/hivetax-platform/internal/config"
	"github.com/hivetax/hivetax-platform/internal/health"
	"github.com/hivetax/hivetax-platform/internal/metrics"
	"github.com/hivetax/hivetax-platform/internal/models"
	repository "github.com/hivetax/hivetax-platform/internal/repositories"
	service "github.com/hivetax/hivetax-platform/internal/services"
	"github.com/hivetax/hivetax-platform/pkg/qr"
	"github.com/hivetax/hivetax-platform/pkg/sendgrid"
	"github.com/hivetax/hivetax-platform/pkg/stripe"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisRepo, err := repository.NewRedisRepo(cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("Database connection closed")
		}
	}()

	jwtKey := []byte(cfg.Security.JWTKey)
	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey)
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	cartRepo := repository.NewCartRepo(redisRepo.Client(), cfg)

	userService := service.NewUserService(repos.User, redisRepo, jwtKey, cfg.Security.SessionTTL)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(cartRepo, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	txService := service.NewTransactionService(cartRepo, repos.Transaction, repos.User, qr.NewEncoder(), cfg.QR)
	txHandler := handlers.NewTransactionHandler(txService)
	provider := service.NewSettlementProvider(cfg.Settlement, stripeClient)
	notificationService := service.NewNotificationService(emailService)
	settlementService := service.NewSettlementService(repos.Transaction, provider, notificationService)
	settlementHandler := handlers.NewSettlementHandler(settlementService)
	reportService := service.NewReportService(repos.Transaction, repos.User)
	reportHandler := handlers.NewReportHandler(reportService)
	fraudService := service.NewFraudService(repos.Fraud)
	fraudHandler := handlers.NewFraudHandler(fraudService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey, redisRepo)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("Error building health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("POST /api/v1/users/logout", authMiddleware.Authenticate(userHandler.Logout()))
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))

	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(authMiddleware.RequireRole(models.RoleSeller, productHandler.Create())))
	routerMux.HandleFunc("GET /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.Get()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Authenticate(authMiddleware.RequireRole(models.RoleSeller, productHandler.Update())))
	routerMux.HandleFunc("GET /api/v1/products", authMiddleware.Authenticate(productHandler.List()))

	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.Get()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{productId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.Clear()))

	routerMux.HandleFunc("POST /api/v1/transactions/generate", authMiddleware.Authenticate(authMiddleware.RequireRole(models.RoleSeller, txHandler.Generate())))
	routerMux.HandleFunc("POST /api/v1/transactions/decode", authMiddleware.Authenticate(txHandler.Decode()))
	routerMux.HandleFunc("POST /api/v1/transactions/resolve", authMiddleware.Authenticate(txHandler.ResolveCode()))

	routerMux.HandleFunc("POST /api/v1/settlements", authMiddleware.Authenticate(authMiddleware.RequireRole(models.RoleBuyer, settlementHandler.Settle())))
	routerMux.HandleFunc("GET /api/v1/settlements/options", settlementHandler.PaymentOptions())

	routerMux.HandleFunc("GET /api/v1/reports/buyer", authMiddleware.Authenticate(authMiddleware.RequireRole(models.RoleBuyer, reportHandler.BuyerMonthly())))
	routerMux.HandleFunc("GET /api/v1/reports/seller", authMiddleware.Authenticate(authMiddleware.RequireRole(models.RoleSeller, reportHandler.SellerSummary())))
	routerMux.HandleFunc("GET /api/v1/reports/compliance", authMiddleware.Authenticate(authMiddleware.RequireRole(models.RoleOfficer, reportHandler.Compliance())))

	routerMux.HandleFunc("POST /api/v1/fraud-reports", authMiddleware.Authenticate(authMiddleware.RequireRole(models.RoleBuyer, fraudHandler.Create())))
	routerMux.HandleFunc("GET /api/v1/fraud-reports", authMiddleware.Authenticate(authMiddleware.RequireRole(models.RoleOfficer, fraudHandler.List())))
	routerMux.HandleFunc("PATCH /api/v1/fraud-reports/{id}/status", authMiddleware.Authenticate(authMiddleware.RequireRole(models.RoleOfficer, fraudHandler.UpdateStatus())))

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Failed to shutdown the server gracefully", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Server shutdown successfully")
}
