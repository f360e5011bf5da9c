package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sellhub/pos-backend/internal/admin"
	admindomain "github.com/sellhub/pos-backend/internal/admin/domain"
	"github.com/sellhub/pos-backend/internal/audit"
	auditdomain "github.com/sellhub/pos-backend/internal/audit/domain"
	auditrepository "github.com/sellhub/pos-backend/internal/audit/repository"
	customerhttp "github.com/sellhub/pos-backend/internal/customer/delivery/http"
	customerdomain "github.com/sellhub/pos-backend/internal/customer/domain"
	customerrepository "github.com/sellhub/pos-backend/internal/customer/repository"
	customorderhttp "github.com/sellhub/pos-backend/internal/customorder/delivery/http"
	customorderdomain "github.com/sellhub/pos-backend/internal/customorder/domain"
	customorderrepository "github.com/sellhub/pos-backend/internal/customorder/repository"
	expensehttp "github.com/sellhub/pos-backend/internal/expense/delivery/http"
	expensedomain "github.com/sellhub/pos-backend/internal/expense/domain"
	expenserepository "github.com/sellhub/pos-backend/internal/expense/repository"
	"github.com/sellhub/pos-backend/internal/invoice"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	invoicecommand "github.com/sellhub/pos-backend/internal/invoice/usecase/command"
	"github.com/sellhub/pos-backend/internal/pos"
	posdomain "github.com/sellhub/pos-backend/internal/pos/domain"
	"github.com/sellhub/pos-backend/internal/product"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	"github.com/sellhub/pos-backend/internal/refund"
	refunddomain "github.com/sellhub/pos-backend/internal/refund/domain"
	salesmanhttp "github.com/sellhub/pos-backend/internal/salesman/delivery/http"
	salesmandomain "github.com/sellhub/pos-backend/internal/salesman/domain"
	salesmanrepository "github.com/sellhub/pos-backend/internal/salesman/repository"
	"github.com/sellhub/pos-backend/internal/stock"
	stockhttp "github.com/sellhub/pos-backend/internal/stock/delivery/http"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
	"github.com/sellhub/pos-backend/internal/user"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	vendorhttp "github.com/sellhub/pos-backend/internal/vendors/delivery/http"
	vendordomain "github.com/sellhub/pos-backend/internal/vendors/domain"
	vendorrepository "github.com/sellhub/pos-backend/internal/vendors/repository"
	"github.com/sellhub/pos-backend/kafka"
	"github.com/sellhub/pos-backend/pkg/database"
	"github.com/sellhub/pos-backend/pkg/logger"
	"github.com/sellhub/pos-backend/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "pos-backend")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting POS backend")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "posdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&userdomain.User{},
		&productdomain.Product{},
		&stockdomain.StockEntry{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&refunddomain.Refund{},
		&refunddomain.RefundItem{},
		&customerdomain.Customer{},
		&vendordomain.Vendor{},
		&salesmandomain.Salesman{},
		&expensedomain.Expense{},
		&customorderdomain.CustomOrder{},
		&posdomain.DrawerEvent{},
		&admindomain.Settings{},
		&auditdomain.AuditLog{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Audit trail
	auditRepo := auditrepository.NewGormAuditRepository(db)
	var auditor audit.Recorder = audit.NewDBRecorder(auditRepo)

	// Kafka is optional: without brokers the backend runs standalone and
	// stock mutations simply skip the bus.
	var notifier stock.Notifier
	kafkaBrokers := getEnv("KAFKA_BROKERS", "")
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")

		publisher, err := kafka.NewPublisher(brokers)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer publisher.Close()

		notifier = kafka.NewStockNotifier(publisher)
		auditor = kafka.NewEventRecorder(auditor, publisher)

		consumer, err := kafka.NewConsumer(brokers, getEnv("KAFKA_GROUP_ID", "pos-backend"), []string{
			kafka.TopicStockMutated,
			kafka.TopicInvoiceIssued,
			kafka.TopicRefundCreated,
		})
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
		}
		defer consumer.Close()

		kafka.RegisterAuditHandlers(consumer, audit.NewDBRecorder(auditRepo))
		if err := consumer.Start(context.Background()); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
		}
	}

	// Stock coordinator, the single mutation path for on-hand quantities
	coordinator, err := stock.InitializeCoordinator(db, notifier)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize stock coordinator")
	}

	// Shared repositories for cross-domain handlers
	userRepo := user.ProvideUserRepository(db)
	productRepo := product.ProvideProductRepository(db)
	invoiceRepo := invoice.ProvideInvoiceRepository(db)
	refundRepo := refund.ProvideRefundRepository(db)
	customerRepo := customerrepository.NewGormCustomerRepository(db)
	vendorRepo := vendorrepository.NewGormVendorRepository(db)
	salesmanRepo := salesmanrepository.NewGormSalesmanRepository(db)
	expenseRepo := expenserepository.NewGormExpenseRepository(db)
	customOrderRepo := customorderrepository.NewGormCustomOrderRepository(db)

	// Initialize handlers with Wire DI
	userHandler, err := user.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user handler")
	}
	productHandler, err := product.InitializeHTTPHandler(db, coordinator)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize product handler")
	}
	stockHandler, err := stockhttp.InitializeStockHandler(db, coordinator)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize stock handler")
	}
	invoiceHandler, err := invoice.InitializeHTTPHandler(db, productRepo, coordinator, auditor)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize invoice handler")
	}
	refundHandler, err := refund.InitializeHTTPHandler(db, invoiceRepo, coordinator, auditor)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize refund handler")
	}

	createInvoice := invoicecommand.NewCreateInvoiceHandler(invoiceRepo, productRepo, coordinator, auditor)
	posHandler, err := pos.InitializeHTTPHandler(db, productRepo, createInvoice, invoiceRepo, refundRepo, expenseRepo)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize POS handler")
	}
	adminHandler, err := admin.InitializeHTTPHandler(db, productRepo, customerRepo, invoiceRepo, userRepo, auditRepo)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize admin handler")
	}

	customerHandler := customerhttp.NewCustomerHandler(customerRepo)
	vendorHandler := vendorhttp.NewVendorHandler(vendorRepo)
	salesmanHandler := salesmanhttp.NewSalesmanHandler(salesmanRepo)
	expenseHandler := expensehttp.NewExpenseHandler(expenseRepo)
	customOrderHandler := customorderhttp.NewCustomOrderHandler(customOrderRepo, invoiceRepo)

	logger.Logger.Info().Msg("Handlers initialized")

	// Setup router
	router := mux.NewRouter()

	userHandler.RegisterRoutes(router)
	productHandler.RegisterRoutes(router)
	stockHandler.RegisterRoutes(router)
	invoiceHandler.RegisterRoutes(router)
	refundHandler.RegisterRoutes(router)
	customerHandler.RegisterRoutes(router)
	vendorHandler.RegisterRoutes(router)
	salesmanHandler.RegisterRoutes(router)
	expenseHandler.RegisterRoutes(router)
	customOrderHandler.RegisterRoutes(router)
	posHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router)

	// Health check endpoint
	userHandler.RegisterHealthCheck(router, sqlDB)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	httpPort := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: c.Handler(otelhttp.NewHandler(router, "pos-backend")),
	}

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Logger.Info().Msg("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
