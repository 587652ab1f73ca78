package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-desk/internal/application/service"
	"github.com/sangkips/investify-desk/internal/config"
	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/infrastructure/api"
	"github.com/sangkips/investify-desk/internal/infrastructure/repository"
	"github.com/sangkips/investify-desk/internal/infrastructure/tokenstore"
	"github.com/sangkips/investify-desk/internal/presentation/http/handler"
	"github.com/sangkips/investify-desk/internal/presentation/http/routes"
	"github.com/sangkips/investify-desk/pkg/logger"
	"github.com/sangkips/investify-desk/pkg/printer"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	zapLogger, err := logger.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Session and API client. The session is the client's token source.
	session := service.NewSessionService(tokenstore.NewFileStore(cfg.Session.TokenPath), zapLogger)
	client := api.NewClient(api.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	}, session, zapLogger)
	session.SetAuthRepository(repository.NewAuthRepository(client))

	initCtx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout+5*time.Second)
	if user, err := session.Init(initCtx); err != nil {
		zapLogger.Warn("stored session could not be restored, sign in required", zap.Error(err))
	} else if user != nil {
		zapLogger.Info("signed in", zap.String("user", user.Username), zap.String("role", user.Role))
	}
	cancel()

	// Initialize repositories
	contactRepo := repository.NewContactRepository(client)
	posCartRepo := repository.NewCartRepository(client, "pos", "contact_id")
	posCatalogRepo := repository.NewCatalogRepository(client, "pos")
	billAccountRepo := repository.NewBillAccountRepository(client, "pos")
	purchaseCartRepo := repository.NewCartRepository(client, "purchases", "contact_id")
	purchaseCatalogRepo := repository.NewCatalogRepository(client, "purchases")

	// Initialize controllers
	posController := service.NewCartController(service.NewPointOfSalePolicy(), posCartRepo, posCatalogRepo, contactRepo, billAccountRepo, zapLogger)
	purchaseController := service.NewCartController(service.NewPurchasingPolicy(), purchaseCartRepo, purchaseCatalogRepo, contactRepo, nil, zapLogger)

	// Initialize receipt printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		zapLogger.Warn("failed to initialize printer, receipts disabled", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	receiptService := service.NewReceiptService(thermalPrinter, service.ReceiptConfig{
		PrinterType: cfg.Printer.Type,
		Width:       cfg.Printer.Width,
		Header: entity.ReceiptHeader{
			StoreName: cfg.Printer.StoreName,
			Address:   cfg.Printer.StoreAddress,
			Phone:     cfg.Printer.StorePhone,
		},
	}, posController, zapLogger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Session:   handler.NewSessionHandler(session),
		POS:       handler.NewCartHandler(service.NewCheckoutFlow(posController, zapLogger)),
		Purchases: handler.NewCartHandler(service.NewCheckoutFlow(purchaseController, zapLogger)),
		Receipts:  handler.NewReceiptHandler(receiptService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Session: session,
		Cfg:     cfg,
		Logger:  zapLogger,
	})

	port := cfg.App.Port
	if port == "" {
		port = "4300"
	}

	zapLogger.Info("starting desk",
		zap.String("app", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env),
		zap.String("api", cfg.API.BaseURL),
	)

	if err := router.Run(":" + port); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}
