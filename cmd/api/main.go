package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/kpraj/billbook/internal/business"
	businessStore "github.com/kpraj/billbook/internal/business/store"
	"github.com/kpraj/billbook/internal/catalog"
	catalogStore "github.com/kpraj/billbook/internal/catalog/store"
	"github.com/kpraj/billbook/internal/config"
	"github.com/kpraj/billbook/internal/database"
	billbookHttp "github.com/kpraj/billbook/internal/http"
	businessHandler "github.com/kpraj/billbook/internal/http/business"
	catalogHandler "github.com/kpraj/billbook/internal/http/catalog"
	invoiceHandler "github.com/kpraj/billbook/internal/http/invoice"
	"github.com/kpraj/billbook/internal/identity"
	"github.com/kpraj/billbook/internal/invoice"
	invoiceStore "github.com/kpraj/billbook/internal/invoice/store"
	"github.com/kpraj/billbook/internal/render"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to build renderer", "error", err)
		os.Exit(1)
	}

	var (
		catalogService  = catalog.NewService(catalogStore.New(db))
		businessService = business.NewService(businessStore.New(db))
		invoiceService  = invoice.NewService(invoiceStore.New(db))
	)

	var (
		verifier  = identity.NewVerifier(cfg.Auth.JWTSecret)
		catalogH  = catalogHandler.NewHandler(catalogService)
		businessH = businessHandler.NewHandler(businessService)
		invoiceH  = invoiceHandler.NewHandler(invoiceService, businessService, renderer)
	)

	router := billbookHttp.New(verifier, catalogH, businessH, invoiceH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
