package main

import (
	"fmt"
	"os"

	"github.com/ddreams3d/quoter-service/internal/auth"
	"github.com/ddreams3d/quoter-service/internal/config"
	"github.com/ddreams3d/quoter-service/internal/db"
	"github.com/ddreams3d/quoter-service/internal/excel"
	httphandler "github.com/ddreams3d/quoter-service/internal/http"
	"github.com/ddreams3d/quoter-service/internal/http/middleware"
	"github.com/ddreams3d/quoter-service/internal/logger"
	"github.com/ddreams3d/quoter-service/internal/pdf"
	"github.com/ddreams3d/quoter-service/internal/repository"
	"github.com/ddreams3d/quoter-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	quoteRepo := repository.NewQuoteRepository(database)
	financeRepo := repository.NewFinanceRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)

	pdfGenerator := pdf.NewGenerator()
	excelGenerator := excel.NewGenerator()

	quoteService := service.NewQuoteService(quoteRepo, financeRepo, settingsRepo, pdfGenerator, excelGenerator, cfg)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(quoteService, database, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting quoter service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
