package main

import (
	"fmt"
	"os"

	"github.com/rfarias/obras-backoffice/internal/auth"
	"github.com/rfarias/obras-backoffice/internal/config"
	"github.com/rfarias/obras-backoffice/internal/db"
	"github.com/rfarias/obras-backoffice/internal/excel"
	httphandler "github.com/rfarias/obras-backoffice/internal/http"
	"github.com/rfarias/obras-backoffice/internal/http/middleware"
	"github.com/rfarias/obras-backoffice/internal/logger"
	"github.com/rfarias/obras-backoffice/internal/pdf"
	"github.com/rfarias/obras-backoffice/internal/repository"
	"github.com/rfarias/obras-backoffice/internal/service"
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

	employeeRepo := repository.NewEmployeeRepository(database)
	contractRepo := repository.NewContractRepository(database)
	toolRepo := repository.NewToolRepository(database)

	backoffice := service.NewBackofficeService(
		employeeRepo,
		contractRepo,
		toolRepo,
		excel.NewGenerator(),
		pdf.NewGenerator(),
		cfg,
		log,
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(backoffice, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting obras backoffice")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
