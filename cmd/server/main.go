package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/web_store/internal/catalog"
	"github.com/Skotchmaster/web_store/internal/config"
	"github.com/Skotchmaster/web_store/internal/es"
	"github.com/Skotchmaster/web_store/internal/events"
	"github.com/Skotchmaster/web_store/internal/handlers"
	"github.com/Skotchmaster/web_store/internal/logging"
	loggingmw "github.com/Skotchmaster/web_store/internal/middleware/logging"
	httpserver "github.com/Skotchmaster/web_store/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	var producer events.Publisher = events.Nop{}
	if cfg.KAFKA_ADDRESS != "" {
		producer = events.NewKafka([]string{cfg.KAFKA_ADDRESS})
	}

	// The catalog store is selected here, once. If the live store cannot
	// even be dialed, the server still starts and serves the snapshot.
	var store catalog.Store = catalog.UnavailableStore{}
	if cfg.CATALOG_STORE == "live" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			logger.Warn("catalog_store_unreachable", "error", err)
		} else {
			store = &catalog.LiveStore{ES: esClient, Index: cfg.ES_INDEX}
		}
	}
	snapshot := catalog.NewSnapshot(cfg.SNAPSHOT_PATH, logger)
	resolver := catalog.NewResolver(store, snapshot, logger)

	jwtSecret := []byte(cfg.JWT_SECRET)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpserver.NewValidator()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB: db,
		AuthHandler: &handlers.AuthHandler{
			DB:        db,
			JWTSecret: jwtSecret,
			TokenTTL:  cfg.TokenTTL(),
			Events:    producer,
		},
		ProductHandler: &handlers.ProductHandler{Catalog: resolver},
		CartHandler:    &handlers.CartHandler{DB: db, Catalog: resolver, Events: producer},
		OrderHandler:   &handlers.OrderHandler{DB: db, Catalog: resolver, Events: producer},
		JWTSecret:      jwtSecret,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db handle error", "error", err)
	}

	if err := producer.Close(); err != nil {
		logger.Error("producer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
