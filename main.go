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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/yeremiapane/restaurant-biller/config"
	"github.com/yeremiapane/restaurant-biller/database"
	"github.com/yeremiapane/restaurant-biller/router"
	"github.com/yeremiapane/restaurant-biller/session"
	"github.com/yeremiapane/restaurant-biller/telemetry"
	"github.com/yeremiapane/restaurant-biller/utils"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, cfg)

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to redis: %v", err)
	}

	var denylist session.Denylist = session.NopDenylist{}
	if rdb != nil {
		denylist = session.NewRedisDenylist(rdb)
	} else {
		utils.InfoLogger.Warn("REDIS_URL not set: logout only clears the cookie and login is not rate limited")
	}
	sessions := session.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL, denylist)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := router.SetupRouter(router.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Sessions: sessions,
		Registry: registry,
	})
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(app, telemetry.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.WithError(err).Error("http shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		utils.ErrorLogger.WithError(err).Error("tracing shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
