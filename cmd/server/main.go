package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/ciftlik/internal/auth"
	"github.com/stwalsh4118/ciftlik/internal/config"
	"github.com/stwalsh4118/ciftlik/internal/database"
	"github.com/stwalsh4118/ciftlik/internal/handlers"
	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/notify"
	"github.com/stwalsh4118/ciftlik/internal/repository"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

const (
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting Çiftlik API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"driver":      cfg.Database.Driver,
	})

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"driver": cfg.Database.Driver,
			"host":   cfg.Database.Host,
			"name":   cfg.Database.Name,
			"path":   cfg.Database.Path,
		})
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate database schema", err, nil)
	}
	dbFields := map[string]interface{}{"driver": cfg.Database.Driver}
	if stats := db.Stats(); stats != nil {
		dbFields["pool_max"] = stats.MaxConns()
		dbFields["pool_idle"] = stats.IdleConns()
		dbFields["pool_total"] = stats.TotalConns()
	}
	log.Info("Database ready", dbFields)

	store := repository.New(db)

	// Notifications are delivered off the request path, to the log and the
	// user's inbox.
	dispatcher := notify.NewDispatcher(notify.Multi{
		notify.NewLogNotifier(log),
		notify.NewStoreNotifier(store.Notifications),
	}, cfg.Notify.Buffer, log)
	dispatcher.Start()

	svc := handlers.Services{
		Auth:       auth.NewService(store, cfg.Session.TTL, log),
		Accounts:   services.NewAccountService(store, log),
		Resources:  services.NewResources(store, log),
		Analysis:   services.NewAnalysisService(store, log),
		Payments:   services.NewPaymentService(store, dispatcher, cfg.Rules.StrictFieldMatch, log),
		Debts:      services.NewDebtService(store, dispatcher, log),
		Categories: services.NewCategoryService(store.Categories, log),
		Ownerships: services.NewOwnershipService(store, cfg.Rules.StrictOwnershipTotal, log),
		Irrigation: services.NewIrrigationService(store, log),
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterOptions{
		Env:          cfg.Server.Env,
		Driver:       cfg.Database.Driver,
		CORSOrigins:  cfg.CORS.Origins,
		CookieSecure: cfg.Session.CookieSecure,
	}, db, svc, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	// Handlers are done, so no new notifications can arrive.
	dispatcher.Shutdown()

	log.Info("Server exited", nil)
}
