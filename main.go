package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"storefront/app"
	"storefront/config"
	_ "storefront/docs"
	"storefront/libs"
	"storefront/worker"
)

// @title Storefront API
// @version 1.0
// @description Store catalog, anonymous carts and customer notifications.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.LoadConfig()

	log, err := libs.NewLogger(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := config.RunMigrations(cfg); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log, false)
	if err != nil {
		log.Fatal("failed to start application", "error", err)
	}

	var workers sync.WaitGroup
	if cfg.NotifyWorkerEnabled && a.Redis != nil {
		notify := worker.NewNotifyWorker(a.Queue, a.Users, a.Mailer, log)
		workers.Add(1)
		go func() {
			defer workers.Done()
			notify.Run(ctx)
		}()
	}
	janitor := worker.NewCartJanitor(a.Carts, cfg.CartTTL, cfg.CartSweepInterval, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		janitor.Run(ctx)
	}()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if cfg.SwaggerEnabled {
			log.Info("swagger ui", "url", "http://localhost:"+cfg.Port+"/swagger/index.html")
		}
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	workers.Wait()
	a.Close(shutdownCtx)
}
