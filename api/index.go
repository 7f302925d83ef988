package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"storefront/app"
	"storefront/config"
	"storefront/libs"
	"storefront/models"
)

var (
	instance *app.App
	initErr  error
	once     sync.Once
)

func initApp() {
	once.Do(func() {
		cfg := config.LoadConfig()
		log, err := libs.NewLogger(cfg.AppEnv)
		if err != nil {
			initErr = err
			return
		}
		instance, initErr = app.New(context.Background(), cfg, log, true)
		if initErr != nil {
			log.Error("serverless init failed", "error", initErr)
		}
	})
}

// Handler is the serverless entry point. Migrations and workers run elsewhere.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Success: false, Message: "Service unavailable"})
		return
	}
	instance.Router.ServeHTTP(w, r)
}
