// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voyago/internal/ai"
	"voyago/internal/config"
	httptransport "voyago/internal/http"
	"voyago/internal/infra"
	"voyago/internal/maps"
	"voyago/internal/modules/aiusage"
	"voyago/internal/modules/history"
	"voyago/internal/modules/routing"
	"voyago/internal/modules/trip"
	"voyago/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
	if err != nil {
		log.Fatalf("gemini init: %v", err)
	}
	defer provider.Close()

	tripStore := trip.NewStore(dbPool)
	tripSvc := trip.NewService(tripStore)

	historyStore := history.NewStore(dbPool)
	historySvc := history.NewService(historyStore)

	usageStore := aiusage.NewStore(dbPool)
	usageSvc := aiusage.NewService(usageStore)

	sessionTTL := time.Duration(cfg.Routing.SessionTTLHours) * time.Hour
	cooldownStore := routing.NewCooldownStore(redisClient, sessionTTL)

	var cities service.CitySuggester
	if cfg.Maps.APIKey != "" {
		citySvc, err := maps.NewCityService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		cities = citySvc
	}

	assistant := service.NewAssistant(provider, tripSvc, historySvc, cooldownStore, cities, usageSvc, cfg.Routing)

	handler := httptransport.NewServer(httptransport.ServerDeps{Assistant: assistant})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
