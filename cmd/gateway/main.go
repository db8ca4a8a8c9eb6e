package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paygate/internal/cache"
	"paygate/internal/config"
	"paygate/internal/events"
	"paygate/internal/gateway"
	httpx "paygate/internal/http"
	"paygate/internal/http/handlers"
	"paygate/internal/provider"
	"paygate/internal/provider/paypal"
	"paygate/internal/provider/stripe"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// constructors is the compile-time catalog of supported backends. Unknown
// identifiers in configuration are logged and skipped at registry build.
var constructors = map[provider.Type]provider.Constructor{
	provider.TypePaypalExpress: paypal.New,
	provider.TypeStripe:        stripe.New,
}

func main() {
	cfg := config.Load()

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// Token cache: shared via Redis when configured, per-process otherwise.
	var tokens provider.TokenStore = cache.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		tokens = cache.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr}))
	}

	sink := events.NewKafkaSink(cfg.Kafka.Brokers)
	defer sink.Close()
	topics := events.Topics{
		Results: cfg.Kafka.Topics.Results,
		Log:     cfg.Kafka.Topics.Log,
	}

	providerConfigs := make(map[provider.Type]provider.Credentials, len(cfg.Providers))
	for id, providerCfg := range cfg.Providers {
		providerConfigs[provider.Type(id)] = providerCfg.Credentials
	}
	registry := provider.BuildRegistry(
		provider.Environment(cfg.Environment),
		providerConfigs,
		constructors,
		provider.Deps{Tokens: tokens},
	)

	validator := gateway.NewValidator(registry.Types())
	core := gateway.New(validator, registry, sink, topics)

	payments := handlers.NewPayments(core, sink, topics)
	router := httpx.NewRouter(payments)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("payment gateway listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("server stopped")
}
