package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"travel_console/internal/adapters/backoffice"
	server "travel_console/internal/adapters/http_server"
	"travel_console/internal/adapters/observability"
	redisad "travel_console/internal/adapters/redis"
	"travel_console/internal/app"
	"travel_console/internal/domain"
	"travel_console/internal/shared"
	mysqlrepo "travel_console/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	client, err := backoffice.New(cfg.BackofficeBase, cfg.BackofficeToken, cfg.BackofficeRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backoffice client")
	}

	// optional language cache
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; language cache disabled")
		} else {
			cache = rc
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
		}
		cancel()
	}

	// optional bulk journal
	var journal domain.BulkJournal
	if cfg.MySQLDSN != "" {
		db, err := mysqlrepo.Open(cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("mysql open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		journal = mysqlrepo.New(db)
	}

	console := app.NewConsole(app.Backend{
		Cities:    client.Cities(),
		Hotels:    client.Hotels(),
		Contacts:  client.Contacts(),
		Languages: client.Languages(),
		Users:     client,
	}, app.ConsoleConfig{
		Workers:  cfg.BulkConcurrency,
		Cache:    cache,
		CacheTTL: cfg.LangCacheTTL,
		Journal:  journal,
	})

	// http
	srv := server.New(log.Logger, 60*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{C: console})

	log.Info().Str("addr", cfg.HTTPAddr).Str("upstream", cfg.BackofficeBase).Msg("console listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
