// tdtpgrid — дашборд с входом, показывающий табличные наборы данных
// с поиском, типизированной сортировкой и пагинацией.
//
// Использование:
//
//	tdtpgrid --config <name>.yaml [--port 8080]
//	tdtpgrid --demo [--port 8080]
//
// Флаги:
//
//	--config  Путь к YAML конфигу (обязателен без --demo)
//	--port    HTTP порт, переопределяет server.port
//	--demo    Демонстрационный набор из 1000 строк, сессии в памяти, без конфига
//
// Переменные окружения:
//
//	TDTPGRID_REDIS_PASSWORD  пароль Redis для сессий (если не задан в конфиге)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/tdtp-datagrid/pkg/brokers"
	"github.com/ruslano69/tdtp-datagrid/pkg/session"
	"github.com/ruslano69/tdtp-datagrid/pkg/sources"
)

func main() {
	configPath := flag.String("config", "", "path to server config YAML")
	port := flag.Int("port", 0, "HTTP port, overrides config value")
	demo := flag.Bool("demo", false, "serve the seeded demo dataset without a config file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if *configPath == "" && !*demo {
		fmt.Fprintln(os.Stderr, "Usage: tdtpgrid --config <name>.yaml [--port 8080]")
		fmt.Fprintln(os.Stderr, "       tdtpgrid --demo [--port 8080]")
		os.Exit(1)
	}

	var cfg *Config
	if *demo {
		cfg = demoConfig()
	} else {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("config", *configPath).Msg("config load failed")
		}
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := cfg.loader()
	catalog, failed, err := loader.LoadAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("loading sources failed")
	}
	if len(failed) > 0 {
		log.Warn().Int("skipped", len(failed)).Msg("some sources were skipped")
	}

	components, err := cfg.componentLibrary()
	if err != nil {
		log.Fatal().Err(err).Msg("component docs load failed")
	}

	sessions, err := session.New(cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("session store setup failed")
	}
	defer sessions.Close()

	var streams sync.WaitGroup
	startStreams(ctx, &streams, loader, catalog)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newServer(cfg, catalog, sessions, components).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Int("datasets", catalog.Len()).
			Int("components", components.Len()).
			Str("session", cfg.Session.Backend).
			Bool("demo", *demo).
			Msg("tdtpgrid started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	streams.Wait()
	log.Info().Msg("stopped")
}

// startStreams запускает по горутине чтения на каждый живой набор
func startStreams(ctx context.Context, wg *sync.WaitGroup, loader *sources.Loader, catalog *sources.Catalog) {
	for _, src := range loader.StreamConfigs() {
		ds, ok := catalog.Get(src.Name)
		if !ok {
			continue
		}
		sub, err := brokers.New(src.Broker)
		if err != nil {
			log.Error().Err(err).Str("dataset", src.Name).Msg("stream disabled")
			continue
		}

		opts := sources.StreamOptions{
			Retry: src.Retry,
			OnAppend: func(n int) {
				streamRecordsTotal.WithLabelValues(ds.Name).Add(float64(n))
			},
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := sources.StreamIngest(ctx, ds, sub, opts)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Str("dataset", ds.Name).Msg("stream stopped")
			}
		}()
	}
}
