// Hangman server — CLI entry point.
//
// Listens on the given TCP port and runs one game session per connection,
// up to a configurable concurrent-session cap. Optional extras (results
// store, stats HTTP listener) are enabled through the environment; a .env
// file next to the binary is honored.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkrenn/hangman/internal/config"
	"github.com/mkrenn/hangman/internal/server"
	"github.com/mkrenn/hangman/internal/store"
	"github.com/mkrenn/hangman/internal/util"
	"github.com/mkrenn/hangman/internal/web"
	"github.com/mkrenn/hangman/internal/words"
)

func main() {
	// Root context — cancelled on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	port := flag.Int("port", 0, "TCP port to listen on, 1~65535")
	flag.Parse()

	if *port < 1 || *port > 65535 {
		log.Fatal().Msg("invalid or missing -port (must be 1~65535)")
	}

	cfg := config.ServerFromEnv(*port)

	list, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.WordsFile).Msg("failed to load word list")
	}

	var rec server.Recorder
	if cfg.ResultsDB != "" {
		st, err := store.Open(cfg.ResultsDB)
		if err != nil {
			log.Fatal().Err(err).Str("db", cfg.ResultsDB).Msg("failed to open results store")
		}
		defer st.Close()
		rec = st

		if cfg.StatsAddr != "" {
			go runStats(ctx, cfg.StatsAddr, st)
		}
	} else if cfg.StatsAddr != "" {
		go runStats(ctx, cfg.StatsAddr, nil)
	}

	util.StartStatsReporter(ctx)

	srv := server.New(cfg, list, rec)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server shut down")
}

func runStats(ctx context.Context, addr string, st *store.Store) {
	if err := web.New(st).Start(ctx, addr); err != nil {
		log.Error().Err(err).Msg("stats listener failed")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
