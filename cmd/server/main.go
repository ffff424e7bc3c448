// Package main provides the scrawl server binary: the WebSocket backend for
// real-time drawing-and-guessing sessions.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scrawl/internal/config"
	"github.com/cory-johannsen/scrawl/internal/coordinator"
	"github.com/cory-johannsen/scrawl/internal/game/registry"
	"github.com/cory-johannsen/scrawl/internal/game/words"
	"github.com/cory-johannsen/scrawl/internal/observability"
	"github.com/cory-johannsen/scrawl/internal/server"
	"github.com/cory-johannsen/scrawl/internal/transport"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	flag.Parse()

	ctx := context.Background()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load word list
	wordList := words.Default()
	if cfg.Game.WordsFile != "" {
		wordList, err = words.LoadFromFile(cfg.Game.WordsFile)
		if err != nil {
			logger.Fatal("loading words file", zap.Error(err))
		}
	}
	logger.Info("word list loaded", zap.Int("words", wordList.Len()))

	// Wire the coordinator stack
	reg := registry.New(cfg.Game, wordList, logger)
	coord := coordinator.New(reg, logger)
	httpServer := transport.New(cfg.Server, coord, logger)

	logger.Info("scrawl server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("addr", cfg.Server.Addr()),
		zap.Int("total_rounds", cfg.Game.TotalRounds),
	)

	if err := server.Run(ctx, "http", httpServer, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
