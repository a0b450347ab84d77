package main

import (
	"context"
	"fmt"
	"time"

	"veda-quiz/internal/adapter"
	"veda-quiz/internal/cache"
	"veda-quiz/internal/config"
	"veda-quiz/internal/docx"
	"veda-quiz/internal/fetcher"
	"veda-quiz/internal/logger"
	"veda-quiz/internal/parser"
	"veda-quiz/internal/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const preloadConcurrency = 4

// preload fetches, parses and caches every configured document so the first
// player request after a deploy does not pay the fetch-and-parse cost.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer logger.Sync()

	logger.Get().Info("Preload starting up...",
		zap.Int("documents", len(cfg.Library.Documents)))

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Get().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	libraryService := service.NewLibraryService(
		fetcher.New(nil, cfg.Library.BaseURLs, cfg.Library.Folders),
		docx.NewExtractor(),
		parser.New(),
		cacheAdapter,
		&cfg.Quiz,
		cfg.Library.Documents,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadConcurrency)

	for _, name := range cfg.Library.Documents {
		name := name
		g.Go(func() error {
			deck, err := libraryService.GetDeck(gctx, name)
			if err != nil {
				// A single broken document should not abort the rest of
				// the warm-up.
				logger.Get().Warn("Failed to preload document",
					zap.String("document", name), zap.Error(err))
				return nil
			}
			logger.Get().Info("Preloaded document",
				zap.String("document", name), zap.Int("questions", len(deck)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Get().Fatal("Preload failed", zap.Error(err))
	}
	logger.Get().Info("Preload complete")
}
