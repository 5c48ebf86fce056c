package main

import (
	"log"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/drseanwing/trolleys/internal/config"
	"github.com/drseanwing/trolleys/internal/infra/cache"
	"github.com/drseanwing/trolleys/internal/infra/db"
	httpinfra "github.com/drseanwing/trolleys/internal/infra/http"
	"github.com/drseanwing/trolleys/internal/logging"
	"github.com/drseanwing/trolleys/internal/usecase"
)

func main() {
	cfg := config.FromEnv()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := db.NewStore(cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("failed to init store", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := store.AutoMigrate(); err != nil {
			logger.Fatal("failed to migrate schema", zap.Error(err))
		}
	}

	audits := db.NewAuditRepository(store.DB)
	issues := db.NewIssueRepository(store.DB)
	locations := db.NewLocationRepository(store.DB)
	selections := db.NewSelectionRepository(store.DB)

	var selectionCache usecase.SelectionCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SelectionCacheTTL, logger)
		if err != nil {
			logger.Fatal("failed to init redis cache", zap.Error(err))
		}
		defer func() { _ = redisCache.Close() }()
		selectionCache = redisCache
	} else {
		selectionCache = cache.NewMemory(cfg.SelectionCacheTTL)
	}

	workflow := usecase.NewIssueWorkflow(issues)
	scorer := usecase.NewComplianceScorer(audits)
	selector := usecase.NewRandomAuditSelector(locations, selections, rand.New(rand.NewSource(time.Now().UnixNano())))
	selector.Cache = selectionCache
	submission := usecase.NewAuditSubmission(audits, locations, scorer, selector)

	srv := httpinfra.NewServer(cfg, httpinfra.ServerDeps{
		Audits:     audits,
		Issues:     issues,
		Workflow:   workflow,
		Submission: submission,
		Selector:   selector,
	}, logger)

	logger.Info("trolleyd listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.Run(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
