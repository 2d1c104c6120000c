package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/esteticafabiane/clinic-api/internal/cache"
	"github.com/esteticafabiane/clinic-api/internal/config"
	"github.com/esteticafabiane/clinic-api/internal/db"
	"github.com/esteticafabiane/clinic-api/internal/logger"
	"github.com/esteticafabiane/clinic-api/internal/middleware"
	"github.com/esteticafabiane/clinic-api/internal/routes"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database := db.NewDB(cfg)

	reportCache := cache.New(cfg.RedisAddr, 60*time.Second)
	if reportCache.Enabled() {
		log.Info("redis cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger(log))

	routes.SetupRoutes(r, database, cfg, reportCache)

	log.Info("server listening",
		zap.String("addr", cfg.Addr()),
		zap.String("env", cfg.Env),
	)

	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
