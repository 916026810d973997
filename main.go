package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering-api/config"
	"food-ordering-api/handlers"
	"food-ordering-api/logging"
	"food-ordering-api/metrics"
	"food-ordering-api/middleware"
	"food-ordering-api/routes"
	"food-ordering-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := config.OpenStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.WithError(err).Warn("failed to close store")
		}
	}()

	uploads, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		log.WithError(err).Fatal("failed to prepare upload directory")
	}
	auth := middleware.NewAuth(cfg.JWTSecret, cfg.JWTTTL)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		logging.Middleware(log),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware(),
	)
	r.MaxMultipartMemory = cfg.MaxUploadBytes()

	h := handlers.New(store, auth, uploads, log, cfg.WebDir)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	routes.SetupRoutes(r, routes.Deps{
		Handler:        h,
		Auth:           auth,
		Uploads:        uploads,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		ImageDir:       cfg.UploadDir,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
