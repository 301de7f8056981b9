package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"todo_webapp/internal/config"
	"todo_webapp/internal/events"
	httpServer "todo_webapp/internal/http"
	"todo_webapp/internal/http/middleware"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"
	"todo_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to open todo store", "driver", cfg.Database.Driver, "error", err)
	}
	defer store.Close()

	hub := ws.NewHub()
	g, gctx := errgroup.WithContext(ctx)

	// With Redis every instance publishes to the shared channel and relays it
	// to its own websocket clients; without it events go straight to the hub.
	var publisher service.Publisher = events.NewLocalPublisher(hub)
	if cfg.Redis.Addr != "" {
		rdb, err := events.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, using in-process events", "error", err)
		} else {
			defer rdb.Close()
			publisher = events.NewRedisPublisher(rdb, cfg.Redis.Channel)
			g.Go(func() error {
				return events.Subscribe(gctx, rdb, cfg.Redis.Channel, hub)
			})
		}
	}

	todos := service.NewTodoService(store, publisher)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORS(cfg.AllowedOrigin))

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Todos:         todos,
		DB:            store,
		Hub:           hub,
		Version:       cfg.AppVersion,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	g.Go(func() error {
		logger.Info("server started", "port", cfg.AppPort, "driver", cfg.Database.Driver, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped with error", "error", err)
	}
	logger.Info("server exited")
}
