package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/user-admin-console/api/swagger"
	"github.com/noah-isme/user-admin-console/internal/events"
	"github.com/noah-isme/user-admin-console/internal/form"
	"github.com/noah-isme/user-admin-console/internal/handler"
	"github.com/noah-isme/user-admin-console/internal/middleware"
	"github.com/noah-isme/user-admin-console/internal/notify"
	"github.com/noah-isme/user-admin-console/internal/repository"
	"github.com/noah-isme/user-admin-console/internal/router"
	"github.com/noah-isme/user-admin-console/internal/service"
	"github.com/noah-isme/user-admin-console/pkg/config"
	"github.com/noah-isme/user-admin-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/user-admin-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/user-admin-console/pkg/middleware/requestid"
)

// @title User Admin Console
// @version 1.0.0
// @description Console over the remote /users store
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	client := &http.Client{Timeout: cfg.Backend.Timeout}
	users := repository.NewUserRepository(cfg.Backend.BaseURL, client, metrics, logr.Named("user_store"))

	notifier := notify.NewNotifier(cfg.Notification.Duration, cfg.Notification.Action, metrics, logr.Named("notifier"))
	dispatcher := events.NewInMemoryDispatcher(logr)

	catalog, err := form.NewUserCatalog(validator.New(), form.Limits{
		MinUsernameLength: cfg.Form.MinUsernameLength,
		MinNameLength:     cfg.Form.MinNameLength,
		MaxInputLength:    cfg.Form.MaxInputLength,
	})
	if err != nil {
		logr.Fatal("failed to build form rules", zap.Error(err))
	}
	forms := form.NewFactory(catalog, users, notifier, dispatcher, logr.Named("form"))
	list := service.NewUserListService(users, notifier, dispatcher, logr.Named("users_list"))
	exporter := service.NewUserExportService(list, nil, nil, logr.Named("export"))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	router.RegisterRoutes(r, router.RouteConfig{
		UsersList:     handler.NewUsersListHandler(list, forms, notifier, logr),
		CreateUser:    handler.NewCreateUserHandler(forms, notifier, logr),
		Export:        handler.NewExportHandler(exporter),
		Notifications: handler.NewNotificationHandler(notifier),
		Ops:           handler.NewMetricsHandler(metrics, cfg.Backend.BaseURL),
		EnableMetrics: cfg.Metrics.Enabled,
		EnableDocs:    cfg.Docs.Enabled,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("console starting", "addr", srv.Addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(logr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	notifier.Dismiss()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
