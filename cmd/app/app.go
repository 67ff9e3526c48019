package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/school-portal-api/internal/api"
	"github.com/vietanh2810/school-portal-api/internal/api/middleware"
	"github.com/vietanh2810/school-portal-api/internal/config"
	"github.com/vietanh2810/school-portal-api/internal/db"
	"github.com/vietanh2810/school-portal-api/internal/logger"
	"github.com/vietanh2810/school-portal-api/internal/pkg/errreport"
	"github.com/vietanh2810/school-portal-api/internal/repository/dao"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

func Start() error {
	// Set once the server exists; reloads before that only touch the log.
	var maintenance atomic.Pointer[middleware.Maintenance]

	conf, err := config.LoadAndWatch(configPath, func(updated *config.AppConfig) {
		zap.L().Info("config reloaded", zap.Bool("maintenance_mode", updated.API.MaintenanceMode))
		if m := maintenance.Load(); m != nil {
			m.SetForced(updated.API.MaintenanceMode)
		}
	}, func(err error) {
		zap.L().Warn("ignoring invalid config", zap.Error(err))
	})
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	host, _ := os.Hostname()
	errreport.Init(conf.Rollbar.Token, conf.API.Environment, host)
	defer errreport.Close()

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}
	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := api.NewServer(ctx, conf, postgresDB)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}
	defer s.Close()
	maintenance.Store(s.Maintenance)

	go s.Hub.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + conf.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err = <-serveErr:
		return fmt.Errorf("failed to start the server -> %w", err)
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown -> %w", err)
	}

	return nil
}
