package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"appointment-booking/internal/core/cache"
	"appointment-booking/internal/core/config"
	"appointment-booking/internal/core/database"
	"appointment-booking/internal/core/logger"
	"appointment-booking/internal/core/server"
	"appointment-booking/internal/domain"
	"appointment-booking/internal/repo"
	"appointment-booking/internal/service"
	"appointment-booking/internal/transport/http/handler"
	"appointment-booking/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(logger.FromConfig(cfg.Log))
	defer cleanup()

	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
	}

	// 与预约接口共用缓存前缀，删用户时才能让对方的缓存失效
	var users domain.UserRepository = repo.NewUserRepo(db)
	if cfg.Redis.Addr != "" {
		rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		defer func() { _ = rc.Close() }()
		users = repo.NewCachedUserRepo(users, rc, time.Duration(cfg.Redis.TTLSec)*time.Second, log)
	}
	appts := repo.NewAppointmentRepo(db)
	apptSvc := service.NewAppointmentService(users, appts)
	userSvc := service.NewUserService(users, appts)

	reg := router.NewRegistry(handler.NewUserAdmin(userSvc, apptSvc, log))
	r := router.NewAdminEngine(log, reg)
	srv := server.BuildServer(cfg.App.Admin, r)

	baseURL := server.BaseURL(cfg.App.Admin.Host, cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", srv.Addr),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
