package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"book-catalog/internal/core/config"
	"book-catalog/internal/core/logger"
	"book-catalog/internal/notify"
)

// 邮件 worker：消费 Redis 队列里的邮件任务（mock 发送，结构化日志输出）。
// 任务失败只记日志，不回传给产生请求的一侧。
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	queue := notify.NewRedisQueue(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Mail.Queue)
	worker := notify.NewWorker(queue, notify.NewMailer(log), log, cfg.Mail.Workers)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	log.Info("mail worker started",
		zap.String("queue", cfg.Mail.Queue),
		zap.Int("workers", cfg.Mail.Workers),
	)
	worker.Run(ctx)
	log.Info("mail worker stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File == "" {
		return logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Enable:     true,
		Filename:   cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
}
