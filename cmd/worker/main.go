package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbook/config"
	"github.com/Domenick1991/travelbook/internal/email"
	"github.com/Domenick1991/travelbook/internal/export"
	"github.com/Domenick1991/travelbook/internal/kafka"
	"github.com/Domenick1991/travelbook/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New("travelbook-worker")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zlog)
	defer consumer.Close()

	emailSender := email.NewSender(zlog)

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			zlog.Warn("consumer stopped", zap.Error(err))
		}
	}()

	exports := export.NewCSVWriter(cfg.Export.Dir)
	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.ExportSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	for {
		select {
		case <-sweepTicker.C:
			removed, err := exports.Prune(cfg.Export.Retention())
			if err != nil {
				zlog.Warn("prune exports", zap.Error(err))
				continue
			}
			if removed > 0 {
				zlog.Info("pruned old exports", zap.Int("removed", removed))
			}
		case <-ctx.Done():
			zlog.Info("shutting down")
			return
		}
	}
}
