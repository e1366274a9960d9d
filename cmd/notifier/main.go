package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/stockkeeper/internal/config"
	"github.com/example/stockkeeper/internal/email"
	"github.com/example/stockkeeper/internal/infrastructure/kafka"
	"github.com/example/stockkeeper/internal/notification"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("[Notifier] KAFKA_BROKERS environment variable is required")
	}

	log.Println("[Notifier] ========================================")
	log.Println("[Notifier] Stock Keeper - Stock Alert Service")
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[Notifier] Topic: %s", cfg.ChangeTopic)
	log.Printf("[Notifier] Group: %s", cfg.KafkaConsumerGroup)
	if cfg.AlertRecipient != "" {
		log.Printf("[Notifier] SMTP: %s:%s -> %s", cfg.SMTPHost, cfg.SMTPPort, cfg.AlertRecipient)
	} else {
		log.Println("[Notifier] ALERT_RECIPIENT not set, alerts are logged only")
	}

	emailSvc := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	handler := notification.NewHandler(emailSvc, cfg.AlertRecipient)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.ChangeTopic, cfg.KafkaConsumerGroup)
	defer consumer.Close()

	// Start consuming
	go func() {
		log.Println("[Notifier] Starting event consumer...")
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
			log.Printf("[Notifier] Consumer error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Notifier] Shutting down...")
	cancel()
}
