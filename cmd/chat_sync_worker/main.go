package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-social/config"
	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/internal/infrastructure/chat"
	"github.com/oksasatya/lingo-social/pkg/helpers"
	"github.com/oksasatya/lingo-social/pkg/metrics"
)

const consumerTag = "chat-sync-worker"

// acker is the part of amqp.Delivery the handler settles.
type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Drains the identity sync queue filled when CHAT_SYNC_MODE=queue.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.RabbitMQURL == "" || cfg.RabbitMQChatSyncQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	logger := helpers.NewLogger(cfg.AppName+"-chat-sync", cfg.Env)

	client, err := chat.NewStreamClient(cfg.ChatAPIKey, cfg.ChatAPISecret, cfg.ChatBaseURL, cfg.ChatSyncTimeout)
	if err != nil {
		log.Fatalf("chat client: %v", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(8, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQChatSyncQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQChatSyncQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	var metricsSrv *http.Server
	if cfg.MetricsEnabled && cfg.WorkerMetricsAddr != "" {
		metricsSrv = newMetricsServer(cfg.WorkerMetricsAddr)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				helpers.LogError(logger, "metrics listener stopped", err, nil)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			handleDelivery(client, msg, msg.Body, msg.Redelivered, cfg.ChatSyncTimeout, logger)
		}
		close(done)
	}()

	logger.Infof("chat sync worker listening on queue=%s", cfg.RabbitMQChatSyncQueue)
	<-stop
	logger.Info("shutting down...")

	// stops new deliveries; msgs closes once in-flight ones are handed over
	if err := ch.Cancel(consumerTag, false); err != nil {
		helpers.LogWarn(logger, "consumer cancel failed", err, nil)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = metricsSrv.Shutdown(ctx)
		cancel()
	}
}

// handleDelivery upserts one identity and settles the message. A failed
// upsert is requeued once; a redelivered failure or a malformed body is dropped.
func handleDelivery(remote application.RemoteIdentitySync, d acker, body []byte, redelivered bool, timeout time.Duration, logger *logrus.Logger) {
	var id application.RemoteIdentity
	if err := json.Unmarshal(body, &id); err != nil || id.ID == "" {
		helpers.LogWarn(logger, "bad identity message", err, nil)
		_ = d.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	err := remote.UpsertIdentity(ctx, id)
	cancel()
	if err != nil {
		metrics.IdentitySyncTotal.WithLabelValues("error").Inc()
		helpers.LogWarn(logger, "identity upsert failed", err, logrus.Fields{"user_id": id.ID})
		_ = d.Nack(false, !redelivered)
		return
	}
	metrics.IdentitySyncTotal.WithLabelValues("ok").Inc()
	_ = d.Ack(false)
}

func newMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
