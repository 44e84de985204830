package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/joho/godotenv"

	"github.com/skillforge/skillforge-backend/config"
	"github.com/skillforge/skillforge-backend/pkg/helpers"
	"github.com/skillforge/skillforge-backend/pkg/mailer"
)

// Consumes enrollment events and sends confirmation emails via Mailgun.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-enrollment-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; enrollment worker disabled (no emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEnrollQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
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

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQEnrollQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEnrollQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var job mailer.EnrollmentJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				logger.WithError(err).Warn("bad enrollment message")
				_ = msg.Nack(false, false)
				continue
			}
			if job.To == "" {
				logger.WithField("course_id", job.CourseID).Warn("enrollment message without recipient")
				_ = msg.Ack(false)
				continue
			}

			html, err := job.HTML()
			if err != nil {
				logger.WithError(err).Error("render enrollment email failed")
				_ = msg.Nack(false, false)
				continue
			}

			if err := mg.Send(ctx, job.To, job.Subject(), job.Text(), html); err != nil {
				logger.WithError(err).WithField("course_id", job.CourseID).Error("send enrollment email failed")
				// Requeue once; the broker drops it on repeat failure.
				_ = msg.Nack(false, !msg.Redelivered)
				continue
			}
			logger.WithField("course_id", job.CourseID).Info("enrollment confirmation sent")
			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.Info("enrollment worker started")
	select {
	case <-stop:
		logger.Info("enrollment worker shutting down")
	case <-done:
		logger.Info("enrollment worker channel closed")
	}
}
