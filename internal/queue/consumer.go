package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/arthouse/theaters/internal/logger"
)

// DefaultLogPath is where the consumer appends one line per photo result.
var DefaultLogPath = filepath.Join("logs", "photos.log")

// StartPhotoConsumer connects to the broker, declares PhotosQueue (durable)
// and appends each message to logPath. It reconnects with backoff until
// ctx is cancelled, then returns ctx.Err(). Messages that can't be handled
// are logged and rejected without requeue.
func StartPhotoConsumer(ctx context.Context, url, logPath string) error {
	log := logger.Log.With().Str("component", "photo-consumer").Logger()

	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect
		log.Info().Str("queue", PhotosQueue).Str("log", logPath).Msg("consuming")

		err = consumeLoop(ctx, conn, logPath)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logPath string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Log.Warn().Err(err).Msg("photo-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(PhotosQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(PhotosQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(d.Body, logPath); err != nil {
				logger.Log.Error().Err(err).Msg("photo-consumer: handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes a PhotoResultEvent and appends it to logPath.
func HandleMessage(body []byte, logPath string) error {
	var ev PhotoResultEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Slug == "" {
		return errors.New("event without slug")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as a single human-readable log line.
func FormatLine(ev PhotoResultEvent) string {
	line := fmt.Sprintf("[%s] Photos %s | slug=%s | theater=%q | location=\"%s, %s\" | photos=%d",
		ev.ProcessedAt, ev.Status, ev.Slug, ev.Name, ev.City, ev.State, ev.Photos)
	if ev.PlaceID != "" {
		line += fmt.Sprintf(" | place_id=%s | place=%q", ev.PlaceID, ev.PlaceName)
	}
	if ev.Error != "" {
		line += fmt.Sprintf(" | error=%q", ev.Error)
	}
	return line + "\n"
}
