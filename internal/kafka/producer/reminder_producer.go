package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/internal/kafka"
	"github.com/Dhoini/gym-fee-tracker/internal/reminder"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/IBM/sarama"
)

// EventTypeFeeReminder значение заголовка event_type
const EventTypeFeeReminder = "fee_reminder"

// ReminderEvent представляет событие напоминания для Kafka
type ReminderEvent struct {
	reminder.Reminder
	Timestamp time.Time `json:"timestamp"`
}

// ReminderProducer отправляет напоминания в Kafka
type ReminderProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewReminderProducer создает новый продюсер напоминаний
func NewReminderProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *ReminderProducer {
	if topic == "" {
		topic = kafka.TopicFeeReminder
	}
	return &ReminderProducer{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

// NewSyncProducer подключается к брокерам по конфигурации
func NewSyncProducer(cfg *kafka.Config) (sarama.SyncProducer, error) {
	p, err := sarama.NewSyncProducer(cfg.Brokers, kafka.NewSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return p, nil
}

// Dispatch публикует по одному сообщению на напоминание одной пачкой
func (p *ReminderProducer) Dispatch(ctx context.Context, reminders []reminder.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}

	now := time.Now()
	messages := make([]*sarama.ProducerMessage, 0, len(reminders))
	for _, r := range reminders {
		value, err := json.Marshal(ReminderEvent{Reminder: r, Timestamp: now})
		if err != nil {
			return fmt.Errorf("failed to marshal reminder event: %w", err)
		}

		messages = append(messages, &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(r.MemberID),
			Value: sarama.ByteEncoder(value),
			Headers: []sarama.RecordHeader{
				{
					Key:   []byte("event_type"),
					Value: []byte(EventTypeFeeReminder),
				},
			},
			Timestamp: now,
		})
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.producer.SendMessages(messages); err != nil {
		return domain.NewExternalServiceError("kafka", "failed to publish reminders", err)
	}

	p.log.Info("Published %d reminder events to topic %s", len(messages), p.topic)
	return nil
}

// Close закрывает продюсер
func (p *ReminderProducer) Close() error {
	return p.producer.Close()
}
