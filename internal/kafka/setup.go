package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	kafkaGo "github.com/segmentio/kafka-go"
)

// ReminderTopics конфигурация топиков, нужных сервису
func ReminderTopics(topic string) []kafkaGo.TopicConfig {
	return []kafkaGo.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}
}

// validateBroker проверяет формат host:port
func validateBroker(brokers []string) (string, error) {
	if len(brokers) == 0 || strings.TrimSpace(brokers[0]) == "" {
		return "", errors.New("kafka broker address is empty")
	}
	broker := strings.TrimSpace(brokers[0])

	_, portStr, err := net.SplitHostPort(broker)
	if err != nil {
		return "", fmt.Errorf("invalid broker address %s: %w", broker, err)
	}
	if _, err := strconv.Atoi(portStr); err != nil {
		return "", fmt.Errorf("invalid broker port %s: %w", broker, err)
	}
	return broker, nil
}

// EnsureTopics проверяет и создает недостающие топики Kafka.
func EnsureTopics(ctx context.Context, brokers []string, required []kafkaGo.TopicConfig, log *logger.Logger) error {
	log.Infow("Ensuring Kafka topics exist", "topics", topicNames(required))

	broker, err := validateBroker(brokers)
	if err != nil {
		log.Errorw("Invalid Kafka broker", "error", err)
		return err
	}

	connCtx, cancelConn := context.WithTimeout(ctx, 15*time.Second)
	defer cancelConn()

	conn, err := kafkaGo.DialLeader(connCtx, "tcp", broker, "", 0)
	if err != nil {
		return fmt.Errorf("kafka connection failed: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("kafka read partitions failed: %w", err)
	}

	existing := make(map[string]bool)
	for _, p := range partitions {
		existing[p.Topic] = true
	}

	toCreate := missingTopics(required, existing)
	if len(toCreate) == 0 {
		log.Infow("All required topics already exist")
		return nil
	}

	if err := conn.CreateTopics(toCreate...); err != nil {
		if !errors.Is(err, kafkaGo.TopicAlreadyExists) {
			return fmt.Errorf("kafka create topics failed: %w", err)
		}
		log.Warnw("One or more topics already existed during creation attempt", "topics", topicNames(toCreate))
	}

	log.Infow("Successfully created or verified topics", "topics", topicNames(toCreate))
	return nil
}

func missingTopics(required []kafkaGo.TopicConfig, existing map[string]bool) []kafkaGo.TopicConfig {
	var out []kafkaGo.TopicConfig
	for _, tc := range required {
		if !existing[tc.Topic] {
			out = append(out, tc)
		}
	}
	return out
}

func topicNames(configs []kafkaGo.TopicConfig) []string {
	names := make([]string, 0, len(configs))
	for _, tc := range configs {
		names = append(names, tc.Topic)
	}
	return names
}
