package kafka

import (
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBroker(t *testing.T) {
	tests := []struct {
		name    string
		brokers []string
		want    string
		wantErr bool
	}{
		{name: "valid", brokers: []string{"localhost:9092"}, want: "localhost:9092"},
		{name: "first of many", brokers: []string{" kafka-1:9092 ", "kafka-2:9092"}, want: "kafka-1:9092"},
		{name: "empty list", brokers: nil, wantErr: true},
		{name: "blank", brokers: []string{"  "}, wantErr: true},
		{name: "no port", brokers: []string{"localhost"}, wantErr: true},
		{name: "bad port", brokers: []string{"localhost:abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateBroker(tt.brokers)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMissingTopics(t *testing.T) {
	required := append(ReminderTopics(TopicFeeReminder), kafkaGo.TopicConfig{Topic: "member.audit"})

	missing := missingTopics(required, map[string]bool{TopicFeeReminder: true})
	assert.Equal(t, []string{"member.audit"}, topicNames(missing))

	assert.Empty(t, missingTopics(required, map[string]bool{TopicFeeReminder: true, "member.audit": true}))
}

func TestNewSaramaConfig(t *testing.T) {
	cfg := NewConfig([]string{"localhost:9092"}, "")
	assert.Equal(t, TopicFeeReminder, cfg.Topic)

	sc := NewSaramaConfig(cfg)
	assert.True(t, sc.Producer.Return.Successes)
	assert.NoError(t, sc.Validate())
}
