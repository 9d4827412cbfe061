package kafka

import (
	"Foryou/internal/api/config"
	"Foryou/internal/repository"
	"Foryou/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	topic string

	interactionConsumer sarama.ConsumerGroup
	interactionHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	videoRepo repository.VideoRepo,
	scoreSvc service.ScoreService,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	interactionConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaInteractionConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		topic:               cfg.KafkaInteractionConsumer.Topic,
		interactionConsumer: interactionConsumer,
		interactionHandler:  NewInteractionHandler(videoRepo, scoreSvc),
	}, nil
}

// Start 启动消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.interactionConsumer.Errors() {
			log.Error("interaction consumer error", "err", err)
		}
	}()

	go func() {
		log.Info("Interaction consumer started", "topic", m.topic)
		for {
			if err := m.interactionConsumer.Consume(ctx, []string{m.topic}, m.interactionHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.interactionConsumer.Close(); err != nil {
		log.Error("Failed to close interaction consumer", "err", err)
	}

	return nil
}
