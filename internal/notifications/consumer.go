package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"

	"boxoffice/internal/shared/config"
	"boxoffice/pkg/logger"
)

// Consumer reads booking events off Kafka and fans them out to the email
// service. Runs as a consumer group so multiple instances share partitions.
type Consumer struct {
	group  sarama.ConsumerGroup
	topic  string
	email  EmailService
	log    *logger.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewConsumer(cfg config.KafkaConfig, email EmailService) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{
		sarama.NewBalanceStrategyRoundRobin(),
	}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer group: %w", err)
	}

	return &Consumer{
		group: group,
		topic: cfg.NotificationTopic,
		email: email,
		log:   logger.GetDefault(),
		done:  make(chan struct{}),
	}, nil
}

// Start launches the consume loop in its own goroutine.
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		defer close(c.done)
		handler := &eventHandler{email: c.email, log: c.log}

		for {
			if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				c.log.Error("consumer group error", "error", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	c.log.Info("notification consumer started", "topic", c.topic)
}

// Stop shuts the consume loop down and waits for it to drain.
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	err := c.group.Close()
	<-c.done
	c.log.Info("notification consumer stopped")
	return err
}

type eventHandler struct {
	email EmailService
	log   *logger.Logger
}

func (h *eventHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *eventHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *eventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		event, err := FromJSON(message.Value)
		if err != nil {
			// A malformed message is skipped, not retried forever.
			h.log.Error("failed to decode booking event",
				"partition", message.Partition, "offset", message.Offset, "error", err)
			session.MarkMessage(message, "")
			continue
		}

		if err := h.handle(session.Context(), event); err != nil {
			h.log.Error("failed to handle booking event",
				"type", event.Type, "booking_id", event.BookingID, "error", err)
		}
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *eventHandler) handle(ctx context.Context, event *BookingEvent) error {
	switch event.Type {
	case EventTicketsIssued:
		return h.email.SendTicketsIssued(ctx, event)
	case EventBookingCancelled:
		return h.email.SendBookingCancelled(ctx, event)
	default:
		h.log.Warn("unknown booking event type", "type", event.Type)
		return nil
	}
}
