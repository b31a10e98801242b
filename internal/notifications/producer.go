package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"boxoffice/internal/bookings"
	"boxoffice/internal/shared/config"
	"boxoffice/pkg/logger"
)

// Producer publishes booking lifecycle events to Kafka. It implements
// bookings.Notifier: publishing is best effort and never unwinds a committed
// booking, so failures are logged, not returned.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    cfg.NotificationTopic,
		log:      logger.GetDefault(),
	}, nil
}

// TicketsIssued publishes a TICKET_ISSUED event for a confirmed booking.
func (p *Producer) TicketsIssued(ctx context.Context, booking *bookings.Booking) {
	event := &BookingEvent{
		ID:         uuid.New(),
		Type:       EventTicketsIssued,
		BookingID:  booking.ID,
		BookingRef: booking.BookingRef,
		ShowID:     booking.ShowID,
		CustomerID: booking.CustomerID,
		BookedBy:   booking.BookedBy,
		OccurredAt: time.Now().UTC(),
	}
	for _, ticket := range booking.Tickets {
		event.Tickets = append(event.Tickets, TicketInfo{
			TicketCode: ticket.TicketCode,
			SeatCode:   ticket.SeatCode,
			Price:      ticket.Price,
		})
	}
	p.publish(ctx, event)
}

// BookingCancelled publishes a BOOKING_CANCELLED event.
func (p *Producer) BookingCancelled(ctx context.Context, booking *bookings.Booking, reason string) {
	event := &BookingEvent{
		ID:         uuid.New(),
		Type:       EventBookingCancelled,
		BookingID:  booking.ID,
		BookingRef: booking.BookingRef,
		ShowID:     booking.ShowID,
		CustomerID: booking.CustomerID,
		BookedBy:   booking.BookedBy,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	p.publish(ctx, event)
}

func (p *Producer) publish(ctx context.Context, event *BookingEvent) {
	payload, err := event.ToJSON()
	if err != nil {
		p.log.Error("failed to marshal booking event", "type", event.Type, "error", err)
		return
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.OccurredAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("booking_id"), Value: []byte(event.BookingID.String())},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.log.Error("failed to publish booking event",
			"type", event.Type, "booking_id", event.BookingID, "error", err)
		return
	}
	p.log.Debug("booking event published",
		"type", event.Type, "partition", partition, "offset", offset)
}

func (p *Producer) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
