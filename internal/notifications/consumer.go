package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/IBM/sarama"
)

// Consumer runs the notification worker: it reads booking lifecycle
// events and fans them out to guests and hosts. Delivery here is just
// structured logging; a mail or SMS sender slots into handleEvent.
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

// ConsumerConfig contains configuration for the Kafka consumer group
type ConsumerConfig struct {
	Brokers      []string
	GroupID      string
	Topic        string
	OffsetOldest bool
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:      []string{"localhost:9092"},
		GroupID:      "villagestay-notification-workers",
		Topic:        "booking-events",
		OffsetOldest: false,
	}
}

type kafkaConsumer struct {
	group  sarama.ConsumerGroup
	config *ConsumerConfig
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewKafkaConsumer creates a new booking event consumer
func NewKafkaConsumer(config *ConsumerConfig) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer group: %w", err)
	}

	return &kafkaConsumer{
		group:  group,
		config: config,
	}, nil
}

// Start begins consuming booking events until Stop or context cancel.
func (kc *kafkaConsumer) Start(ctx context.Context) error {
	ctx, kc.cancel = context.WithCancel(ctx)

	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		handler := &eventHandler{}
		for {
			if err := kc.group.Consume(ctx, []string{kc.config.Topic}, handler); err != nil {
				log.Printf("Kafka consume error: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		for err := range kc.group.Errors() {
			log.Printf("Kafka consumer group error: %v", err)
		}
	}()

	log.Printf("Notification worker consuming topic %s", kc.config.Topic)
	return nil
}

// Stop shuts down the consumer group and waits for workers.
func (kc *kafkaConsumer) Stop() error {
	if kc.cancel != nil {
		kc.cancel()
	}
	err := kc.group.Close()
	kc.wg.Wait()
	return err
}

// eventHandler implements sarama.ConsumerGroupHandler.
type eventHandler struct{}

func (h *eventHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *eventHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *eventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		event, err := BookingEventFromJSON(message.Value)
		if err != nil {
			log.Printf("Skipping malformed booking event at offset %d: %v", message.Offset, err)
			session.MarkMessage(message, "")
			continue
		}

		h.handleEvent(event)
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *eventHandler) handleEvent(event *BookingEvent) {
	switch event.Type {
	case EventBookingCreated:
		log.Printf("Notify host: new booking %v awaiting payment", event.Payload["booking_ref"])
	case EventBookingConfirmed:
		log.Printf("Notify guest and host: booking %v confirmed", event.Payload["booking_ref"])
	case EventBookingCancelled:
		log.Printf("Notify guest and host: booking %v cancelled", event.Payload["booking_ref"])
	case EventBookingCompleted:
		log.Printf("Notify host: booking %v completed, payout on the way", event.Payload["booking_ref"])
	default:
		log.Printf("Unhandled booking event type %q", event.Type)
	}
}
