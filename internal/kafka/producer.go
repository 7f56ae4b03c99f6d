package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/ariefcatur/go-shop/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

var ErrProducerFull = errors.New("producer buffer full")

type Producer struct {
	w       *kafka.Writer
	topic   string
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
		topic:   topic,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start menjalankan loop pengirim. Close menutup inbox; sisa pesan di-flush sebelum exit.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			p.write(m)
		}
		if err := p.w.Close(); err != nil {
			log.Error().Err(err).Str("topic", p.topic).Msg("kafka writer close")
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		log.Error().Err(err).Str("topic", p.topic).Str("key", string(m.Key)).Msg("kafka write failed")
	}
}

func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) error {
	select {
	case p.inbox <- kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}:
		return nil
	default:
		return ErrProducerFull
	}
}

// PublishEvent implements events.Publisher.
func (p *Producer) PublishEvent(ctx context.Context, key string, env events.Envelope) error {
	return p.Publish([]byte(key), MustMarshal(env),
		kafka.Header{Key: "x-event-type", Value: []byte(env.EventType)},
		kafka.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// Close must be called once, after the last Publish.
func (p *Producer) Close() { close(p.inbox) }

func (p *Producer) WaitClosed() { <-p.closeCh }
