package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Handler harus return nil hanya jika proses sukses & boleh commit offset.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r       *kafka.Reader
	topic   string
	workers int
	backoff Backoff
}

func NewConsumer(brokers []string, group, topic string, workers int) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, topic: topic, workers: workers, backoff: DefaultBackoff}
}

func (c *Consumer) WithBackoff(b Backoff) *Consumer {
	c.backoff = b
	return c
}

// Backoff is the wait between attempts of one message; it doubles up to Max.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

var DefaultBackoff = Backoff{Initial: 200 * time.Millisecond, Max: 10 * time.Second}

// Start blocks until ctx is cancelled or the reader fails. Setiap partition
// dipegang satu worker, dan pesan yang gagal diulang di tempat sampai sukses,
// jadi offset tidak pernah di-commit melewati pesan yang belum diproses.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make([]chan kafka.Message, c.workers)
	var wg sync.WaitGroup

	for i := range jobs {
		jobs[i] = make(chan kafka.Message, 128)
		wg.Add(1)
		go func(id int, in <-chan kafka.Message) {
			defer wg.Done()
			for m := range in {
				if err := Process(ctx, h, m, c.backoff); err != nil {
					// ctx selesai; offset tidak di-commit, pesan dibaca ulang nanti
					return
				}
				if err := c.r.CommitMessages(ctx, m); err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Int("worker", id).Msg("commit offset")
				}
			}
		}(i, jobs[i])
	}

	var err error
	for {
		var m kafka.Message
		m, err = c.r.FetchMessage(ctx)
		if err != nil {
			break
		}
		select {
		case jobs[Shard(m.Partition, c.workers)] <- m:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	for _, ch := range jobs {
		close(ch)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Shard picks the worker that owns a partition.
func Shard(partition, workers int) int {
	if workers <= 1 {
		return 0
	}
	if partition < 0 {
		partition = -partition
	}
	return partition % workers
}

// Process runs h until it succeeds. It only returns an error when ctx is done.
func Process(ctx context.Context, h Handler, m kafka.Message, b Backoff) error {
	wait := b.Initial
	for attempt := 1; ; attempt++ {
		err := h(ctx, m)
		if err == nil {
			return nil
		}
		log.Error().Err(err).Str("topic", m.Topic).Int("partition", m.Partition).
			Int64("offset", m.Offset).Int("attempt", attempt).Msg("handle message")
		if ctx.Err() != nil {
			return ctx.Err()
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if wait *= 2; b.Max > 0 && wait > b.Max {
			wait = b.Max
		}
	}
}
