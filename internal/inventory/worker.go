package inventory

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/events"
	kafkax "github.com/ariefcatur/go-shop/internal/kafka"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
)

// Notifier tells a seller that a product needs restocking.
type Notifier interface {
	NotifyLowStock(ctx context.Context, s Summary) error
}

type Deduper interface {
	FirstSeen(ctx context.Context, id string) (bool, error)
	Forget(ctx context.Context, id string) error
}

type Worker struct {
	Alerts   *Service
	Repo     Repository
	Dedup    Deduper
	Notifier Notifier
}

// HandleStockChanged dipasang sebagai handler consumer topic stock.
func (w *Worker) HandleStockChanged(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope
	env, err := events.Decode(m.Value)
	if err != nil {
		// pesan rusak tidak akan pernah sukses; lewati supaya partition jalan terus
		log.Warn().Err(err).Int("partition", m.Partition).Int64("offset", m.Offset).Msg("skip malformed event")
		return nil
	}
	if env.EventType != events.EventStockChanged {
		return nil
	} // ignore

	// 2) dedup via Redis (pakai event_id)
	first, err := w.Dedup.FirstSeen(ctx, env.EventID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	// 3) decode payload
	p, err := kafkax.UnwrapPayload[events.StockChangedPayload](env.Payload)
	if err != nil {
		log.Warn().Err(err).Str("event_id", env.EventID).Msg("skip malformed stock payload")
		return nil
	}

	// 4) evaluasi alert per produk; gagal -> lepas tanda dedup supaya dibaca ulang
	if err := w.evaluate(ctx, p.ProductIDs); err != nil {
		if ferr := w.Dedup.Forget(ctx, env.EventID); ferr != nil {
			log.Warn().Err(ferr).Str("event_id", env.EventID).Msg("release dedup mark")
		}
		return err
	}
	return nil
}

func (w *Worker) evaluate(ctx context.Context, productIDs []int64) error {
	for _, id := range productIDs {
		a, err := w.Repo.GetByProduct(ctx, id)
		if errors.Is(err, apperr.ErrAlertNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if !a.Enabled {
			continue
		}
		sum, err := w.Alerts.Evaluate(ctx, a)
		if errors.Is(err, apperr.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if !sum.Triggered {
			continue
		}
		if err := w.Notifier.NotifyLowStock(ctx, *sum); err != nil {
			return err
		}
		if err := w.Alerts.RecordAlertSent(ctx, a.ID); err != nil {
			return err
		}
		log.Info().Int64("alert_id", a.ID).Int64("product_id", id).
			Int("quantity", sum.CurrentQuantity).Int("restock", sum.QuantityToRestock).Msg("low stock alert sent")
	}
	return nil
}
