package redisx

import (
	"fmt"
	"time"
)

const (
	// Cache product: product:{product_id} -> JSON product
	KeyProduct = "product:%d"

	// Cache order: order:{order_id} -> JSON order
	KeyOrder = "order:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOrderCache = 30 * time.Second
	TTLDedup      = 48 * time.Hour
)

func ProductKey(id int64) string { return fmt.Sprintf(KeyProduct, id) }

func OrderKey(id int64) string { return fmt.Sprintf(KeyOrder, id) }

func DedupKey(service, id string) string { return fmt.Sprintf(KeyDedup, service, id) }
