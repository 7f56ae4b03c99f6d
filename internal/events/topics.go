package events

import "strconv"

const (
	TopicOrders = "shop.orders"
	TopicStock  = "shop.stock"
)

// Partition key = id entity, supaya urutan event per order/produk terjaga.
func PartitionKey(id int64) string { return strconv.FormatInt(id, 10) }
