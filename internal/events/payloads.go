package events

type ItemQty struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

type OrderPlacedPayload struct {
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	Status     string    `json:"status"`
	Total      string    `json:"total"`
	Items      []ItemQty `json:"items"`
}

type OrderCancelledPayload struct {
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	Restored   []ItemQty `json:"restored"`
}

const (
	StockReasonOrderPlaced    = "ORDER_PLACED"
	StockReasonOrderCancelled = "ORDER_CANCELLED"
	StockReasonRestock        = "RESTOCK"
)

type StockChangedPayload struct {
	ProductIDs []int64 `json:"product_ids"`
	Reason     string  `json:"reason"`
}
