package inventory

import "time"

type Alert struct {
	ID              int64      `json:"alertId"`
	ProductID       int64      `json:"productId"`
	SellerID        int64      `json:"sellerId"`
	Threshold       int        `json:"thresholdQuantity"`
	Enabled         bool       `json:"alertEnabled"`
	LastAlertSentAt *time.Time `json:"lastAlertSentAt"`
	AlertCount      int        `json:"alertCount"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type Request struct {
	ProductID int64 `json:"productId" validate:"required"`
	Threshold int   `json:"thresholdQuantity" validate:"gte=0"`
	Enabled   *bool `json:"alertEnabled"`
}

// View is an alert joined with the product's live quantity.
type View struct {
	Alert
	ProductName     string `json:"productName"`
	CurrentQuantity int    `json:"currentQuantity"`
	Triggered       bool   `json:"alertTriggered"`
}

type Summary struct {
	AlertID           int64      `json:"alertId"`
	ProductID         int64      `json:"productId"`
	ProductName       string     `json:"productName"`
	SellerID          int64      `json:"sellerId"`
	Threshold         int        `json:"thresholdQuantity"`
	CurrentQuantity   int        `json:"currentQuantity"`
	QuantityToRestock int        `json:"quantityToRestock"`
	Triggered         bool       `json:"alertTriggered"`
	LastAlertSentAt   *time.Time `json:"lastAlertSentAt"`
}

// Triggered: enabled and quantity at or below the threshold.
func (a *Alert) Triggered(quantity int) bool {
	return a.Enabled && quantity <= a.Threshold
}

// QuantityToRestock is how many units lift the quantity just above the threshold.
func QuantityToRestock(threshold, quantity int) int {
	return max(0, threshold-quantity+1)
}
