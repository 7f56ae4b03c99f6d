package review

import "time"

type Review struct {
	ID           int64     `json:"id"`
	Rating       int       `json:"rating"`
	Title        string    `json:"title"`
	Comment      string    `json:"comment"`
	ProductID    int64     `json:"productId"`
	CustomerID   int64     `json:"customerId"`
	HelpfulCount int       `json:"helpfulCount"`
	IsDeleted    bool      `json:"-"`
	IsApproved   bool      `json:"isApproved"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Request is the body of add and update; rating is checked by the service.
type Request struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title" validate:"required,min=3,max=100"`
	Comment string `json:"comment" validate:"required,min=10,max=1000"`
}

type Summary struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int64   `json:"totalReviews"`
	ProductID     int64   `json:"productId"`
}
