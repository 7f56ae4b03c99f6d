package apperr

import (
	"errors"
	"fmt"
)

// Kind membedakan jenis error domain; HTTP layer memetakan Kind ke status code.
type Kind string

const (
	KindInvalidToken         Kind = "INVALID_TOKEN"
	KindSessionExpired       Kind = "SESSION_EXPIRED"
	KindAlreadyLoggedIn      Kind = "ALREADY_LOGGED_IN"
	KindAccountNotFound      Kind = "ACCOUNT_NOT_FOUND"
	KindAccountAlreadyExists Kind = "ACCOUNT_ALREADY_EXISTS"
	KindVerificationFailed   Kind = "VERIFICATION_FAILED"
	KindAddressNotFound      Kind = "ADDRESS_NOT_FOUND"
	KindProductNotFound      Kind = "PRODUCT_NOT_FOUND"
	KindProductUnavailable   Kind = "PRODUCT_UNAVAILABLE"
	KindInsufficientStock    Kind = "INSUFFICIENT_STOCK"
	KindCartNotFound         Kind = "CART_NOT_FOUND"
	KindCartEmpty            Kind = "CART_EMPTY"
	KindEmptyCart            Kind = "EMPTY_CART"
	KindItemNotFound         Kind = "ITEM_NOT_FOUND"
	KindAlreadyWishlisted    Kind = "ALREADY_WISHLISTED"
	KindOrderNotFound        Kind = "ORDER_NOT_FOUND"
	KindAlreadyCancelled     Kind = "ALREADY_CANCELLED"
	KindDuplicateReview      Kind = "DUPLICATE_REVIEW"
	KindInvalidRating        Kind = "INVALID_RATING"
	KindReviewNotFound       Kind = "REVIEW_NOT_FOUND"
	KindAlertNotFound        Kind = "ALERT_NOT_FOUND"
	KindAlertAlreadyExists   Kind = "ALERT_ALREADY_EXISTS"
	KindNotOwner             Kind = "NOT_OWNER"
	KindValidation           Kind = "VALIDATION"
	KindInternal             Kind = "INTERNAL"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is cocok berdasarkan Kind, jadi errors.Is(err, ErrNotOwner) tetap true walau pesannya beda.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns KindInternal for errors that carry no Kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message is the caller-facing text; internal failures are not leaked.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return "internal error"
}

var (
	ErrInvalidToken         = New(KindInvalidToken, "invalid token")
	ErrSessionExpired       = New(KindSessionExpired, "session expired")
	ErrAlreadyLoggedIn      = New(KindAlreadyLoggedIn, "user already logged in")
	ErrAccountNotFound      = New(KindAccountNotFound, "account not found")
	ErrAccountAlreadyExists = New(KindAccountAlreadyExists, "account already exists")
	ErrVerificationFailed   = New(KindVerificationFailed, "verification failed")
	ErrAddressNotFound      = New(KindAddressNotFound, "address not found")
	ErrProductNotFound      = New(KindProductNotFound, "product not found")
	ErrProductUnavailable   = New(KindProductUnavailable, "product not available")
	ErrInsufficientStock    = New(KindInsufficientStock, "insufficient stock")
	ErrCartNotFound         = New(KindCartNotFound, "cart not found")
	ErrCartEmpty            = New(KindCartEmpty, "cart is empty")
	ErrEmptyCart            = New(KindEmptyCart, "no products in cart")
	ErrItemNotFound         = New(KindItemNotFound, "item not found")
	ErrAlreadyWishlisted    = New(KindAlreadyWishlisted, "product already in wishlist")
	ErrOrderNotFound        = New(KindOrderNotFound, "order not found")
	ErrAlreadyCancelled     = New(KindAlreadyCancelled, "order already cancelled")
	ErrDuplicateReview      = New(KindDuplicateReview, "product already reviewed")
	ErrInvalidRating        = New(KindInvalidRating, "rating must be between 1 and 5")
	ErrReviewNotFound       = New(KindReviewNotFound, "review not found")
	ErrAlertNotFound        = New(KindAlertNotFound, "inventory alert not found")
	ErrAlertAlreadyExists   = New(KindAlertAlreadyExists, "inventory alert already exists for product")
	ErrNotOwner             = New(KindNotOwner, "not the owner of this resource")
	ErrValidation           = New(KindValidation, "validation failed")
)
