package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := mapErrorToStatusCode(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, code, ErrorResponse{Error: apperr.Message(err)})
}

func mapErrorToStatusCode(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidToken, apperr.KindSessionExpired, apperr.KindVerificationFailed:
		return http.StatusUnauthorized
	case apperr.KindNotOwner:
		return http.StatusForbidden
	case apperr.KindAccountNotFound, apperr.KindProductNotFound, apperr.KindCartNotFound,
		apperr.KindItemNotFound, apperr.KindOrderNotFound, apperr.KindReviewNotFound,
		apperr.KindAlertNotFound:
		return http.StatusNotFound
	case apperr.KindAlreadyLoggedIn, apperr.KindAccountAlreadyExists, apperr.KindAlreadyWishlisted,
		apperr.KindAlreadyCancelled, apperr.KindDuplicateReview, apperr.KindAlertAlreadyExists,
		apperr.KindProductUnavailable, apperr.KindInsufficientStock:
		return http.StatusConflict
	case apperr.KindValidation, apperr.KindInvalidRating, apperr.KindEmptyCart, apperr.KindCartEmpty,
		apperr.KindAddressNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var validate = validator.New()

// decode reads a JSON body and runs struct validation on it.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid json", err)
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: formatValidationErrors(ve)})
		return
	}
	writeError(w, r, err)
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return apperr.Wrap(apperr.KindValidation, "validation failed", ve)
	}
	return apperr.Wrap(apperr.KindValidation, "validation failed", err)
}

func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			out[field] = "is required"
		case "email":
			out[field] = "must be a valid email"
		case "numeric":
			out[field] = "must be numeric"
		case "len":
			out[field] = fmt.Sprintf("must be exactly %s characters", e.Param())
		case "min":
			out[field] = fmt.Sprintf("must be at least %s", e.Param())
		case "max":
			out[field] = fmt.Sprintf("must be at most %s", e.Param())
		default:
			out[field] = "is invalid"
		}
	}
	return out
}

// token reads the session token from the "token" header, falling back to a bearer token.
func token(r *http.Request) string {
	if t := r.Header.Get("token"); t != "" {
		return t
	}
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.KindValidation, "invalid %s", name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}
