package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/products/search?keyword=lamp&category=furniture&minPrice=10&maxPrice=99.5&minRating=4&sortBy=price&sortDirection=DESC&page=2&size=5&sellerId=9", nil)

	f, err := parseFilter(req)
	require.NoError(t, err)
	assert.Equal(t, "lamp", f.Keyword)
	assert.Equal(t, catalog.CategoryFurniture, f.Category)
	assert.Equal(t, "10", f.MinPrice.String())
	assert.Equal(t, "99.5", f.MaxPrice.String())
	assert.Equal(t, 4.0, *f.MinRating)
	assert.Equal(t, "price", f.SortBy)
	assert.True(t, f.SortDesc)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 5, f.Size)
	assert.Equal(t, int64(9), f.SellerID)
}

func TestParseFilter_Defaults(t *testing.T) {
	f, err := parseFilter(httptest.NewRequest(http.MethodGet, "/products/search", nil))
	require.NoError(t, err)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MinRating)
	assert.False(t, f.SortDesc)
	assert.Equal(t, 0, f.Size)
}

func TestParseFilter_BadNumber(t *testing.T) {
	_, err := parseFilter(httptest.NewRequest(http.MethodGet, "/products/search?minPrice=abc", nil))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
