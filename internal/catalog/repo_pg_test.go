package catalog_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/ariefcatur/go-shop/internal/postgres/pgtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGRepo_DeleteRefusesProductStillInCart(t *testing.T) {
	pool := pgtest.Pool(t)
	repo := &catalog.PGRepo{DB: pool}
	ctx := context.Background()
	mobile := fmt.Sprintf("8%09d", time.Now().UnixNano()%1_000_000_000)

	var sellerID, customerID, productID, cartID int64
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO sellers(first_name, last_name, mobile, email, password)
		VALUES ('S', 'S', $1, 's@example.com', 'x') RETURNING id`, mobile).Scan(&sellerID))
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO customers(first_name, last_name, mobile, email, password)
		VALUES ('C', 'C', $1, 'c@example.com', 'x') RETURNING id`, mobile).Scan(&customerID))
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, customerID)
		_, _ = pool.Exec(ctx, `DELETE FROM sellers WHERE id=$1`, sellerID)
	})
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO products(name, price, quantity, status, category, seller_id)
		VALUES ('Lamp', 20, 3, 'AVAILABLE', 'FURNITURE', $1) RETURNING id`, sellerID).Scan(&productID))
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO carts(customer_id, total) VALUES ($1, 20) RETURNING id`, customerID).Scan(&cartID))
	_, err := pool.Exec(ctx, `INSERT INTO cart_items(cart_id, product_id, product_name, unit_price, quantity)
		VALUES ($1, $2, 'Lamp', 20, 1)`, cartID, productID)
	require.NoError(t, err)

	err = repo.Delete(ctx, productID)
	assert.ErrorIs(t, err, apperr.ErrProductUnavailable)

	_, err = pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, productID))
}
