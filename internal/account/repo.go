package account

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	Get(ctx context.Context, id int64) (*Customer, error)
	GetByMobile(ctx context.Context, mobile string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, c *Customer) error
	UpsertAddress(ctx context.Context, customerID int64, kind string, a Address) error
	DeleteAddress(ctx context.Context, customerID int64, kind string) error
	Delete(ctx context.Context, id int64) error
}

type SellerRepository interface {
	Create(ctx context.Context, s *Seller) error
	Get(ctx context.Context, id int64) (*Seller, error)
	GetByMobile(ctx context.Context, mobile string) (*Seller, error)
	List(ctx context.Context) ([]Seller, error)
	Update(ctx context.Context, s *Seller) error
	Delete(ctx context.Context, id int64) error
}

type PGCustomers struct{ DB *pgxpool.Pool }

const customerColumns = `id, first_name, last_name, mobile, email, password,
	card_number, card_validity, card_cvv, created_on`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Mobile, &c.Email, &c.Password,
		&c.CreditCard.CardNumber, &c.CreditCard.CardValidity, &c.CreditCard.CardCVV, &c.CreatedOn)
	if err != nil {
		return nil, err
	}
	c.Addresses = map[string]Address{}
	return &c, nil
}

func (r *PGCustomers) Create(ctx context.Context, c *Customer) error {
	err := postgres.Conn(ctx, r.DB).QueryRow(ctx, `
		INSERT INTO customers(first_name, last_name, mobile, email, password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_on`,
		c.FirstName, c.LastName, c.Mobile, c.Email, c.Password).Scan(&c.ID, &c.CreatedOn)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperr.Newf(apperr.KindAccountAlreadyExists, "customer with mobile %s already exists", c.Mobile)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	if c.Addresses == nil {
		c.Addresses = map[string]Address{}
	}
	return nil
}

func (r *PGCustomers) Get(ctx context.Context, id int64) (*Customer, error) {
	return r.one(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)
}

func (r *PGCustomers) GetByMobile(ctx context.Context, mobile string) (*Customer, error) {
	return r.one(ctx, `SELECT `+customerColumns+` FROM customers WHERE mobile=$1`, mobile)
}

func (r *PGCustomers) one(ctx context.Context, q string, arg any) (*Customer, error) {
	c, err := scanCustomer(postgres.Conn(ctx, r.DB).QueryRow(ctx, q, arg))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperr.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if err := r.loadAddresses(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PGCustomers) loadAddresses(ctx context.Context, c *Customer) error {
	rows, err := postgres.Conn(ctx, r.DB).Query(ctx, `
		SELECT address_type, street_no, building_name, locality, city, state, pincode
		FROM customer_addresses WHERE customer_id=$1`, c.ID)
	if err != nil {
		return fmt.Errorf("get addresses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var a Address
		if err := rows.Scan(&kind, &a.StreetNo, &a.BuildingName, &a.Locality, &a.City, &a.State, &a.Pincode); err != nil {
			return err
		}
		c.Addresses[kind] = a
	}
	return rows.Err()
}

func (r *PGCustomers) List(ctx context.Context) ([]Customer, error) {
	rows, err := postgres.Conn(ctx, r.DB).Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := []Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, *c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if err := r.loadAllAddresses(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadAllAddresses fills addresses for a listed page with one query.
func (r *PGCustomers) loadAllAddresses(ctx context.Context, cs []Customer) error {
	if len(cs) == 0 {
		return nil
	}
	idx := make(map[int64]int, len(cs))
	ids := make([]int64, 0, len(cs))
	for i := range cs {
		idx[cs[i].ID] = i
		ids = append(ids, cs[i].ID)
	}
	rows, err := postgres.Conn(ctx, r.DB).Query(ctx, `
		SELECT customer_id, address_type, street_no, building_name, locality, city, state, pincode
		FROM customer_addresses WHERE customer_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cid int64
		var kind string
		var a Address
		if err := rows.Scan(&cid, &kind, &a.StreetNo, &a.BuildingName, &a.Locality, &a.City, &a.State, &a.Pincode); err != nil {
			return err
		}
		if i, ok := idx[cid]; ok {
			cs[i].Addresses[kind] = a
		}
	}
	return rows.Err()
}

func (r *PGCustomers) Update(ctx context.Context, c *Customer) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `
		UPDATE customers
		SET first_name=$2, last_name=$3, mobile=$4, email=$5, password=$6,
		    card_number=$7, card_validity=$8, card_cvv=$9
		WHERE id=$1`,
		c.ID, c.FirstName, c.LastName, c.Mobile, c.Email, c.Password,
		c.CreditCard.CardNumber, c.CreditCard.CardValidity, c.CreditCard.CardCVV)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperr.Newf(apperr.KindAccountAlreadyExists, "mobile %s already registered", c.Mobile)
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrAccountNotFound
	}
	return nil
}

func (r *PGCustomers) UpsertAddress(ctx context.Context, customerID int64, kind string, a Address) error {
	_, err := postgres.Conn(ctx, r.DB).Exec(ctx, `
		INSERT INTO customer_addresses(customer_id, address_type, street_no, building_name, locality, city, state, pincode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (customer_id, address_type) DO UPDATE
		SET street_no=EXCLUDED.street_no, building_name=EXCLUDED.building_name, locality=EXCLUDED.locality,
		    city=EXCLUDED.city, state=EXCLUDED.state, pincode=EXCLUDED.pincode`,
		customerID, kind, a.StreetNo, a.BuildingName, a.Locality, a.City, a.State, a.Pincode)
	if err != nil {
		return fmt.Errorf("upsert address: %w", err)
	}
	return nil
}

func (r *PGCustomers) DeleteAddress(ctx context.Context, customerID int64, kind string) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx,
		`DELETE FROM customer_addresses WHERE customer_id=$1 AND address_type=$2`, customerID, kind)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindAddressNotFound, "address type %q not found", kind)
	}
	return nil
}

func (r *PGCustomers) Delete(ctx context.Context, id int64) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrAccountNotFound
	}
	return nil
}

type PGSellers struct{ DB *pgxpool.Pool }

const sellerColumns = `id, first_name, last_name, mobile, email, password, created_at`

func scanSeller(row pgx.Row) (*Seller, error) {
	var s Seller
	if err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Mobile, &s.Email, &s.Password, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGSellers) Create(ctx context.Context, s *Seller) error {
	err := postgres.Conn(ctx, r.DB).QueryRow(ctx, `
		INSERT INTO sellers(first_name, last_name, mobile, email, password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		s.FirstName, s.LastName, s.Mobile, s.Email, s.Password).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperr.Newf(apperr.KindAccountAlreadyExists, "seller with mobile %s already exists", s.Mobile)
		}
		return fmt.Errorf("insert seller: %w", err)
	}
	return nil
}

func (r *PGSellers) Get(ctx context.Context, id int64) (*Seller, error) {
	return r.one(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE id=$1`, id)
}

func (r *PGSellers) GetByMobile(ctx context.Context, mobile string) (*Seller, error) {
	return r.one(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE mobile=$1`, mobile)
}

func (r *PGSellers) one(ctx context.Context, q string, arg any) (*Seller, error) {
	s, err := scanSeller(postgres.Conn(ctx, r.DB).QueryRow(ctx, q, arg))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperr.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}
	return s, nil
}

func (r *PGSellers) List(ctx context.Context) ([]Seller, error) {
	rows, err := postgres.Conn(ctx, r.DB).Query(ctx, `SELECT `+sellerColumns+` FROM sellers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	defer rows.Close()
	out := []Seller{}
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *PGSellers) Update(ctx context.Context, s *Seller) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `
		UPDATE sellers SET first_name=$2, last_name=$3, mobile=$4, email=$5, password=$6 WHERE id=$1`,
		s.ID, s.FirstName, s.LastName, s.Mobile, s.Email, s.Password)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperr.Newf(apperr.KindAccountAlreadyExists, "mobile %s already registered", s.Mobile)
		}
		return fmt.Errorf("update seller: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrAccountNotFound
	}
	return nil
}

func (r *PGSellers) Delete(ctx context.Context, id int64) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `DELETE FROM sellers WHERE id=$1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperr.New(apperr.KindProductUnavailable, "a product of this seller was just added to a cart, retry the delete")
		}
		return fmt.Errorf("delete seller: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrAccountNotFound
	}
	return nil
}
