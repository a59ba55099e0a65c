// This file defines the Customer model and repository methods for CRUD and
// search.  A Customer is a contact record; vehicles reference it through an
// optional foreign key.  Deleting a customer cascades explicitly through
// their vehicles, service visits and service items inside one transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Customer represents a customer row.  Name, phone and email are all
// required; the add/edit forms enforce that before the repository is
// reached.
type Customer struct {
	ID    uint64
	Name  string
	Phone string
	Email string
}

// CustomerRepo encapsulates all database queries related to customers.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo constructs a CustomerRepo with the provided DB handle.
func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// Search returns customers whose name, phone or email contains the query
// substring, case-insensitively.  An empty query returns every customer.
func (r *CustomerRepo) Search(ctx context.Context, query string) ([]*Customer, error) {
	q := `SELECT id, name, phone, email FROM customers`
	args := []any{}
	if s := strings.TrimSpace(query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q += ` WHERE LOWER(name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(email) LIKE ?`
		args = append(args, like, like, like)
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Customer
	for rows.Next() {
		c := new(Customer)
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a customer by its ID.  It returns ErrNotFound if no row
// exists.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*Customer, error) {
	const q = `SELECT id, name, phone, email FROM customers WHERE id = ?`
	var c Customer
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer.  On success the ID field is populated with
// the auto-generated value.
func (r *CustomerRepo) Create(ctx context.Context, c *Customer) error {
	const q = `INSERT INTO customers (name, phone, email) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Phone, c.Email)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Update replaces all editable fields of a customer.  It returns
// ErrNotFound when no row is affected.
func (r *CustomerRepo) Update(ctx context.Context, c *Customer) error {
	const q = `UPDATE customers SET name = ?, phone = ?, email = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Phone, c.Email, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "row missing" from "row unchanged".
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a customer and all dependent records (vehicles, service
// visits and service items) within a transaction.  ErrNotFound is returned
// when the customer does not exist.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// The named return lets the deferred commit report its failure.
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	var exists uint64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM customers WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}
	// Cascade delete: service items for visits on this customer's vehicles
	if _, err = tx.ExecContext(ctx,
		`DELETE si FROM service_items si
		 JOIN service_visits sv ON sv.id = si.visit_id
		 JOIN vehicles v ON v.id = sv.vehicle_id
		 WHERE v.customer_id = ?`, id); err != nil {
		return err
	}
	// Delete service visits for this customer's vehicles
	if _, err = tx.ExecContext(ctx,
		`DELETE sv FROM service_visits sv
		 JOIN vehicles v ON v.id = sv.vehicle_id
		 WHERE v.customer_id = ?`, id); err != nil {
		return err
	}
	// Delete the vehicles themselves
	if _, err = tx.ExecContext(ctx, `DELETE FROM vehicles WHERE customer_id = ?`, id); err != nil {
		return err
	}
	// Finally delete the customer
	if _, err = tx.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}

// Count returns the total number of customers, used by the dashboard.
func (r *CustomerRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n)
	return n, err
}
