package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// VisitRepo provides operations for service visits and their items.  A
// visit groups the billable line items recorded during one service event on
// a vehicle.  Visits are append-only: they are created with their items in
// a single transaction and never edited afterwards; they disappear only
// when their vehicle (or its customer) is deleted.
type VisitRepo struct {
	db *sql.DB
}

// NewVisitRepo returns a new VisitRepo bound to the given database.
func NewVisitRepo(db *sql.DB) *VisitRepo { return &VisitRepo{db: db} }

// ServiceVisit mirrors the service_visits table.
type ServiceVisit struct {
	ID            uint64
	VehicleID     uint64
	Date          time.Time
	Notes         string
	VisitCategory string
	Labour        float64 // flat visit-level labour charge
}

// ServiceItem mirrors the service_items table.  Quantity defaults to 1 and
// price/labour to 0 when the form leaves them blank; that normalization
// happens in the handler before the repository is called.
type ServiceItem struct {
	ID         uint64
	VisitID    uint64
	ItemName   string
	PartNumber string
	Quantity   int
	Price      float64 // unit price
	Labour     float64 // per-item labour charge
}

// CreateWithItems persists a visit and all of its items as one atomic
// unit.  The visit row is inserted first to obtain its identifier, the
// items are then bulk-inserted referencing it, and everything commits
// together: readers can never observe the visit without its items.  The
// generated IDs are populated on the passed records.
func (r *VisitRepo) CreateWithItems(ctx context.Context, v *ServiceVisit, items []*ServiceItem) (err error) {
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

	const qVisit = `INSERT INTO service_visits (vehicle_id, date, notes, visit_category, labour)
		VALUES (?, ?, ?, ?, ?)`
	if v.Date.IsZero() {
		v.Date = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx, qVisit, v.VehicleID, v.Date, v.Notes, v.VisitCategory, v.Labour)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)

	if len(items) == 0 {
		return nil
	}
	// Bulk insert all items in a single statement
	query := `INSERT INTO service_items (visit_id, item_name, part_number, quantity, price, labour) VALUES `
	args := make([]any, 0, len(items)*6)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		it.VisitID = v.ID
		args = append(args, it.VisitID, it.ItemName, it.PartNumber, it.Quantity, it.Price, it.Labour)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID fetches a single visit.  ErrNotFound is returned when it does
// not exist.
func (r *VisitRepo) GetByID(ctx context.Context, id uint64) (*ServiceVisit, error) {
	const q = `SELECT id, vehicle_id, date, COALESCE(notes,''), COALESCE(visit_category,''), labour
		FROM service_visits WHERE id = ?`
	var v ServiceVisit
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.VehicleID, &v.Date, &v.Notes, &v.VisitCategory, &v.Labour); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListByVehicle returns all visits for a vehicle ordered most recent
// first.
func (r *VisitRepo) ListByVehicle(ctx context.Context, vehicleID uint64) ([]*ServiceVisit, error) {
	const q = `SELECT id, vehicle_id, date, COALESCE(notes,''), COALESCE(visit_category,''), labour
		FROM service_visits WHERE vehicle_id = ? ORDER BY date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ServiceVisit
	for rows.Next() {
		v := new(ServiceVisit)
		if err := rows.Scan(&v.ID, &v.VehicleID, &v.Date, &v.Notes, &v.VisitCategory, &v.Labour); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ItemsByVisit returns the line items of a visit in insertion order.
func (r *VisitRepo) ItemsByVisit(ctx context.Context, visitID uint64) ([]*ServiceItem, error) {
	const q = `SELECT id, visit_id, item_name, COALESCE(part_number,''), quantity, price, labour
		FROM service_items WHERE visit_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ServiceItem
	for rows.Next() {
		it := new(ServiceItem)
		if err := rows.Scan(&it.ID, &it.VisitID, &it.ItemName, &it.PartNumber,
			&it.Quantity, &it.Price, &it.Labour); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of visits, used by the dashboard.
func (r *VisitRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM service_visits`).Scan(&n)
	return n, err
}
