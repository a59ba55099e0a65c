// This file defines the Vehicle model and repository methods.  A vehicle
// belongs to at most one customer and owns its service visits.  The plate
// is globally unique; the database constraint is the source of truth and
// duplicate-key failures are mapped to ErrPlateExists.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Vehicle represents a vehicle row.  Optional text columns are plain
// strings where "" means unset; CustomerID is nil for vehicles without a
// linked customer.
type Vehicle struct {
	ID         uint64
	CustomerID *uint64
	Name       string // make or free-text label
	Model      string
	Plate      string
	VinNumber  string
	Type       string // electrical, mechanical or service
	Status     string
	DateBooked string
	Technician string
	History    string // legacy free-text field, superseded by the visit ledger
}

// VehicleRepo encapsulates all database queries related to vehicles.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo constructs a VehicleRepo with the provided DB handle.
func NewVehicleRepo(db *sql.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

const vehicleCols = `id, customer_id, name, model, plate,
	COALESCE(vin_number,''), COALESCE(type,''), status,
	COALESCE(date_booked,''), COALESCE(technician,''), COALESCE(history,'')`

func scanVehicle(row interface{ Scan(...any) error }) (*Vehicle, error) {
	v := new(Vehicle)
	var customerID sql.NullInt64
	if err := row.Scan(&v.ID, &customerID, &v.Name, &v.Model, &v.Plate,
		&v.VinNumber, &v.Type, &v.Status, &v.DateBooked, &v.Technician, &v.History); err != nil {
		return nil, err
	}
	if customerID.Valid {
		cid := uint64(customerID.Int64)
		v.CustomerID = &cid
	}
	return v, nil
}

// Search returns vehicles whose plate, model or name contains the query
// substring, case-insensitively.  An empty query returns every vehicle.
func (r *VehicleRepo) Search(ctx context.Context, query string) ([]*Vehicle, error) {
	q := `SELECT ` + vehicleCols + ` FROM vehicles`
	args := []any{}
	if s := strings.TrimSpace(query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q += ` WHERE LOWER(plate) LIKE ? OR LOWER(model) LIKE ? OR LOWER(name) LIKE ?`
		args = append(args, like, like, like)
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a vehicle by its ID.  It returns ErrNotFound if no row
// exists.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (*Vehicle, error) {
	const where = ` FROM vehicles WHERE id = ?`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, `SELECT `+vehicleCols+where, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Create inserts a new vehicle.  The unique plate constraint is enforced by
// the database; a duplicate key error is mapped to ErrPlateExists so the
// handler can redisplay the form.  On success the ID field is populated.
func (r *VehicleRepo) Create(ctx context.Context, v *Vehicle) error {
	const q = `INSERT INTO vehicles
		(customer_id, name, model, plate, vin_number, type, status, date_booked, technician, history)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.CustomerID, v.Name, v.Model, v.Plate,
		v.VinNumber, v.Type, v.Status, v.DateBooked, v.Technician, v.History)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrPlateExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// Update replaces all editable fields of a vehicle.  Duplicate plates are
// mapped to ErrPlateExists and a missing row to ErrNotFound.
func (r *VehicleRepo) Update(ctx context.Context, v *Vehicle) error {
	const q = `UPDATE vehicles SET customer_id = ?, name = ?, model = ?, plate = ?,
		vin_number = ?, type = ?, status = ?, date_booked = ?, technician = ?, history = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.CustomerID, v.Name, v.Model, v.Plate,
		v.VinNumber, v.Type, v.Status, v.DateBooked, v.Technician, v.History, v.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrPlateExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero affected rows is ambiguous: the row may be missing or simply
		// unchanged.  Probe for existence before reporting not found.
		if _, err := r.GetByID(ctx, v.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a vehicle together with its service visits and their
// items within a transaction.  ErrNotFound is returned when the vehicle
// does not exist.
func (r *VehicleRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	if err = tx.QueryRowContext(ctx, `SELECT id FROM vehicles WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}
	// Cascade delete: items first, then visits, then the vehicle
	if _, err = tx.ExecContext(ctx,
		`DELETE si FROM service_items si
		 JOIN service_visits sv ON sv.id = si.visit_id
		 WHERE sv.vehicle_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM service_visits WHERE vehicle_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}

// Count returns the total number of vehicles, used by the dashboard.
func (r *VehicleRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&n)
	return n, err
}
