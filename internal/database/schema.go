package database

// schema.go creates the garage tables on startup and seeds the initial
// admin account.  Statements are idempotent (CREATE TABLE IF NOT EXISTS)
// so the bootstrap can run on every start.

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/powertune/garage/internal/utils"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(80) NOT NULL UNIQUE,
		password_hash VARCHAR(128) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		email VARCHAR(100) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		customer_id BIGINT UNSIGNED NULL,
		name VARCHAR(100) NOT NULL,
		model VARCHAR(100) NOT NULL,
		plate VARCHAR(20) NOT NULL UNIQUE,
		vin_number VARCHAR(100) NULL,
		type VARCHAR(50) NULL,
		status VARCHAR(50) NOT NULL,
		date_booked VARCHAR(20) NULL,
		technician VARCHAR(100) NULL,
		history TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_vehicles_customer FOREIGN KEY (customer_id) REFERENCES customers(id)
	)`,
	`CREATE TABLE IF NOT EXISTS service_visits (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		vehicle_id BIGINT UNSIGNED NOT NULL,
		date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		notes TEXT NULL,
		visit_category VARCHAR(100) NULL,
		labour DOUBLE NOT NULL DEFAULT 0,
		CONSTRAINT fk_visits_vehicle FOREIGN KEY (vehicle_id) REFERENCES vehicles(id)
	)`,
	`CREATE TABLE IF NOT EXISTS service_items (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		visit_id BIGINT UNSIGNED NOT NULL,
		item_name VARCHAR(150) NOT NULL,
		part_number VARCHAR(100) NULL,
		quantity INT NOT NULL DEFAULT 1,
		price DOUBLE NOT NULL DEFAULT 0,
		labour DOUBLE NOT NULL DEFAULT 0,
		CONSTRAINT fk_items_visit FOREIGN KEY (visit_id) REFERENCES service_visits(id)
	)`,
}

// Migrate executes every schema statement in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin creates the default admin/admin account when no admin user
// exists yet.  The default credentials must be changed after first login;
// this is a deployment requirement, not something the code enforces.
func SeedAdmin(ctx context.Context, db *sql.DB, bcryptCost int) error {
	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = 'admin'`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := utils.HashPassword("admin", bcryptCost)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES (?,?,?)`,
		"admin", hash, "admin"); err != nil {
		return err
	}
	logrus.Warn("seeded default admin user; change the password before production use")
	return nil
}
