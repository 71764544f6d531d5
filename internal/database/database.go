package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to database...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Printf("❌ sqlx.Connect() failed: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ Ping() failed: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create packages table
		`CREATE TABLE IF NOT EXISTS packages (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			size TEXT NOT NULL CHECK(size IN ('small', 'medium', 'large')),
			bin_num INT NOT NULL CHECK(bin_num > 0),
			is_custom BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create users table (homeowners, drivers, managers)
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			surname TEXT NOT NULL,
			othernames TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL CHECK(role IN ('homeowner', 'driver', 'manager')),
			is_suspended BOOLEAN NOT NULL DEFAULT FALSE,
			is_approved BOOLEAN NOT NULL DEFAULT FALSE,
			package_id TEXT REFERENCES packages(id),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create bins table
		`CREATE TABLE IF NOT EXISTS bins (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL CHECK(category IN ('recycling', 'trash')),
			size TEXT NOT NULL CHECK(size IN ('small', 'medium', 'large')),
			status TEXT NOT NULL CHECK(status IN ('full', 'empty')),
			price DOUBLE PRECISION NOT NULL,
			homeowner_id TEXT REFERENCES users(id),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Allocation scans unassigned bins by size
		`CREATE INDEX IF NOT EXISTS bins_available_idx ON bins(size) WHERE homeowner_id IS NULL`,

		`CREATE INDEX IF NOT EXISTS bins_homeowner_idx ON bins(homeowner_id)`,

		// Create pickups table
		`CREATE TABLE IF NOT EXISTS pickups (
			id TEXT PRIMARY KEY,
			homeowner_id TEXT NOT NULL REFERENCES users(id),
			driver_id TEXT REFERENCES users(id),
			payment_id TEXT,
			pickup_date TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('pending', 'assigned', 'ongoing', 'completed', 'paid', 'cancelled')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// At most one pickup outside the terminal states per homeowner;
		// concurrent creates race on this index instead of on a read-then-write
		`CREATE UNIQUE INDEX IF NOT EXISTS pickups_one_active_per_homeowner
			ON pickups(homeowner_id) WHERE status NOT IN ('cancelled', 'paid')`,

		`CREATE INDEX IF NOT EXISTS pickups_driver_date_idx ON pickups(driver_id, pickup_date)`,

		// Create pickup_bins table (snapshot of the bins a pickup collects)
		`CREATE TABLE IF NOT EXISTS pickup_bins (
			pickup_id TEXT NOT NULL REFERENCES pickups(id) ON DELETE CASCADE,
			bin_id TEXT NOT NULL REFERENCES bins(id),
			PRIMARY KEY (pickup_id, bin_id)
		)`,

		// Create pickup_settings table (singleton, id pinned to 1)
		`CREATE TABLE IF NOT EXISTS pickup_settings (
			id INT PRIMARY KEY CHECK(id = 1),
			daily_pickup_limit_per_driver INT NOT NULL CHECK(daily_pickup_limit_per_driver > 0),
			pickup_price DOUBLE PRECISION NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create payments table
		`CREATE TABLE IF NOT EXISTS payments (
			id TEXT PRIMARY KEY,
			homeowner_id TEXT NOT NULL REFERENCES users(id),
			payment_type TEXT NOT NULL CHECK(payment_type IN ('bin', 'pickup')),
			payment_method TEXT NOT NULL CHECK(payment_method IN ('card', 'mobile_money', 'bank')),
			response TEXT NOT NULL CHECK(response IN ('success', 'failure')),
			total_amount DOUBLE PRECISION NOT NULL,
			ref_number TEXT NOT NULL,
			package_id TEXT REFERENCES packages(id),
			pickup_id TEXT REFERENCES pickups(id),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
