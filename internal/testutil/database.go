package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created and ranks seeded
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// An in-memory database exists per connection, so the pool must never
	// grow past one. Concurrent transactions queue for the connection.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the embedded goose migrations.
//
//nolint:funlen // Database schema DDL
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Binary tree placement, owned by the user-management subsystem
		CREATE TABLE IF NOT EXISTS tree_node (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			parent_id VARCHAR(36),
			sponsor_id VARCHAR(36),
			leg_position VARCHAR(5) NOT NULL DEFAULT 'none',
			level INTEGER NOT NULL DEFAULT 0,
			current_rank INTEGER NOT NULL DEFAULT 0,
			is_root BOOLEAN NOT NULL DEFAULT FALSE
		);

		CREATE TABLE IF NOT EXISTS purchase (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			buyer_id VARCHAR(36) NOT NULL,
			bv_amount FLOAT NOT NULL,
			month_id INTEGER NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			propagated_up_to VARCHAR(36),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			completed_at DATETIME
		);

		CREATE TABLE IF NOT EXISTS lifetime_ledger (
			user_id VARCHAR(36) NOT NULL PRIMARY KEY,
			self_bv FLOAT NOT NULL DEFAULT 0,
			left_bv FLOAT NOT NULL DEFAULT 0,
			right_bv FLOAT NOT NULL DEFAULT 0,
			directs_bv FLOAT NOT NULL DEFAULT 0,
			matching_bv FLOAT NOT NULL DEFAULT 0,
			carry_forward_left FLOAT NOT NULL DEFAULT 0,
			carry_forward_right FLOAT NOT NULL DEFAULT 0,
			diff_income FLOAT NOT NULL DEFAULT 0,
			rank INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS monthly_ledger (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			month_id INTEGER NOT NULL,
			period_start DATE NOT NULL,
			period_end DATE NOT NULL,
			month_bv_left FLOAT NOT NULL DEFAULT 0,
			month_bv_right FLOAT NOT NULL DEFAULT 0,
			month_bv_directs FLOAT NOT NULL DEFAULT 0,
			CONSTRAINT unique_user_month UNIQUE (user_id, month_id)
		);

		CREATE TABLE IF NOT EXISTS bv_transaction (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			purchase_id VARCHAR(36) NOT NULL,
			user_id VARCHAR(36) NOT NULL,
			type VARCHAR(15) NOT NULL,
			leg VARCHAR(5) NOT NULL DEFAULT 'none',
			bv_amount FLOAT NOT NULL,
			prev_left_bv FLOAT NOT NULL DEFAULT 0,
			new_left_bv FLOAT NOT NULL DEFAULT 0,
			prev_right_bv FLOAT NOT NULL DEFAULT 0,
			new_right_bv FLOAT NOT NULL DEFAULT 0,
			prev_matching_bv FLOAT NOT NULL DEFAULT 0,
			new_matching_bv FLOAT NOT NULL DEFAULT 0,
			new_match FLOAT NOT NULL DEFAULT 0,
			carry_forward_left FLOAT NOT NULL DEFAULT 0,
			carry_forward_right FLOAT NOT NULL DEFAULT 0,
			rank INTEGER NOT NULL DEFAULT 0,
			percentage FLOAT NOT NULL DEFAULT 0,
			diff_income FLOAT NOT NULL DEFAULT 0,
			direct_income FLOAT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(purchase_id) REFERENCES purchase(id)
		);

		CREATE TABLE IF NOT EXISTS rank (
			rank_index INTEGER NOT NULL PRIMARY KEY,
			name VARCHAR(50) NOT NULL UNIQUE,
			min_team_bv FLOAT NOT NULL,
			percentage FLOAT NOT NULL,
			promotion_bonus FLOAT NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS rank_achievement (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			rank INTEGER NOT NULL,
			team_bv FLOAT NOT NULL,
			left_bv FLOAT NOT NULL,
			right_bv FLOAT NOT NULL,
			bonus FLOAT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_user_rank UNIQUE (user_id, rank)
		);

		CREATE TABLE IF NOT EXISTS wallet (
			user_id VARCHAR(36) NOT NULL PRIMARY KEY,
			balance FLOAT NOT NULL DEFAULT 0,
			total_earned FLOAT NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS wallet_ledger_entry (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			amount FLOAT NOT NULL,
			income_type VARCHAR(20) NOT NULL,
			balance_before FLOAT NOT NULL,
			balance_after FLOAT NOT NULL,
			earned_before FLOAT NOT NULL,
			earned_after FLOAT NOT NULL,
			reference_id VARCHAR(36) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := db.Exec(schema); err != nil {
		return err
	}

	return seedRanks(db)
}

// seedRanks mirrors the rank-table seed migration.
func seedRanks(db *sql.DB) error {
	seed := `
		INSERT INTO rank (rank_index, name, min_team_bv, percentage, promotion_bonus) VALUES
			(0, 'Executive', 0, 0.10, 0),
			(1, 'Bronze', 5000, 0.12, 500),
			(2, 'Silver', 25000, 0.14, 2500),
			(3, 'Gold', 100000, 0.16, 10000),
			(4, 'Platinum', 250000, 0.18, 25000),
			(5, 'Diamond', 1000000, 0.20, 100000);
	`
	_, err := db.Exec(seed)
	return err
}
