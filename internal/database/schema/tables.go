// Package schema defines the database schema for development.
//
// DEVELOPMENT USE ONLY
// This file contains the current database schema and is used for development and testing.
// Before deploying to production, these table definitions should be converted to proper migrations.
package schema

// TableDefinitions contains all the SQL statements to create the database tables
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		phone VARCHAR(50),
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id SERIAL PRIMARY KEY,
		client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		airline VARCHAR(255) NOT NULL,
		plan VARCHAR(255) NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE,
		monthly_cost NUMERIC(12,2) NOT NULL CHECK (monthly_cost > 0),
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		CONSTRAINT contracts_date_order CHECK (end_date IS NULL OR end_date >= start_date)
	)`,
}

// TableNames returns a list of all table names in creation order
var TableNames = []string{
	"clients",
	"contracts",
}
