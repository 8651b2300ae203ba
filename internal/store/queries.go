package store

// Table definitions for the CRM schema. CreateCollection on the sqlite
// engine looks the DDL up here; names without an entry get a minimal table
// so completeness checks still pass on targets created by newer builds.
var tableDDL = map[string]string{
	"clients": `
		CREATE TABLE IF NOT EXISTS clients (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			address TEXT,
			notes TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
	"tickets": `
		CREATE TABLE IF NOT EXISTS tickets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_id INTEGER,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT,
			priority TEXT,
			annotations TEXT,
			attachments TEXT,
			audio_notes TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
	"contracts": `
		CREATE TABLE IF NOT EXISTS contracts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_id INTEGER,
			title TEXT,
			body TEXT,
			signed_at TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
	"products": `
		CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			price REAL,
			tax_rate REAL,
			created_at TEXT,
			updated_at TEXT
		)`,
	"budgets": `
		CREATE TABLE IF NOT EXISTS budgets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_id INTEGER,
			title TEXT,
			sections TEXT,
			total REAL,
			status TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
	"budget_items": `
		CREATE TABLE IF NOT EXISTS budget_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			budget_id INTEGER,
			product_id INTEGER,
			description TEXT,
			quantity REAL,
			unit_price REAL,
			created_at TEXT,
			updated_at TEXT
		)`,
	"payments": `
		CREATE TABLE IF NOT EXISTS payments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_id INTEGER,
			budget_id INTEGER,
			amount REAL,
			method TEXT,
			paid_at TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
	"repository": `
		CREATE TABLE IF NOT EXISTS repository (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT,
			path TEXT,
			mime_type TEXT,
			size INTEGER,
			created_at TEXT,
			updated_at TEXT
		)`,
	"calendar_events": `
		CREATE TABLE IF NOT EXISTS calendar_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT,
			description TEXT,
			starts_at TEXT,
			ends_at TEXT,
			client_id INTEGER,
			created_at TEXT,
			updated_at TEXT
		)`,
	"users": `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT,
			role TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
}

const queryListTables = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`
