// Package database wraps GORM with structured logging, connection retry,
// and error translation. The backend runs on SQLite; the wrapper keeps the
// dialector injectable so tests can use in-memory databases.
package database
