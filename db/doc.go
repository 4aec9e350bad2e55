// Package db provides the local store of the ramjet controller.
// It keeps the proxy configuration and the cookie collaborator's data in a versioned
// SQLite database with two partitions, `config` and `cookies`, one table each.
//
// This package is responsible for:
// - Opening the database file and upgrading it to SchemaVersion (`db.go`).
// - Recreating any missing partition after a successful open.
// - Implementing the domain.ConfigRepository and domain.CookieRepository interfaces.
// - Providing MemoryStore, an in-memory domain.LocalStore for tests and embeddings
//   that do not need persistence (`memory.go`).
// - Managing database migrations (`migrations/`).
package db
