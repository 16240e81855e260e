// Package sqlstore implements the store interfaces on top of database/sql.
// It supports two backends: SQLite via modernc.org/sqlite (the default, and
// the backend used by the test suite with an in-memory database) and
// PostgreSQL via the pgx stdlib driver. All queries use positional $N
// placeholders, which both backends accept, so the SQL is shared.
package sqlstore
