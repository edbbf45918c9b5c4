// Package postgres implements the store interfaces on PostgreSQL using
// pgx. The pool is accessed through the DBPool interface so tests can swap
// in pgxmock. Partial job updates are built dynamically with squirrel so an
// UPDATE only ever touches the fields the caller supplied.
package postgres
