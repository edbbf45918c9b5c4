// Package redis implements the JobStore interface on Redis for deployments
// that keep job progress in a cache the UI can poll without touching the
// relational database.
package redis
