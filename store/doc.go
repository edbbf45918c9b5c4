// Package store defines the persistence contracts the article agent writes
// through: an ArticleStore for generated articles and a JobStore for the
// continuously updated job-status records the UI polls.
//
// Backends live in subpackages:
//
//   - store/memory: in-process maps, for tests and local runs
//   - store/postgres: pgx-backed tables, the production backend
//   - store/redis: JobStore only, for deployments that keep job progress in
//     Redis for cheap polling
package store
