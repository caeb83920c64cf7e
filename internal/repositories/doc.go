// Package repositories implements the SQLite mirror of harvested tunes and harvest runs.
//
// Key Implementations:
//   - [TuneRepository] : tune records with their ordered, filtered aliases
//   - [RunRepository] : harvest run history with status tracking
//   - [TuneSinkAdapter] : tasks.RecordSink writing each saved record through [TuneRepository]
//
// The JSON dataset stays the primary output; the database is an optional mirror enabled by
// the [database] config section or the fetch --db flag.
package repositories
