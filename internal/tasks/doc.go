// Package tasks harvests tune metadata from the archive with real-time progress reporting.
//
// # Core Operations
//
// [Harvester] drives a single sequential loop:
//
//  1. [Harvester.FetchPopular] : page through the popularity ranking
//     - Requests pages of PerPage summaries starting at page 1
//     - Stops at the target, on an empty page, or on the first failed page
//     - Pauses for Delay after every page that continues pagination
//
//  2. [Harvester.Run] : fetch details and build records
//     - Fetches each tune's details, skipping tunes whose request fails
//     - Filters aliases against the tune name ([aliases.Filterer])
//     - Pauses for Delay after every detail request
//     - Checkpoints the whole collection every CheckpointEvery records and once at the end
//
// [Refilter] re-applies the alias filter to a dataset that is already on disk.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Checkpoints
//
// [JSONCheckpointer] replaces the output file atomically on every save.
//
// The optional [RecordSink] mirrors saved records elsewhere (repositories.TuneSinkAdapter).
// Sink errors are logged and never stop a harvest.
package tasks
