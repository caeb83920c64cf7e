// Package models defines the entities that flow through the tune harvester.
//
// The package contains two categories of types:
//
// 1. Archive payloads: transient structs decoded from the tune archive API
//   - [TuneSummary] : id and name from the popular-tunes listing
//   - [TuneDetail] : full tune payload with raw aliases and settings
//   - [Setting] : one notated version of a tune (ABC and key)
//
// 2. Output entities: what the harvester keeps and persists
//   - [TuneRecord] : a tune with filtered aliases, the unit of the JSON dataset
//   - [Run] : bookkeeping for one harvest invocation, stored in SQLite
package models
