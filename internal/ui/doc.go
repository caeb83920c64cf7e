// Package ui implements an interactive terminal view of a harvest using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [HarvestView] : spinner, progress bar and the latest status lines while tunes are fetched
//  2. [ResultView] : run summary and a filterable list of the saved tunes
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the tasks.Harvester, providing non-blocking status reporting during the harvest.
//
// Pressing esc or ctrl+c during the harvest cancels it; the harvester still writes what it collected.
package ui
