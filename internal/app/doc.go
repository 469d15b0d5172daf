// Package app wires shelf together.
//
// Run loads the TOML config and prefs, sends the standard logger to the
// configured log file, builds the catalog client, the collection store and
// its Synchronizer, starts the optional background refresher and then runs
// the Bubble Tea front-end until the user quits.
//
//	config.Load ──> catalog.NewClient ──> collection.New(state.Store)
//	                                         │
//	                       StartPoller ──────┤ Reload every refresh interval,
//	                                         │ backing off up to 30s on failure
//	                       ui.Run ───────────┘ reads Snapshot, drives modal
//
// The refresher only runs when refresh_interval_seconds (or --refresh) is
// positive. All writes still go through the Synchronizer, which serializes
// them against background reloads.
package app
