// Package derive implements the three per-contact candidate generators
// that run in parallel per contact batch (spec §4.3-§4.5, components
// C3-C5): anniversary (birthday/effective-date), campaign, and
// follow-up derivation. Post-window makeups are produced later by
// pipeline.GeneratePostWindow, not here. Anniversary, Campaign and
// Followup are pure functions of their inputs plus the C1/C2 leaf
// utilities — no IO, no shared mutable state — so Batch can fan them
// out across goroutines without locking.
package derive
