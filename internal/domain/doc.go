// Package domain defines the core business types for the schedule engine.
//
// Types in this package are pure value objects with no behavior beyond
// small validation/classification methods, no database dependencies, and
// no HTTP concerns. They are the shared language between the derivation
// packages, the pipeline stages, and the store.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/DB tags are allowed (they're metadata, not behavior)
//   - Validation and classification methods are allowed (pure functions
//     on the type) — exhaustive tagged unions with helper methods over
//     dynamic dispatch
//   - Constants and enums belong here
package domain
