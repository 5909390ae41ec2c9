// Package engine wires the date kernel, rule engine, lifecycle
// manager, derivation, and pipeline packages into one run: load state
// from the store, derive candidates, resolve them into a final
// schedule, persist the merge, and report what happened. It is the
// single entry point cmd/scheduler calls, grounded on the poll-batch-
// report shape of this codebase's original campaign scheduler, adapted
// from a recurring poll loop into a single invocation.
package engine
