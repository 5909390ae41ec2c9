package engine

import "github.com/google/uuid"

// newRunID generates a fresh run identifier stamped into every
// schedule record this run creates or touches (spec §3).
func newRunID() string {
	return uuid.NewString()
}
