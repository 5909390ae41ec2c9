package domain

import "fmt"

// StoreError wraps an IO/schema/transaction failure from the
// persistent store. It is always fatal: the run aborts and rolls back
// (spec §7).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store error during %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// ConfigurationError is fatal and raised before any derivation starts.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Reason }

// InvalidContactData is attached to a single contact id and isolated —
// the contact is skipped for the run, processing continues (spec §7).
// InvalidDate and ParseError conditions are reported through this type
// at the derivation boundary.
type InvalidContactData struct {
	ContactID int64
	Reason    string
}

func (e *InvalidContactData) Error() string {
	return fmt.Sprintf("invalid contact data (contact %d): %s", e.ContactID, e.Reason)
}

// UnexpectedError is fatal and always logged with context.
type UnexpectedError struct {
	Context string
	Err     error
}

func (e *UnexpectedError) Error() string { return fmt.Sprintf("unexpected error (%s): %v", e.Context, e.Err) }
func (e *UnexpectedError) Unwrap() error { return e.Err }
