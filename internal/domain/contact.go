package domain

import "time"

// Jurisdiction is the closed set of US states (plus Other) the rule
// engine keys exclusion windows on. Blank codes normalize to
// JurisdictionOther when contacts are loaded; other codes are kept as
// given, and any code outside the rule table (Other included) carries
// rule None.
type Jurisdiction string

const (
	JurisdictionOther Jurisdiction = "OTHER"
)

// Contact is a single person a schedule can be produced for. Identifier
// is stable and supplied by the caller; it is never reassigned by the
// engine.
type Contact struct {
	ID                 int64
	Email              string
	ZIP                string
	Jurisdiction       Jurisdiction
	BirthDate          *Date
	EffectiveDate      *Date
	Carrier            string
	FailedUnderwriting bool
}

// EligibleForAnniversary reports whether the contact qualifies for
// birthday/effective-date derivation: a non-empty email and at least
// one anchor date.
func (c *Contact) EligibleForAnniversary() bool {
	if c.Email == "" {
		return false
	}
	return c.BirthDate != nil || c.EffectiveDate != nil
}

// InteractionRecord captures the engagement signal attached to a prior
// sent email, used by follow-up derivation (C5) to classify response.
type InteractionRecord struct {
	ContactID          int64
	AnchorScheduleID    int64
	SentAt              time.Time
	AnsweredHealthQuest bool
	HealthAnswerYes     bool
	ClickedLink         bool
}
