package domain

import "time"

// RunSummary is the observable report emitted at the end of every
// invocation, whether the run completed or aborted partway through
// (spec §7). It is a plain JSON-marshalable value so the CLI can print
// it and an orchestrator can parse it without depending on engine
// internals.
type RunSummary struct {
	RunID              RunID             `json:"run_id"`
	OrgID              string            `json:"org_id"`
	StartedAt          time.Time         `json:"started_at"`
	Duration           time.Duration     `json:"duration_ns"`
	ContactsProcessed  int               `json:"contacts_processed"`
	CountsByStatus     map[string]int    `json:"counts_by_status"`
	CountsBySkipReason map[string]int    `json:"counts_by_skip_reason"`
	CountsByEmailType  map[string]int    `json:"counts_by_email_type"`
	Inserted           int               `json:"inserted"`
	Updated            int               `json:"updated"`
	Unchanged          int               `json:"unchanged"`
	OrphansDeleted     int               `json:"orphans_deleted"`
	FailedContacts     []FailedContact   `json:"failed_contacts,omitempty"`
	Aborted            bool              `json:"aborted"`
	AbortReason        string            `json:"abort_reason,omitempty"`
}

// FailedContact isolates a single contact's derivation failure so it
// never fails the whole run (spec §7 propagation policy).
type FailedContact struct {
	ContactID int64  `json:"contact_id"`
	Reason    string `json:"reason"`
}

// NewRunSummary initializes a summary with empty counters, ready to be
// accumulated into as records are produced.
func NewRunSummary(runID RunID, orgID string, startedAt time.Time) *RunSummary {
	return &RunSummary{
		RunID:              runID,
		OrgID:              orgID,
		StartedAt:          startedAt,
		CountsByStatus:     make(map[string]int),
		CountsBySkipReason: make(map[string]int),
		CountsByEmailType:  make(map[string]int),
	}
}

// Tally folds one produced record into the summary's counters.
func (s *RunSummary) Tally(rec ScheduleRecord) {
	s.CountsByStatus[string(rec.Status)]++
	s.CountsByEmailType[string(rec.EmailType.Tag)]++
	if rec.Status == StatusSkipped && rec.SkipReason != "" {
		s.CountsBySkipReason[rec.SkipReason]++
	}
}

// Finish stamps the duration and returns the completed summary.
func (s *RunSummary) Finish(endedAt time.Time) *RunSummary {
	s.Duration = endedAt.Sub(s.StartedAt)
	return s
}
