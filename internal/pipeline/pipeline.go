package pipeline

import (
	"sort"

	"github.com/ignite/scheduler-engine/internal/domain"
)

// Run wires C7-C10 in the order spec §2's data-flow diagram requires:
// frequency limiting, campaign conflict resolution, post-window
// generation, then load balancing. The merged C3-C5 candidate set
// goes in; the final pre-C11 candidate set, sorted per spec §5's
// determinism guarantee, comes out. today bounds C10's jitter so a
// shift never lands before the day the run itself executes.
func Run(candidates []domain.ScheduleRecord, today domain.Date, priorActive ActiveCounts, jurisdictionOf JurisdictionLookup, cfg domain.OrganizationConfig) []domain.ScheduleRecord {
	out := EnforceFrequencyLimit(candidates, priorActive, cfg)
	out = ResolveConflicts(out)

	if postWindow := GeneratePostWindow(out, jurisdictionOf, cfg); len(postWindow) > 0 {
		out = append(out, postWindow...)
	}

	out = SmoothEffectiveDate(out, today, cfg)
	out = EnforceDailyCap(out, cfg)

	Sort(out)
	return out
}

// Sort orders records deterministically: scheduled date ascending,
// contact id ascending, email-type tag, then priority (spec §5). Two
// reruns on identical inputs must produce byte-identical ordering.
func Sort(records []domain.ScheduleRecord) {
	sort.SliceStable(records, func(a, b int) bool {
		ra, rb := records[a], records[b]
		if ra.ScheduledDate != rb.ScheduledDate {
			return ra.ScheduledDate.Before(rb.ScheduledDate)
		}
		if ra.ContactID != rb.ContactID {
			return ra.ContactID < rb.ContactID
		}
		if ra.EmailType.Tag != rb.EmailType.Tag {
			return ra.EmailType.Tag < rb.EmailType.Tag
		}
		return ra.Priority < rb.Priority
	})
}
