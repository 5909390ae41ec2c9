package pipeline

import (
	"sort"

	"github.com/ignite/scheduler-engine/internal/domain"
)

// ActiveCounts reports, per contact, how many schedules already in
// status pre-scheduled/scheduled/sent exist in the store within the
// frequency window, before this run's candidates are added. The
// frequency limiter adds the current run's new pre-scheduled
// candidates on top of this count (spec §4.7).
type ActiveCounts func(contactID int64) int

// skipReasonFrequencyLimit is part of the external contract (spec §6).
const skipReasonFrequencyLimit = "frequency limit exceeded"

// EnforceFrequencyLimit caps the number of active schedules per
// contact at cfg.MaxEmailsPerPeriod, demoting this run's lowest
// priority (highest priority number) pre-scheduled candidates to
// skipped once the limit is exceeded. Already-sent/scheduled records
// are never touched because they never appear in candidates — they
// live only in the store, represented here by priorActive.
func EnforceFrequencyLimit(candidates []domain.ScheduleRecord, priorActive ActiveCounts, cfg domain.OrganizationConfig) []domain.ScheduleRecord {
	if priorActive == nil {
		priorActive = func(int64) int { return 0 }
	}

	byContact := make(map[int64][]int)
	for i, rec := range candidates {
		if rec.Status != domain.StatusPreScheduled {
			continue
		}
		byContact[rec.ContactID] = append(byContact[rec.ContactID], i)
	}

	out := make([]domain.ScheduleRecord, len(candidates))
	copy(out, candidates)

	for contactID, indices := range byContact {
		prior := priorActive(contactID)
		total := prior + len(indices)
		if total <= cfg.MaxEmailsPerPeriod {
			continue
		}

		sort.SliceStable(indices, func(a, b int) bool {
			return out[indices[a]].Priority < out[indices[b]].Priority
		})

		allowed := cfg.MaxEmailsPerPeriod - prior
		if allowed < 0 {
			allowed = 0
		}
		for pos, idx := range indices {
			if pos < allowed {
				continue
			}
			out[idx].Status = domain.StatusSkipped
			out[idx].SkipReason = skipReasonFrequencyLimit
		}
	}

	return out
}
