package pipeline

import (
	"fmt"
	"sort"

	"github.com/ignite/scheduler-engine/internal/domain"
)

// ResolveConflicts groups the current run's candidates by (contact id,
// date) and, within each group, keeps at most one campaign candidate —
// the one with the lowest priority number — demoting the rest to
// skipped (spec §4.8). Anniversary and follow-up candidates in the
// same group are left untouched; only campaign-vs-campaign conflicts
// are resolved here.
func ResolveConflicts(candidates []domain.ScheduleRecord) []domain.ScheduleRecord {
	type groupKey struct {
		contactID int64
		date      domain.Date
	}

	groups := make(map[groupKey][]int)
	for i, rec := range candidates {
		if rec.EmailType.Tag != domain.EmailTypeCampaign {
			continue
		}
		if rec.Status != domain.StatusPreScheduled {
			continue
		}
		key := groupKey{contactID: rec.ContactID, date: rec.ScheduledDate}
		groups[key] = append(groups[key], i)
	}

	out := make([]domain.ScheduleRecord, len(candidates))
	copy(out, candidates)

	for _, indices := range groups {
		if len(indices) < 2 {
			continue
		}
		sort.SliceStable(indices, func(a, b int) bool {
			return out[indices[a]].Priority < out[indices[b]].Priority
		})
		winner := out[indices[0]]
		for _, idx := range indices[1:] {
			out[idx].Status = domain.StatusSkipped
			out[idx].SkipReason = fmt.Sprintf("campaign priority conflict with %s", winner.EmailType.CampaignTypeName)
		}
	}

	return out
}
