package pipeline

import (
	"strings"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
	"github.com/ignite/scheduler-engine/internal/ruleengine"
)

const priorityPostWindow = 40

// JurisdictionLookup resolves a contact's jurisdiction so the
// post-window generator can recompute the exclusion window a skipped
// candidate fell into, without threading the full contact record
// through the pipeline stage.
type JurisdictionLookup func(contactID int64) domain.Jurisdiction

// GeneratePostWindow scans the current run's skipped candidates for
// ones skipped by a bounded exclusion window (birthday or
// effective-date — year-round exclusions have no window to wait out)
// and emits a makeup candidate the day after the window closes (spec
// §4.9). It is a no-op unless cfg.EnablePostWindowEmails is set.
func GeneratePostWindow(candidates []domain.ScheduleRecord, jurisdictionOf JurisdictionLookup, cfg domain.OrganizationConfig) []domain.ScheduleRecord {
	if !cfg.EnablePostWindowEmails {
		return nil
	}

	var generated []domain.ScheduleRecord
	for _, rec := range candidates {
		if rec.Status != domain.StatusSkipped {
			continue
		}
		if isPostWindow(rec) {
			continue
		}
		if !isBoundedExclusion(rec.SkipReason) {
			continue
		}

		jurisdiction := jurisdictionOf(rec.ContactID)
		anchor := domain.Date{Year: rec.EventYear, Month: rec.EventMonth, Day: rec.EventDay}
		rule := ruleengine.RuleFor(string(jurisdiction))
		window, ok := ruleengine.Evaluate(rule, anchor, cfg.PreBufferFor(string(jurisdiction)))
		if !ok {
			continue
		}

		generated = append(generated, domain.ScheduleRecord{
			ContactID:     rec.ContactID,
			EmailType:     domain.NewAnniversaryEmailType(domain.AnniversaryPostWindow),
			ScheduledDate: datekernel.AddDays(window.End, 1),
			ScheduledTime: rec.ScheduledTime,
			Status:        domain.StatusPreScheduled,
			Priority:      priorityPostWindow,
			EventYear:     rec.EventYear,
			EventMonth:    rec.EventMonth,
			EventDay:      rec.EventDay,
		})
	}
	return generated
}

func isPostWindow(rec domain.ScheduleRecord) bool {
	return rec.EmailType.Tag == domain.EmailTypeAnniversary && rec.EmailType.Anniversary == domain.AnniversaryPostWindow
}

func isBoundedExclusion(reason string) bool {
	return strings.HasPrefix(reason, "Birthday exclusion window for") || strings.HasPrefix(reason, "Effective date exclusion for")
}
