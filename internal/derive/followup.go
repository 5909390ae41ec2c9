package derive

import (
	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
	"github.com/ignite/scheduler-engine/internal/ruleengine"
)

// Exists reports whether a follow-up anchored on the given prior
// schedule id has already been produced by an earlier run. Followup
// calls it once per candidate interaction to honor the "do not
// re-emit" rule in spec §4.5; callers typically back it with an
// in-memory set built from the store snapshot passed into the batch.
type Exists func(anchorScheduleID int64) bool

// Followup produces one candidate per qualifying prior sent email,
// per spec §4.5: within the lookback window, not already followed up
// on, classified by engagement and scheduled followupDelayDays after
// the original send.
func Followup(contact domain.Contact, interactions []domain.InteractionRecord, today domain.Date, cfg domain.OrganizationConfig, exists Exists) []domain.ScheduleRecord {
	var out []domain.ScheduleRecord
	for _, ir := range interactions {
		if ir.ContactID != contact.ID {
			continue
		}
		sentDate := datekernel.FromTime(ir.SentAt)
		if datekernel.DiffDays(sentDate, today) > cfg.FollowupLookbackDays {
			continue
		}
		if exists != nil && exists(ir.AnchorScheduleID) {
			continue
		}

		kind, priority := ClassifyEngagement(ir)
		sendDate := datekernel.AddDays(sentDate, cfg.FollowupDelayDays)

		rec := domain.ScheduleRecord{
			ContactID:     contact.ID,
			EmailType:     domain.NewFollowupEmailType(kind),
			ScheduledDate: sendDate,
			ScheduledTime: cfg.ScheduledSendTime,
			Priority:      priority,
			EventYear:     sentDate.Year,
			EventMonth:    sentDate.Month,
			EventDay:      sentDate.Day,
		}

		if anchor, ok := anniversaryAnchor(contact, today); ok {
			excluded, reason, _ := ruleengine.Excluded(string(contact.Jurisdiction), anchor, sendDate, ruleengine.AnchorBirthday, buffer(cfg, contact.Jurisdiction))
			if excluded {
				rec.Status = domain.StatusSkipped
				rec.SkipReason = reason
				out = append(out, rec)
				continue
			}
		}

		rec.Status = domain.StatusPreScheduled
		out = append(out, rec)
	}
	return out
}
