package derive

import (
	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
	"github.com/ignite/scheduler-engine/internal/ruleengine"
)

const (
	priorityBirthday      = 10
	priorityEffectiveDate = 20
)

// Anniversary produces the birthday and effective-date candidates for
// a single contact, per spec §4.3. It never returns an error for data
// the domain layer already validated; a malformed (contact, today)
// pair is the caller's responsibility to have filtered via
// Contact.EligibleForAnniversary.
//
// Post-window makeups are not generated here: pipeline.GeneratePostWindow
// (C9) owns that entirely, scanning the merged candidate set for
// window-skipped records after C7/C8 have run. Generating a makeup
// here too, for the same anchor C9 would independently pick up from
// this candidate's own skip, produced two identical
// anniversary:post_window rows for the same contact and send date —
// the exact same row, since both stages derive it from the same
// (jurisdiction, anchor, today) triple.
func Anniversary(contact domain.Contact, today domain.Date, cfg domain.OrganizationConfig) []domain.ScheduleRecord {
	var out []domain.ScheduleRecord

	if contact.BirthDate != nil {
		out = append(out, birthdayCandidate(contact, *contact.BirthDate, today, cfg))
	}
	if contact.EffectiveDate != nil {
		out = append(out, effectiveDateCandidate(contact, *contact.EffectiveDate, today, cfg))
	}
	return out
}

func buffer(cfg domain.OrganizationConfig, jurisdiction domain.Jurisdiction) int {
	return cfg.PreBufferFor(string(jurisdiction))
}

// clampToToday pulls a send date forward to today when the days-before
// offset would otherwise have put it in the past — NextAnniversary only
// guarantees the anchor itself is on or after today, not anchor minus
// the lead time (spec §8 invariant 1: scheduled_send_date >= today).
func clampToToday(sendDate, today domain.Date) domain.Date {
	if sendDate.Before(today) {
		return today
	}
	return sendDate
}

func birthdayCandidate(contact domain.Contact, birthDate, today domain.Date, cfg domain.OrganizationConfig) domain.ScheduleRecord {
	anchor := datekernel.NextAnniversary(today, birthDate)
	sendDate := clampToToday(datekernel.AddDays(anchor, -cfg.BirthdayDaysBefore), today)

	rec := domain.ScheduleRecord{
		ContactID:     contact.ID,
		EmailType:     domain.NewAnniversaryEmailType(domain.AnniversaryBirthday),
		ScheduledDate: sendDate,
		ScheduledTime: cfg.ScheduledSendTime,
		Priority:      priorityBirthday,
		EventYear:     anchor.Year,
		EventMonth:    anchor.Month,
		EventDay:      anchor.Day,
	}

	excluded, reason, _ := ruleengine.Excluded(string(contact.Jurisdiction), anchor, sendDate, ruleengine.AnchorBirthday, buffer(cfg, contact.Jurisdiction))
	if excluded {
		rec.Status = domain.StatusSkipped
		rec.SkipReason = reason
	} else {
		rec.Status = domain.StatusPreScheduled
	}
	return rec
}

func effectiveDateCandidate(contact domain.Contact, effectiveDate, today domain.Date, cfg domain.OrganizationConfig) domain.ScheduleRecord {
	anchor := datekernel.NextAnniversary(today, effectiveDate)
	sendDate := clampToToday(datekernel.AddDays(anchor, -cfg.EffectiveDateDaysBefore), today)

	rec := domain.ScheduleRecord{
		ContactID:     contact.ID,
		EmailType:     domain.NewAnniversaryEmailType(domain.AnniversaryEffectiveDate),
		ScheduledDate: sendDate,
		ScheduledTime: cfg.ScheduledSendTime,
		Priority:      priorityEffectiveDate,
		EventYear:     anchor.Year,
		EventMonth:    anchor.Month,
		EventDay:      anchor.Day,
	}

	if datekernel.MonthsSince(effectiveDate, today) < cfg.EffectiveDateFirstEmailMonths {
		rec.Status = domain.StatusSkipped
		rec.SkipReason = "below minimum elapsed months"
		return rec
	}

	excluded, reason, _ := ruleengine.Excluded(string(contact.Jurisdiction), anchor, sendDate, ruleengine.AnchorEffectiveDate, buffer(cfg, contact.Jurisdiction))
	if excluded {
		rec.Status = domain.StatusSkipped
		rec.SkipReason = reason
	} else {
		rec.Status = domain.StatusPreScheduled
	}
	return rec
}
