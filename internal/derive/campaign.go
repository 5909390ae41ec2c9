package derive

import (
	"strconv"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
	"github.com/ignite/scheduler-engine/internal/pkg/dhash"
	"github.com/ignite/scheduler-engine/internal/ruleengine"
)

// Targets reports whether a contact matches a campaign instance's
// targeting rules (spec §4.4: universal flag, ZIP presence, target
// states and carriers), without computing a date. The
// failed-underwriting exclusion is applied by Campaign, not here. Campaign exposes this separately from the
// date/skip computation so the caller can filter a contact population
// once before fanning out to the more expensive Campaign call.
func Targets(contact domain.Contact, ctype domain.CampaignType, instance domain.CampaignInstance, cfg domain.OrganizationConfig) bool {
	if !ctype.TargetAllContacts {
		if contact.ZIP == "" {
			return false
		}
		if !instance.MatchesTargetStates(string(contact.Jurisdiction)) {
			return false
		}
		if !instance.MatchesTargetCarriers(contact.Carrier) {
			return false
		}
		return true
	}
	if contact.ZIP == "" && !cfg.SendWithoutZipcodeForUniversal {
		return false
	}
	return true
}

// Campaign computes the candidate schedule for one (contact, campaign
// instance) pair that Targets has already approved, per spec §4.4. It
// returns ok=false only when called on a non-matching pair (a caller
// bug, since Targets should have been checked first).
func Campaign(contact domain.Contact, ctype domain.CampaignType, instance domain.CampaignInstance, today domain.Date, cfg domain.OrganizationConfig) (domain.ScheduleRecord, bool) {
	if !Targets(contact, ctype, instance, cfg) {
		return domain.ScheduleRecord{}, false
	}

	sendDate := campaignDate(contact, ctype, instance)
	instanceID := instance.ID

	rec := domain.ScheduleRecord{
		ContactID:          contact.ID,
		EmailType:          domain.NewCampaignEmailType(instanceID, ctype.Name),
		ScheduledDate:       sendDate,
		ScheduledTime:       cfg.ScheduledSendTime,
		Priority:            ctype.Priority,
		CampaignInstanceID: &instanceID,
		EventYear:           sendDate.Year,
		EventMonth:          sendDate.Month,
		EventDay:            sendDate.Day,
	}

	failedUnderwriting := (ctype.SkipFailedUnderwriting || cfg.ExcludeFailedUnderwritingGlobal) && contact.FailedUnderwriting && !ctype.IsAEP()
	if failedUnderwriting {
		rec.Status = domain.StatusSkipped
		rec.SkipReason = "failed underwriting"
		return rec, true
	}

	if ctype.RespectExclusionWindows {
		if anchor, ok := anniversaryAnchor(contact, today); ok {
			excluded, reason, _ := ruleengine.Excluded(string(contact.Jurisdiction), anchor, sendDate, ruleengine.AnchorBirthday, buffer(cfg, contact.Jurisdiction))
			if excluded {
				rec.Status = domain.StatusSkipped
				rec.SkipReason = reason
				return rec, true
			}
		}
	}

	rec.Status = domain.StatusPreScheduled
	return rec, true
}

// campaignDate computes the fixed or spread-evenly send date (spec
// §4.4). Spread-evenly hashes (contact id, instance id) through the
// shared deterministic-hash helper so reruns place the same contact on
// the same spread date.
func campaignDate(contact domain.Contact, ctype domain.CampaignType, instance domain.CampaignInstance) domain.Date {
	if !ctype.SpreadEvenly || instance.SpreadStartDate == nil || instance.SpreadEndDate == nil {
		return datekernel.AddDays(instance.ActiveStartDate, -ctype.DaysBeforeEvent)
	}
	start, end := *instance.SpreadStartDate, *instance.SpreadEndDate
	span := uint64(datekernel.DiffDays(start, end) + 1)
	if span == 0 {
		return start
	}
	offset := dhash.Mod(span, strconv.FormatInt(contact.ID, 10), strconv.FormatInt(instance.ID, 10))
	return datekernel.AddDays(start, int(offset))
}

// anniversaryAnchor returns the contact's birthday anchor if present,
// else their effective-date anchor, for campaigns that opt into
// exclusion-window checks despite having no anniversary event of their
// own — the window is evaluated around whichever personal anchor the
// contact has (spec §4.4 does not name an anchor for this case).
func anniversaryAnchor(contact domain.Contact, today domain.Date) (domain.Date, bool) {
	if contact.BirthDate != nil {
		return datekernel.NextAnniversary(today, *contact.BirthDate), true
	}
	if contact.EffectiveDate != nil {
		return datekernel.NextAnniversary(today, *contact.EffectiveDate), true
	}
	return domain.Date{}, false
}
