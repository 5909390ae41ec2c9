package domain

import "strconv"

// ScheduleStatus is the tagged union of states a schedule record can be
// in. Only StatusPreScheduled and StatusSkipped are ever produced by
// the engine; the remaining variants are set by downstream systems and
// must survive persistence untouched (spec §4.12).
type ScheduleStatus string

const (
	StatusPreScheduled ScheduleStatus = "pre-scheduled"
	StatusSkipped       ScheduleStatus = "skipped"
	StatusScheduled     ScheduleStatus = "scheduled"
	StatusProcessing    ScheduleStatus = "processing"
	StatusSent          ScheduleStatus = "sent"
	StatusFailed        ScheduleStatus = "failed"
)

// IsTerminalForEngine reports whether the engine must never mutate a
// record in this status (spec §4.12, invariant 8).
func (s ScheduleStatus) IsTerminalForEngine() bool {
	switch s {
	case StatusScheduled, StatusProcessing, StatusSent, StatusFailed:
		return true
	default:
		return false
	}
}

// AnniversaryKind is the anniversary sub-variant of EmailType.
type AnniversaryKind string

const (
	AnniversaryBirthday      AnniversaryKind = "birthday"
	AnniversaryEffectiveDate AnniversaryKind = "effective_date"
	AnniversaryPostWindow    AnniversaryKind = "post_window"
)

// FollowupKind is the follow-up sub-variant of EmailType.
type FollowupKind string

const (
	FollowupCold        FollowupKind = "cold"
	FollowupClickedNoHQ FollowupKind = "clicked_no_hq"
	FollowupHQNoYes     FollowupKind = "hq_no_yes"
	FollowupHQWithYes   FollowupKind = "hq_with_yes"
)

// EmailTypeTag discriminates the EmailType tagged union.
type EmailTypeTag string

const (
	EmailTypeAnniversary EmailTypeTag = "anniversary"
	EmailTypeCampaign    EmailTypeTag = "campaign"
	EmailTypeFollowup    EmailTypeTag = "followup"
)

// EmailType is the closed sum described in spec §3: exactly one of
// Anniversary/Campaign/Followup is populated, discriminated by Tag.
// Modelled as a flat struct with a Tag field (not an interface) so
// every pipeline stage switches exhaustively on Tag rather than relying
// on dynamic dispatch (spec §9).
type EmailType struct {
	Tag EmailTypeTag

	Anniversary        AnniversaryKind
	CampaignInstanceID int64
	CampaignTypeName   string
	Followup           FollowupKind
}

// NewAnniversaryEmailType constructs the anniversary variant.
func NewAnniversaryEmailType(kind AnniversaryKind) EmailType {
	return EmailType{Tag: EmailTypeAnniversary, Anniversary: kind}
}

// NewCampaignEmailType constructs the campaign variant.
func NewCampaignEmailType(instanceID int64, typeName string) EmailType {
	return EmailType{Tag: EmailTypeCampaign, CampaignInstanceID: instanceID, CampaignTypeName: typeName}
}

// NewFollowupEmailType constructs the follow-up variant.
func NewFollowupEmailType(kind FollowupKind) EmailType {
	return EmailType{Tag: EmailTypeFollowup, Followup: kind}
}

// ScheduleRecord is the unit the engine produces and persists. The
// uniqueness key is (ContactID, EmailType, ScheduledDate) per spec §3;
// EventYear/Month/Day track the anniversary anchor independently of
// ScheduledDate so the post-window generator and persistence diffing
// can recover the original anchor.
type ScheduleRecord struct {
	ID                 int64
	ContactID          int64
	EmailType          EmailType
	ScheduledDate      Date
	ScheduledTime      string // "HH:MM:SS", default "08:30:00"
	Status             ScheduleStatus
	Priority            int
	CampaignInstanceID *int64
	TemplateID         *string
	SkipReason         string

	EventYear  int
	EventMonth int
	EventDay   int

	RunID string
}

// DefaultScheduledTime is the send time used when an organization does
// not override it (spec §6).
const DefaultScheduledTime = "08:30:00"

// ContentEqual reports whether two records are identical for the
// purposes of the smart-update persistence merge (spec §4.11): it
// compares the mutable content fields only, never audit timestamps or
// run id.
func (r ScheduleRecord) ContentEqual(other ScheduleRecord) bool {
	if r.ScheduledDate != other.ScheduledDate {
		return false
	}
	if r.ScheduledTime != other.ScheduledTime {
		return false
	}
	if r.Status != other.Status {
		return false
	}
	if r.SkipReason != other.SkipReason {
		return false
	}
	if r.Priority != other.Priority {
		return false
	}
	if !templateIDEqual(r.TemplateID, other.TemplateID) {
		return false
	}
	if !campaignInstanceIDEqual(r.CampaignInstanceID, other.CampaignInstanceID) {
		return false
	}
	return true
}

func templateIDEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func campaignInstanceIDEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// UniquenessKey returns the (contact id, email type, anchor date) tuple
// persistence uses to match an incoming candidate against an existing
// row (spec §4.11) — distinct from the table's own unique index on
// (contact_id, email_type, scheduled_send_date), which guards against
// two literal rows landing on the same date. Matching on the anchor
// lets a rerun recognize "the same" anniversary/campaign/followup email
// even when the load balancer has since nudged its scheduled date.
type UniquenessKey struct {
	ContactID int64
	Tag       EmailTypeTag
	Sub       string // Anniversary/Followup kind or campaign instance id, as a string
	EventYear, EventMonth, EventDay int
}

// Key computes the uniqueness key for this record.
func (r ScheduleRecord) Key() UniquenessKey {
	sub := ""
	switch r.EmailType.Tag {
	case EmailTypeAnniversary:
		sub = string(r.EmailType.Anniversary)
	case EmailTypeFollowup:
		sub = string(r.EmailType.Followup)
	case EmailTypeCampaign:
		sub = strconv.FormatInt(r.EmailType.CampaignInstanceID, 10)
	}
	return UniquenessKey{
		ContactID:  r.ContactID,
		Tag:        r.EmailType.Tag,
		Sub:        sub,
		EventYear:  r.EventYear,
		EventMonth: r.EventMonth,
		EventDay:   r.EventDay,
	}
}
