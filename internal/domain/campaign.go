package domain

import (
	"strings"
	"time"
)

// CampaignType is a reusable campaign definition: priority, offsets and
// flags shared by every instance of that type. AEP (Annual Enrollment
// Period) is one row here, not an anniversary variant — see
// EmailTypeCampaign.
type CampaignType struct {
	Name                    string
	Priority                int
	DaysBeforeEvent         int
	RespectExclusionWindows bool
	EnableFollowups         bool
	SpreadEvenly            bool
	SkipFailedUnderwriting  bool
	Active                  bool
	TargetAllContacts       bool
}

// IsAEP reports whether this campaign type is the Annual Enrollment
// Period campaign, which always overrides the failed-underwriting
// exclusion (spec §4.4).
func (t CampaignType) IsAEP() bool { return t.Name == "aep" }

// LifecycleTransition records one activation/deactivation decided by
// the lifecycle manager (C6), appended to CampaignInstance.Transitions
// and stored as JSON in the campaign_instances metadata column.
type LifecycleTransition struct {
	At       time.Time `json:"at"`
	Activated bool     `json:"activated"`
	Reason   string    `json:"reason"`
}

// CampaignInstance is one scheduled run of a CampaignType against a
// target population and date window.
type CampaignInstance struct {
	ID              int64
	CampaignType    string // CampaignType.Name
	InstanceName    string
	EmailTemplate   string
	SMSTemplate     string
	ActiveStartDate Date
	ActiveEndDate   Date
	SpreadStartDate *Date
	SpreadEndDate   *Date
	TargetStates    string // "ALL" or CSV
	TargetCarriers  string // "ALL" or CSV
	Active          bool
	Transitions     []LifecycleTransition
}

// matchesCSVOrAll reports whether a comma-separated target list
// (or "ALL") matches the given value.
func matchesCSVOrAll(target string, value string) bool {
	if target == "" || target == "ALL" {
		return true
	}
	for _, part := range strings.Split(target, ",") {
		if strings.TrimSpace(part) == value {
			return true
		}
	}
	return false
}

// MatchesTargetStates reports whether the instance's state targeting
// includes the given jurisdiction.
func (ci CampaignInstance) MatchesTargetStates(jurisdiction string) bool {
	return matchesCSVOrAll(ci.TargetStates, jurisdiction)
}

// MatchesTargetCarriers reports whether the instance's carrier
// targeting includes the given carrier.
func (ci CampaignInstance) MatchesTargetCarriers(carrier string) bool {
	return matchesCSVOrAll(ci.TargetCarriers, carrier)
}
