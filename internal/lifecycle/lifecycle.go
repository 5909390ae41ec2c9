// Package lifecycle implements the campaign-instance activation state
// machine that runs before derivation on every invocation (spec §4.6,
// component C6).
package lifecycle

import (
	"time"

	"github.com/ignite/scheduler-engine/internal/domain"
)

// Apply walks the activation rule for one campaign instance against
// today and flips Active when a boundary has been crossed, appending a
// LifecycleTransition to the instance's audit trail. It reports
// whether a transition occurred.
//
//   - today < ActiveStartDate and Active  -> deactivate
//   - ActiveStartDate <= today <= ActiveEndDate and !Active -> activate
//   - today > ActiveEndDate -> deactivate
func Apply(instance *domain.CampaignInstance, today domain.Date, now time.Time) bool {
	switch {
	case today.Before(instance.ActiveStartDate):
		return deactivate(instance, now, "today precedes active_start_date")
	case !today.Before(instance.ActiveStartDate) && !today.After(instance.ActiveEndDate):
		return activate(instance, now, "today within active window")
	case today.After(instance.ActiveEndDate):
		return deactivate(instance, now, "today follows active_end_date")
	default:
		return false
	}
}

func activate(instance *domain.CampaignInstance, now time.Time, reason string) bool {
	if instance.Active {
		return false
	}
	instance.Active = true
	instance.Transitions = append(instance.Transitions, domain.LifecycleTransition{At: now, Activated: true, Reason: reason})
	return true
}

func deactivate(instance *domain.CampaignInstance, now time.Time, reason string) bool {
	if !instance.Active {
		return false
	}
	instance.Active = false
	instance.Transitions = append(instance.Transitions, domain.LifecycleTransition{At: now, Activated: false, Reason: reason})
	return true
}

// ApplyAll runs Apply across every instance in place and returns the
// count that transitioned.
func ApplyAll(instances []*domain.CampaignInstance, today domain.Date, now time.Time) int {
	changed := 0
	for _, instance := range instances {
		if Apply(instance, today, now) {
			changed++
		}
	}
	return changed
}
