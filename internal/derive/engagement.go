package derive

import "github.com/ignite/scheduler-engine/internal/domain"

// ClassifyEngagement maps an interaction record to the follow-up kind
// and priority it drives (spec §4.5), factored out of Followup so the
// classification rule can be tested independently of lookback/store
// filtering.
func ClassifyEngagement(ir domain.InteractionRecord) (domain.FollowupKind, int) {
	switch {
	case ir.AnsweredHealthQuest && ir.HealthAnswerYes:
		return domain.FollowupHQWithYes, 60
	case ir.AnsweredHealthQuest:
		return domain.FollowupHQNoYes, 70
	case ir.ClickedLink:
		return domain.FollowupClickedNoHQ, 80
	default:
		return domain.FollowupCold, 90
	}
}
