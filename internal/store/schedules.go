package store

import (
	"context"
	"time"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
)

// ActiveCounts returns, per contact, the number of existing schedules
// in status pre-scheduled/scheduled/sent whose scheduled date falls in
// [today, today+periodDays-1] — the prior-state half of the Frequency
// Limiter's count (spec §4.7); the engine adds this run's own
// candidates on top.
func (s *Store) ActiveCounts(ctx context.Context, today domain.Date, periodDays int) (map[int64]int, error) {
	windowEnd := datekernel.AddDays(today, periodDays-1)

	rows, err := s.db.QueryContext(ctx, `
		SELECT contact_id, COUNT(*)
		FROM email_schedules
		WHERE status IN ('pre-scheduled', 'scheduled', 'sent')
		  AND scheduled_send_date BETWEEN $1 AND $2
		GROUP BY contact_id
	`, today.String(), windowEnd.String())
	if err != nil {
		return nil, wrapStoreErr("load active counts", err)
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var contactID int64
		var count int
		if err := rows.Scan(&contactID, &count); err != nil {
			return nil, wrapStoreErr("scan active count", err)
		}
		out[contactID] = count
	}
	return out, wrapStoreErr("iterate active counts", rows.Err())
}

// FollowupAnchorsSeen returns the set of prior-schedule ids that
// already have a follow-up emitted against them, per the anchor_id
// column threaded through every followup row this engine writes (spec
// §4.5: "do not re-emit if a follow-up for the same anchor already
// exists"). anchor_id is an engine-added column beyond spec §6's
// minimum schema — see DESIGN.md.
func (s *Store) FollowupAnchorsSeen(ctx context.Context) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT anchor_schedule_id FROM email_schedules
		WHERE email_type = 'followup' AND anchor_schedule_id IS NOT NULL
	`)
	if err != nil {
		return nil, wrapStoreErr("load followup anchors", err)
	}
	defer rows.Close()

	out := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapStoreErr("scan followup anchor", err)
		}
		out[id] = true
	}
	return out, wrapStoreErr("iterate followup anchors", rows.Err())
}

// InteractionRecords loads the engagement signal for every sent email
// within lookbackDays of today, keyed by contact, for Follow-up
// Derivation (C5). It joins the sent schedule rows against the
// email_interactions table — a supplement to spec §6's minimum schema,
// since the spec names the classification rule but not where the
// underlying signal is stored (see DESIGN.md).
func (s *Store) InteractionRecords(ctx context.Context, today domain.Date, lookbackDays int) ([]domain.InteractionRecord, error) {
	earliest := datekernel.AddDays(today, -lookbackDays)

	rows, err := s.db.QueryContext(ctx, `
		SELECT es.contact_id, es.id, es.actual_send_datetime,
		       COALESCE(ei.answered_health_quest, false), COALESCE(ei.health_answer_yes, false),
		       COALESCE(ei.clicked_link, false)
		FROM email_schedules es
		LEFT JOIN email_interactions ei ON ei.schedule_id = es.id
		WHERE es.status = 'sent'
		  AND es.actual_send_datetime IS NOT NULL
		  AND es.scheduled_send_date >= $1
	`, earliest.String())
	if err != nil {
		return nil, wrapStoreErr("load interaction records", err)
	}
	defer rows.Close()

	var out []domain.InteractionRecord
	for rows.Next() {
		var (
			contactID, anchorID int64
			sentAt               time.Time
			answeredHQ, hqYes, clicked bool
		)
		if err := rows.Scan(&contactID, &anchorID, &sentAt, &answeredHQ, &hqYes, &clicked); err != nil {
			return nil, wrapStoreErr("scan interaction record", err)
		}
		out = append(out, domain.InteractionRecord{
			ContactID:           contactID,
			AnchorScheduleID:    anchorID,
			SentAt:               sentAt,
			AnsweredHealthQuest: answeredHQ,
			HealthAnswerYes:     hqYes,
			ClickedLink:         clicked,
		})
	}
	return out, wrapStoreErr("iterate interaction records", rows.Err())
}
