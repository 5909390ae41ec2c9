package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
)

// PersistResult reports what the smart-update merge actually did,
// folded into the run summary (spec §7).
type PersistResult struct {
	Inserted       int
	Updated        int
	Unchanged      int
	OrphansDeleted int
}

type existingRow struct {
	id  int64
	rec domain.ScheduleRecord
}

// Persist runs the content-aware merge described in spec §4.11 inside
// a single transaction: new candidates are inserted, changed ones are
// updated (preserving actual_send_datetime), unchanged ones and rows
// already in a downstream status (scheduled/processing/sent/failed)
// are left alone and counted as unchanged, and orphaned pre-scheduled/skipped rows from a prior run that
// this run no longer produced are deleted. chunkSize bounds how many
// rows go into a single COPY/exec batch, avoiding command-size limits
// on a run of up to three million candidates (grounded on the
// bulk-insert style this module's COPY writer uses).
func (s *Store) Persist(ctx context.Context, runID domain.RunID, candidates []domain.ScheduleRecord, chunkSize int) (*PersistResult, error) {
	if chunkSize <= 0 {
		chunkSize = 500
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr("begin persist transaction", err)
	}
	defer tx.Rollback()

	existing, err := loadExisting(ctx, tx)
	if err != nil {
		return nil, err
	}

	result := &PersistResult{}
	touched := make(map[int64]bool, len(existing))
	now := time.Now().UTC()

	var toInsert []domain.ScheduleRecord
	type update struct {
		id  int64
		rec domain.ScheduleRecord
	}
	var toUpdate []update

	for _, cand := range candidates {
		key := cand.Key()
		row, ok := existing[key]
		if !ok {
			toInsert = append(toInsert, cand)
			continue
		}
		touched[row.id] = true
		if row.rec.Status.IsTerminalForEngine() || row.rec.ContentEqual(cand) {
			result.Unchanged++
			continue
		}
		toUpdate = append(toUpdate, update{id: row.id, rec: cand})
	}

	for key, row := range existing {
		_ = key
		if touched[row.id] {
			continue
		}
		if row.rec.Status == domain.StatusPreScheduled || row.rec.Status == domain.StatusSkipped {
			if err := deleteOrphan(ctx, tx, row.id); err != nil {
				return nil, err
			}
			result.OrphansDeleted++
		}
	}

	for _, chunk := range chunkRecords(toInsert, chunkSize) {
		if err := insertChunk(ctx, tx, runID, now, chunk); err != nil {
			return nil, err
		}
		result.Inserted += len(chunk)
	}

	if err := upsertContactCampaigns(ctx, tx, candidates); err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE email_schedules SET
			scheduled_send_date = $1, scheduled_send_time = $2, status = $3,
			skip_reason = $4, priority = $5, template_id = $6, campaign_instance_id = $7,
			batch_id = $8, updated_at = $9
		WHERE id = $10
	`)
	if err != nil {
		return nil, wrapStoreErr("prepare update", err)
	}
	defer stmt.Close()

	for _, u := range toUpdate {
		rec := u.rec
		_, err := stmt.ExecContext(ctx,
			rec.ScheduledDate.String(), rec.ScheduledTime, string(rec.Status),
			nullableString(skipReasonPtr(rec)), rec.Priority, nullableString(rec.TemplateID),
			nullableInt64(rec.CampaignInstanceID), string(runID), now, u.id,
		)
		if err != nil {
			return nil, wrapStoreErr("update schedule", err)
		}
		result.Updated++
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapStoreErr("commit persist transaction", err)
	}
	return result, nil
}

func skipReasonPtr(rec domain.ScheduleRecord) *string {
	if rec.SkipReason == "" {
		return nil
	}
	s := rec.SkipReason
	return &s
}

func loadExisting(ctx context.Context, tx *sql.Tx) (map[domain.UniquenessKey]existingRow, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, contact_id, email_type, scheduled_send_date, scheduled_send_time, status,
		       COALESCE(skip_reason, ''), priority, template_id, campaign_instance_id,
		       event_year, event_month, event_day
		FROM email_schedules
	`)
	if err != nil {
		return nil, wrapStoreErr("load existing schedules", err)
	}
	defer rows.Close()

	out := make(map[domain.UniquenessKey]existingRow)
	for rows.Next() {
		var (
			id                           int64
			contactID                    int64
			emailTypeRaw                 string
			scheduledDateRaw, scheduledTime, status, skipReason string
			priority                     int
			templateID                   sql.NullString
			campaignInstanceID           sql.NullInt64
			eventYear, eventMonth, eventDay int
		)
		if err := rows.Scan(&id, &contactID, &emailTypeRaw, &scheduledDateRaw, &scheduledTime, &status,
			&skipReason, &priority, &templateID, &campaignInstanceID, &eventYear, &eventMonth, &eventDay); err != nil {
			return nil, wrapStoreErr("scan existing schedule", err)
		}

		emailType, err := parseEmailType(emailTypeRaw)
		if err != nil {
			continue // unrecognized row shape; never matched, left as an orphan candidate
		}
		scheduledDate, err := datekernel.Parse(scheduledDateRaw)
		if err != nil {
			continue
		}

		rec := domain.ScheduleRecord{
			ID:            id,
			ContactID:     contactID,
			EmailType:     emailType,
			ScheduledDate: scheduledDate,
			ScheduledTime: scheduledTime,
			Status:        domain.ScheduleStatus(status),
			Priority:      priority,
			SkipReason:    skipReason,
			EventYear:     eventYear,
			EventMonth:    eventMonth,
			EventDay:      eventDay,
		}
		if templateID.Valid {
			v := templateID.String
			rec.TemplateID = &v
		}
		if campaignInstanceID.Valid {
			v := campaignInstanceID.Int64
			rec.CampaignInstanceID = &v
		}

		out[rec.Key()] = existingRow{id: id, rec: rec}
	}
	return out, wrapStoreErr("iterate existing schedules", rows.Err())
}

// upsertContactCampaigns keeps the contact_campaigns targeting table
// (spec §6) in sync with this run's campaign candidates. The engine's
// own targeting decision (internal/derive.Targets) is computed
// directly from contact attributes per spec §4.4's literal rule; this
// table exists purely as an audit of which contacts were targeted by
// which instance, not as an input to derivation.
func upsertContactCampaigns(ctx context.Context, tx *sql.Tx, records []domain.ScheduleRecord) error {
	for _, rec := range records {
		if rec.EmailType.Tag != domain.EmailTypeCampaign || rec.CampaignInstanceID == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO contact_campaigns (contact_id, campaign_instance_id, status)
			VALUES ($1, $2, $3)
			ON CONFLICT (contact_id, campaign_instance_id) DO UPDATE SET status = EXCLUDED.status
		`, rec.ContactID, *rec.CampaignInstanceID, string(rec.Status)); err != nil {
			return wrapStoreErr("upsert contact campaign", err)
		}
	}
	return nil
}

func deleteOrphan(ctx context.Context, tx *sql.Tx, id int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM email_schedules WHERE id = $1`, id)
	return wrapStoreErr("delete orphan schedule", err)
}

func insertChunk(ctx context.Context, tx *sql.Tx, runID domain.RunID, now time.Time, chunk []domain.ScheduleRecord) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"email_schedules",
		"contact_id", "email_type", "scheduled_send_date", "scheduled_send_time", "status",
		"skip_reason", "priority", "template_id", "campaign_instance_id",
		"event_year", "event_month", "event_day", "batch_id", "anchor_schedule_id",
		"created_at", "updated_at",
	))
	if err != nil {
		return wrapStoreErr("prepare insert copy", err)
	}

	for _, rec := range chunk {
		_, err := stmt.ExecContext(ctx,
			rec.ContactID, emailTypeDBString(rec.EmailType), rec.ScheduledDate.String(), rec.ScheduledTime,
			string(rec.Status), skipReasonPtr(rec), rec.Priority, rec.TemplateID, rec.CampaignInstanceID,
			rec.EventYear, rec.EventMonth, rec.EventDay, string(runID), nil,
			now, now,
		)
		if err != nil {
			stmt.Close()
			return wrapStoreErr("insert schedule", err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return wrapStoreErr("flush insert copy", err)
	}
	return wrapStoreErr("close insert copy", stmt.Close())
}

func chunkRecords(records []domain.ScheduleRecord, size int) [][]domain.ScheduleRecord {
	if len(records) == 0 {
		return nil
	}
	var chunks [][]domain.ScheduleRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

// emailTypeDBString / parseEmailType encode the EmailType tagged union
// as a single "tag:sub" TEXT column (spec §6 specifies email_type as
// TEXT without prescribing its exact encoding).
func emailTypeDBString(et domain.EmailType) string {
	switch et.Tag {
	case domain.EmailTypeAnniversary:
		return fmt.Sprintf("anniversary:%s", et.Anniversary)
	case domain.EmailTypeFollowup:
		return fmt.Sprintf("followup:%s", et.Followup)
	case domain.EmailTypeCampaign:
		return fmt.Sprintf("campaign:%s:%s", et.CampaignTypeName, strconv.FormatInt(et.CampaignInstanceID, 10))
	default:
		return "unknown"
	}
}

func parseEmailType(raw string) (domain.EmailType, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 {
		return domain.EmailType{}, fmt.Errorf("malformed email_type %q", raw)
	}
	switch parts[0] {
	case "anniversary":
		return domain.NewAnniversaryEmailType(domain.AnniversaryKind(parts[1])), nil
	case "followup":
		return domain.NewFollowupEmailType(domain.FollowupKind(parts[1])), nil
	case "campaign":
		if len(parts) < 3 {
			return domain.EmailType{}, fmt.Errorf("malformed campaign email_type %q", raw)
		}
		instanceID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return domain.EmailType{}, fmt.Errorf("malformed campaign instance id in %q: %w", raw, err)
		}
		return domain.NewCampaignEmailType(instanceID, parts[1]), nil
	default:
		return domain.EmailType{}, fmt.Errorf("unknown email_type tag %q", parts[0])
	}
}
