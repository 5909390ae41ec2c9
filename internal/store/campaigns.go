package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
)

// LoadCampaignTypes reads the full campaign_types catalog (spec §6).
func (s *Store) LoadCampaignTypes(ctx context.Context) (map[string]domain.CampaignType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, priority, days_before_event, respect_exclusion_windows, enable_followups,
		       target_all_contacts, spread_evenly, skip_failed_underwriting, active
		FROM campaign_types
	`)
	if err != nil {
		return nil, wrapStoreErr("load campaign types", err)
	}
	defer rows.Close()

	out := make(map[string]domain.CampaignType)
	for rows.Next() {
		var t domain.CampaignType
		if err := rows.Scan(&t.Name, &t.Priority, &t.DaysBeforeEvent, &t.RespectExclusionWindows,
			&t.EnableFollowups, &t.TargetAllContacts, &t.SpreadEvenly, &t.SkipFailedUnderwriting, &t.Active); err != nil {
			return nil, wrapStoreErr("scan campaign type", err)
		}
		out[t.Name] = t
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("iterate campaign types", err)
	}
	return out, nil
}

// LoadCampaignInstances reads every campaign instance regardless of
// its current active flag — the Lifecycle Manager (C6) needs the full
// set to decide which ones must flip before derivation runs.
func (s *Store) LoadCampaignInstances(ctx context.Context) ([]domain.CampaignInstance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, campaign_type, instance_name, email_template, sms_template,
		       active_start_date, active_end_date, spread_start_date, spread_end_date,
		       target_states, target_carriers, active, metadata
		FROM campaign_instances
	`)
	if err != nil {
		return nil, wrapStoreErr("load campaign instances", err)
	}
	defer rows.Close()

	var out []domain.CampaignInstance
	for rows.Next() {
		var (
			ci                               domain.CampaignInstance
			startRaw, endRaw                 string
			spreadStartRaw, spreadEndRaw     sql.NullString
			metadataJSON                     sql.NullString
		)
		if err := rows.Scan(&ci.ID, &ci.CampaignType, &ci.InstanceName, &ci.EmailTemplate, &ci.SMSTemplate,
			&startRaw, &endRaw, &spreadStartRaw, &spreadEndRaw,
			&ci.TargetStates, &ci.TargetCarriers, &ci.Active, &metadataJSON); err != nil {
			return nil, wrapStoreErr("scan campaign instance", err)
		}

		start, err := datekernel.Parse(startRaw)
		if err != nil {
			return nil, wrapStoreErr("parse active_start_date", err)
		}
		end, err := datekernel.Parse(endRaw)
		if err != nil {
			return nil, wrapStoreErr("parse active_end_date", err)
		}
		ci.ActiveStartDate, ci.ActiveEndDate = start, end

		if spreadStartRaw.Valid && spreadStartRaw.String != "" {
			d, err := datekernel.Parse(spreadStartRaw.String)
			if err != nil {
				return nil, wrapStoreErr("parse spread_start_date", err)
			}
			ci.SpreadStartDate = &d
		}
		if spreadEndRaw.Valid && spreadEndRaw.String != "" {
			d, err := datekernel.Parse(spreadEndRaw.String)
			if err != nil {
				return nil, wrapStoreErr("parse spread_end_date", err)
			}
			ci.SpreadEndDate = &d
		}

		if metadataJSON.Valid && metadataJSON.String != "" {
			var meta struct {
				Transitions []domain.LifecycleTransition `json:"transitions"`
			}
			if err := json.Unmarshal([]byte(metadataJSON.String), &meta); err == nil {
				ci.Transitions = meta.Transitions
			}
		}

		out = append(out, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("iterate campaign instances", err)
	}
	return out, nil
}

// SaveLifecycleState persists an instance's active flag and
// transition audit trail after the Lifecycle Manager has run. Called
// only for instances ApplyAll actually flipped.
func (s *Store) SaveLifecycleState(ctx context.Context, instance domain.CampaignInstance) error {
	meta, err := json.Marshal(struct {
		Transitions []domain.LifecycleTransition `json:"transitions"`
	}{Transitions: instance.Transitions})
	if err != nil {
		return wrapStoreErr("marshal lifecycle metadata", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE campaign_instances SET active = $1, metadata = $2 WHERE id = $3
	`, instance.Active, string(meta), instance.ID)
	return wrapStoreErr("save lifecycle state", err)
}
