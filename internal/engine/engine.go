package engine

import (
	"context"
	"time"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/derive"
	"github.com/ignite/scheduler-engine/internal/domain"
	"github.com/ignite/scheduler-engine/internal/lifecycle"
	"github.com/ignite/scheduler-engine/internal/pipeline"
	"github.com/ignite/scheduler-engine/internal/pkg/logger"
	"github.com/ignite/scheduler-engine/internal/store"
)

// Runner loads state from the store, runs every derivation/pipeline
// stage, and persists the result. Clock is overridable so a run can be
// pinned to a historical date for replay or testing.
type Runner struct {
	Store *store.Store
	Clock datekernel.Clock

	// ChunkSize bounds Persist's per-batch insert size; zero uses the
	// store package's own default.
	ChunkSize int
	// BatchSize bounds derive.Batch's per-goroutine contact count; zero
	// uses derive.DefaultBatchSize.
	BatchSize int
}

// NewRunner builds a Runner against an open store, defaulting Clock to
// the system clock.
func NewRunner(s *store.Store) *Runner {
	return &Runner{Store: s, Clock: datekernel.SystemClock{}}
}

// Run executes one full pass: C1 supplies "today" via r.Clock, C2-C10
// derive and resolve the candidate set, and C11 persists it. The
// returned RunSummary is populated regardless of whether the run
// aborted partway — callers should check Aborted before trusting
// Inserted/Updated/etc.
func (r *Runner) Run(ctx context.Context, orgID string) (*domain.RunSummary, error) {
	runID := domain.RunID(newRunID())
	startedAt := time.Now().UTC()
	summary := domain.NewRunSummary(runID, orgID, startedAt)

	cfg, err := r.Store.LoadOrganizationConfig(ctx, orgID)
	if err != nil {
		summary.Aborted = true
		summary.AbortReason = err.Error()
		return summary.Finish(time.Now().UTC()), err
	}

	contacts, failedContacts, err := r.Store.LoadContacts(ctx)
	if err != nil {
		summary.Aborted = true
		summary.AbortReason = err.Error()
		return summary.Finish(time.Now().UTC()), err
	}
	summary.FailedContacts = failedContacts
	summary.ContactsProcessed = len(contacts)
	cfg.TotalContacts = len(contacts)
	cfg = cfg.Defaults()

	jurisdictionOf := buildJurisdictionIndex(contacts)
	interactionsByContact, err := r.loadInteractions(ctx, cfg)
	if err != nil {
		summary.Aborted = true
		summary.AbortReason = err.Error()
		return summary.Finish(time.Now().UTC()), err
	}

	followupSeen, err := r.Store.FollowupAnchorsSeen(ctx)
	if err != nil {
		summary.Aborted = true
		summary.AbortReason = err.Error()
		return summary.Finish(time.Now().UTC()), err
	}

	today := r.Clock.Today()

	campaignTargets, err := r.runLifecycle(ctx, today)
	if err != nil {
		summary.Aborted = true
		summary.AbortReason = err.Error()
		return summary.Finish(time.Now().UTC()), err
	}

	candidates, err := derive.Batch(ctx, derive.Inputs{
		Contacts:  contacts,
		Today:     today,
		Config:    cfg,
		Campaigns: campaignTargets,
		Interactions: func(contactID int64) []domain.InteractionRecord {
			return interactionsByContact[contactID]
		},
		FollowupSeen: func(anchorID int64) bool { return followupSeen[anchorID] },
		BatchSize:    r.BatchSize,
	})
	if err != nil {
		summary.Aborted = true
		summary.AbortReason = err.Error()
		return summary.Finish(time.Now().UTC()), err
	}

	priorActive, err := r.Store.ActiveCounts(ctx, today, cfg.PeriodDays)
	if err != nil {
		summary.Aborted = true
		summary.AbortReason = err.Error()
		return summary.Finish(time.Now().UTC()), err
	}

	resolved := pipeline.Run(candidates, today,
		func(contactID int64) int { return priorActive[contactID] },
		func(contactID int64) domain.Jurisdiction { return jurisdictionOf[contactID] },
		cfg,
	)
	for i := range resolved {
		resolved[i].RunID = string(runID)
		summary.Tally(resolved[i])
	}

	result, err := r.Store.Persist(ctx, runID, resolved, r.ChunkSize)
	if err != nil {
		summary.Aborted = true
		summary.AbortReason = err.Error()
		return summary.Finish(time.Now().UTC()), err
	}
	summary.Inserted = result.Inserted
	summary.Updated = result.Updated
	summary.Unchanged = result.Unchanged
	summary.OrphansDeleted = result.OrphansDeleted

	logger.Info("run complete",
		"run_id", string(runID), "org_id", orgID,
		"contacts", len(contacts), "candidates", len(resolved),
		"inserted", result.Inserted, "updated", result.Updated,
		"unchanged", result.Unchanged, "orphans_deleted", result.OrphansDeleted,
	)

	return summary.Finish(time.Now().UTC()), nil
}

// runLifecycle loads every campaign instance, flips active flags per
// C6, persists the ones that changed, and returns the targets C4
// should derive against — active instances only.
func (r *Runner) runLifecycle(ctx context.Context, today domain.Date) ([]derive.CampaignTarget, error) {
	types, err := r.Store.LoadCampaignTypes(ctx)
	if err != nil {
		return nil, err
	}
	instances, err := r.Store.LoadCampaignInstances(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	changed := make([]bool, len(instances))
	for i := range instances {
		changed[i] = lifecycle.Apply(&instances[i], today, now)
	}

	var targets []derive.CampaignTarget
	for _, inst := range instances {
		ctype, ok := types[inst.CampaignType]
		if !ok || !ctype.Active || !inst.Active {
			continue
		}
		targets = append(targets, derive.CampaignTarget{Type: ctype, Instance: inst})
	}

	for i := range instances {
		if !changed[i] {
			continue
		}
		if err := r.Store.SaveLifecycleState(ctx, instances[i]); err != nil {
			return nil, err
		}
	}
	return targets, nil
}

func (r *Runner) loadInteractions(ctx context.Context, cfg domain.OrganizationConfig) (map[int64][]domain.InteractionRecord, error) {
	records, err := r.Store.InteractionRecords(ctx, r.Clock.Today(), cfg.FollowupLookbackDays)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]domain.InteractionRecord)
	for _, rec := range records {
		out[rec.ContactID] = append(out[rec.ContactID], rec)
	}
	return out, nil
}

func buildJurisdictionIndex(contacts []domain.Contact) map[int64]domain.Jurisdiction {
	out := make(map[int64]domain.Jurisdiction, len(contacts))
	for _, c := range contacts {
		out[c.ID] = c.Jurisdiction
	}
	return out
}
