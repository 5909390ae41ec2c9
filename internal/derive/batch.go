package derive

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ignite/scheduler-engine/internal/domain"
)

// DefaultBatchSize is the contact-batch size used when the
// organization does not override it (spec §5).
const DefaultBatchSize = 10_000

// CampaignTarget pairs a campaign instance with its resolved type, the
// shape C4 needs once the lifecycle manager has filtered to active
// instances.
type CampaignTarget struct {
	Type     domain.CampaignType
	Instance domain.CampaignInstance
}

// Inputs bundles everything C3-C5 need for one invocation of Batch.
// Contacts is partitioned into BatchSize-sized slices (DefaultBatchSize
// when BatchSize is zero or negative) and derived in parallel; Campaigns and interaction lookups are read-only
// and shared across goroutines (derivation never mutates them).
type Inputs struct {
	Contacts      []domain.Contact
	Today         domain.Date
	Config        domain.OrganizationConfig
	Campaigns     []CampaignTarget
	Interactions  func(contactID int64) []domain.InteractionRecord
	FollowupSeen  Exists
	BatchSize     int
}

// Batch runs anniversary, campaign, and follow-up derivation across
// all contacts, partitioned into worker-pool batches (spec §5: "contact
// batches are processed in parallel across worker threads, each
// producing a local list of candidates"). It returns the merged
// candidate list in no particular order; pipeline.Run sorts the final
// set per spec §5's ordering guarantee after C10 has run.
func Batch(ctx context.Context, in Inputs) ([]domain.ScheduleRecord, error) {
	batchSize := in.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	batches := partition(in.Contacts, batchSize)
	results := make([][]domain.ScheduleRecord, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = deriveBatch(batch, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []domain.ScheduleRecord
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func deriveBatch(contacts []domain.Contact, in Inputs) []domain.ScheduleRecord {
	var out []domain.ScheduleRecord
	for _, c := range contacts {
		if c.EligibleForAnniversary() {
			out = append(out, Anniversary(c, in.Today, in.Config)...)
		}
		for _, ct := range in.Campaigns {
			if !ct.Instance.Active {
				continue
			}
			if rec, ok := Campaign(c, ct.Type, ct.Instance, in.Today, in.Config); ok {
				out = append(out, rec)
			}
		}
		if in.Interactions != nil {
			interactions := in.Interactions(c.ID)
			if len(interactions) > 0 {
				out = append(out, Followup(c, interactions, in.Today, in.Config, in.FollowupSeen)...)
			}
		}
	}
	return out
}

func partition(contacts []domain.Contact, size int) [][]domain.Contact {
	if len(contacts) == 0 {
		return nil
	}
	var batches [][]domain.Contact
	for start := 0; start < len(contacts); start += size {
		end := start + size
		if end > len(contacts) {
			end = len(contacts)
		}
		batches = append(batches, contacts[start:end])
	}
	return batches
}
