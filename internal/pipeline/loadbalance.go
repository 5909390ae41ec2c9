package pipeline

import (
	"sort"
	"strconv"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
	"github.com/ignite/scheduler-engine/internal/pkg/dhash"
)

const skipReasonDailyCapExceeded = "daily cap exceeded"

// SmoothEffectiveDate is Load Balancer Pass A (spec §4.10): on any date
// where pre-scheduled effective-date emails exceed the soft limit, the
// excess (lowest-priority tail, ties broken by contact id ascending)
// is jittered by a deterministic signed offset bounded by
// ±smoothing_window_days/2, then clamped so the jitter never pushes a
// date before today (spec §8 invariant 1 / C10 invariant ii).
func SmoothEffectiveDate(records []domain.ScheduleRecord, today domain.Date, cfg domain.OrganizationConfig) []domain.ScheduleRecord {
	softLimit := cfg.EffectiveDateSoftLimit()
	out := make([]domain.ScheduleRecord, len(records))
	copy(out, records)

	groups := make(map[domain.Date][]int)
	for i, rec := range out {
		if rec.Status != domain.StatusPreScheduled {
			continue
		}
		if rec.EmailType.Tag != domain.EmailTypeAnniversary || rec.EmailType.Anniversary != domain.AnniversaryEffectiveDate {
			continue
		}
		groups[rec.ScheduledDate] = append(groups[rec.ScheduledDate], i)
	}

	for _, indices := range groups {
		if len(indices) <= softLimit {
			continue
		}
		sort.SliceStable(indices, func(a, b int) bool {
			ra, rb := out[indices[a]], out[indices[b]]
			if ra.Priority != rb.Priority {
				return ra.Priority < rb.Priority
			}
			return ra.ContactID < rb.ContactID
		})

		half := cfg.SmoothingWindowDays / 2
		for _, idx := range indices[softLimit:] {
			rec := &out[idx]
			offset := int(dhash.Mod(uint64(cfg.SmoothingWindowDays), strconv.FormatInt(rec.ContactID, 10), "ed", strconv.Itoa(rec.EventYear))) - half
			shifted := datekernel.AddDays(rec.ScheduledDate, offset)
			if shifted.Before(today) {
				shifted = today
			}
			rec.ScheduledDate = shifted
		}
	}

	return out
}

// EnforceDailyCap is Load Balancer Pass B (spec §4.10): the hard daily
// cap is enforced per date, with overflow walked forward day by day
// within the catch-up horizon to a date with residual capacity, and
// anything that still doesn't fit marked skipped.
func EnforceDailyCap(records []domain.ScheduleRecord, cfg domain.OrganizationConfig) []domain.ScheduleRecord {
	dailyCap := cfg.DailyCap()
	overageThreshold := cfg.OverageThreshold

	out := make([]domain.ScheduleRecord, len(records))
	copy(out, records)

	buckets := make(map[domain.Date][]int)
	var dates []domain.Date
	for i, rec := range out {
		if rec.Status != domain.StatusPreScheduled {
			continue
		}
		if _, seen := buckets[rec.ScheduledDate]; !seen {
			dates = append(dates, rec.ScheduledDate)
		}
		buckets[rec.ScheduledDate] = append(buckets[rec.ScheduledDate], i)
	}
	sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b]) })

	count := func(d domain.Date) int { return len(buckets[d]) }
	move := func(idx int, from, to domain.Date) {
		buckets[from] = removeIndex(buckets[from], idx)
		buckets[to] = append(buckets[to], idx)
	}

	for _, date := range dates {
		indices := append([]int(nil), buckets[date]...)
		if float64(len(indices)) <= float64(dailyCap)*overageThreshold {
			continue
		}

		sort.SliceStable(indices, func(a, b int) bool {
			ra, rb := out[indices[a]], out[indices[b]]
			if ra.Priority != rb.Priority {
				return ra.Priority < rb.Priority
			}
			return ra.ContactID < rb.ContactID
		})

		overflow := indices[dailyCap:]
		for _, idx := range overflow {
			placed := false
			for d := 1; d <= cfg.CatchUpHorizonDays; d++ {
				candidate := datekernel.AddDays(date, d)
				if count(candidate) < dailyCap {
					move(idx, date, candidate)
					out[idx].ScheduledDate = candidate
					placed = true
					break
				}
			}
			if !placed {
				buckets[date] = removeIndex(buckets[date], idx)
				out[idx].Status = domain.StatusSkipped
				out[idx].SkipReason = skipReasonDailyCapExceeded
			}
		}
	}

	return out
}

func removeIndex(indices []int, target int) []int {
	out := indices[:0]
	for _, idx := range indices {
		if idx != target {
			out = append(out, idx)
		}
	}
	return out
}
