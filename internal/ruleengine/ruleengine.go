// Package ruleengine answers, for a contact and a candidate send date,
// whether the date falls inside a jurisdiction's regulatory exclusion
// window (spec §4.2, component C2). Rules are keyed by jurisdiction and
// expressed as a small tagged union rather than a class hierarchy
// (spec §9): one evaluation function, exhaustively switching on the
// rule's tag.
package ruleengine

import (
	"fmt"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
)

// RuleTag discriminates the exclusion-rule tagged union.
type RuleTag int

const (
	RuleNone RuleTag = iota
	RuleBirthdayWindow
	RuleEffectiveDateWindow
	RuleYearRound
)

// Rule is one jurisdiction's exclusion-window rule. Only the fields
// relevant to Tag are meaningful.
type Rule struct {
	Tag            RuleTag
	BeforeDays     int
	AfterDays      int
	UseMonthStart  bool // Nevada-style: round anchor to month start first
}

// Table is the canonical state -> rule mapping from spec §4.2.
var Table = map[string]Rule{
	"CA": {Tag: RuleBirthdayWindow, BeforeDays: 30, AfterDays: 60},
	"ID": {Tag: RuleBirthdayWindow, BeforeDays: 0, AfterDays: 63},
	"KY": {Tag: RuleBirthdayWindow, BeforeDays: 0, AfterDays: 60},
	"OK": {Tag: RuleBirthdayWindow, BeforeDays: 0, AfterDays: 60},
	"MD": {Tag: RuleBirthdayWindow, BeforeDays: 0, AfterDays: 30},
	"VA": {Tag: RuleBirthdayWindow, BeforeDays: 0, AfterDays: 30},
	"NV": {Tag: RuleBirthdayWindow, BeforeDays: 0, AfterDays: 60, UseMonthStart: true},
	"OR": {Tag: RuleBirthdayWindow, BeforeDays: 0, AfterDays: 31},
	"MO": {Tag: RuleEffectiveDateWindow, BeforeDays: 30, AfterDays: 33},
	"CT": {Tag: RuleYearRound},
	"MA": {Tag: RuleYearRound},
	"NY": {Tag: RuleYearRound},
	"WA": {Tag: RuleYearRound},
}

// RuleFor returns the rule for a jurisdiction code, defaulting to
// RuleNone for any state not in Table (including "Other").
func RuleFor(state string) Rule {
	if r, ok := Table[state]; ok {
		return r
	}
	return Rule{Tag: RuleNone}
}

// Window is an inclusive, contiguous date range.
type Window struct {
	Start, End domain.Date
}

// Contains reports whether d falls within the window, inclusive.
func (w Window) Contains(d domain.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// AnchorKind distinguishes which anchor a window was evaluated against,
// used to build the external skip-reason string (spec §6).
type AnchorKind int

const (
	AnchorBirthday AnchorKind = iota
	AnchorEffectiveDate
)

// Evaluate computes the rule's exclusion window around anchor, applying
// the jurisdiction's before/after offsets plus the organization's
// pre-buffer. Nevada's month-start flag rounds the anchor down to the
// first of its month before subtracting the pre-buffer (spec §9 open
// question (b)). Returns ok=false if the rule carries no window
// (RuleNone, or RuleYearRound which is unbounded — see IsYearRound).
func Evaluate(rule Rule, anchor domain.Date, preBufferDays int) (Window, bool) {
	switch rule.Tag {
	case RuleBirthdayWindow, RuleEffectiveDateWindow:
		a := anchor
		if rule.UseMonthStart {
			a = datekernel.MonthStart(a)
		}
		start := datekernel.AddDays(a, -(rule.BeforeDays + preBufferDays))
		end := datekernel.AddDays(a, rule.AfterDays)
		return Window{Start: start, End: end}, true
	default:
		return Window{}, false
	}
}

// IsYearRound reports whether the rule excludes every anniversary email
// regardless of date.
func (r Rule) IsYearRound() bool { return r.Tag == RuleYearRound }

// SkipReason returns the external skip-reason string for a state and
// anchor kind (spec §6): "Birthday exclusion window for <ST>", etc.
func SkipReason(state string, rule Rule, kind AnchorKind) string {
	switch rule.Tag {
	case RuleYearRound:
		return fmt.Sprintf("Year-round exclusion for %s", state)
	case RuleEffectiveDateWindow:
		return fmt.Sprintf("Effective date exclusion for %s", state)
	case RuleBirthdayWindow:
		if kind == AnchorEffectiveDate {
			return fmt.Sprintf("Effective date exclusion for %s", state)
		}
		return fmt.Sprintf("Birthday exclusion window for %s", state)
	default:
		return ""
	}
}

// Excluded reports whether candidateDate is excluded for the given
// jurisdiction/anchor, and if so the skip reason and the window that
// caused it (an empty Window for year-round exclusions).
func Excluded(state string, anchor domain.Date, candidateDate domain.Date, kind AnchorKind, preBufferDays int) (excluded bool, reason string, window Window) {
	rule := RuleFor(state)
	if rule.IsYearRound() {
		return true, SkipReason(state, rule, kind), Window{}
	}
	w, ok := Evaluate(rule, anchor, preBufferDays)
	if !ok {
		return false, "", Window{}
	}
	if w.Contains(candidateDate) {
		return true, SkipReason(state, rule, kind), w
	}
	return false, "", Window{}
}

// ActiveWindow reports whether today falls inside the jurisdiction's
// exclusion window around anchor, and returns that window. Nothing in
// this module calls it; the post-window generator (C9) recomputes the
// window with Evaluate.
func ActiveWindow(state string, anchor domain.Date, today domain.Date, preBufferDays int) (Window, bool) {
	rule := RuleFor(state)
	w, ok := Evaluate(rule, anchor, preBufferDays)
	if !ok {
		return Window{}, false
	}
	return w, w.Contains(today)
}
