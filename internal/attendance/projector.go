// Package attendance computes attendance percentages and target projections
// for the categories and subjects reported by the student portal.
package attendance

import (
	"fmt"
	"math"
	"strings"
)

const (
	// EcaCap is the most classes an extra-curricular category can hold in a term.
	EcaCap = 16
	// DefaultCap applies to regular and unrecognized categories.
	DefaultCap = 400

	// UnboundedCount is the count reported when no number of classes reaches the target.
	UnboundedCount = -1
)

// Mode tags which projection outcome a Result carries.
type Mode string

const (
	ModeEmpty       Mode = "empty"
	ModeBunk        Mode = "bunk"
	ModeAttend      Mode = "attend"
	ModeUnreachable Mode = "unreachable"
)

// Result is the outcome of Project. Count is the number of classes that may
// be missed (bunk), must be attended (attend), or would be needed
// (unreachable). MaxRemaining is only set for unreachable results.
type Result struct {
	Mode         Mode `json:"mode"`
	Count        int  `json:"count"`
	MaxRemaining int  `json:"maxRemaining"`
}

// CategoryCap returns the ceiling on total classes for a category label.
func CategoryCap(category string) int {
	if strings.Contains(strings.ToLower(category), "eca") {
		return EcaCap
	}
	return DefaultCap
}

// ClampTarget rounds a user supplied percentage and clamps it to [0, 100].
func ClampTarget(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return clampPercent(int(math.Round(math.Max(-1, math.Min(101, v)))))
}

func clampPercent(t int) int {
	return max(0, min(100, t))
}

// Project classifies a record against a target percentage. A nil target or a
// record with no classes held yields an empty result.
//
// Bunk counts round down and attend counts round up, so a projection never
// overstates what may be skipped nor understates what must be attended. The
// rounding is done on exact integer numerators.
func Project(rec Record, category string, target *int) Result {
	if target == nil || rec.TotalClasses <= 0 {
		return Result{Mode: ModeEmpty}
	}

	t := clampPercent(*target)
	total := rec.TotalClasses
	attended := rec.Attended()
	capTotal := CategoryCap(category)

	// 100*attended/total >= t
	if 100*attended >= t*total {
		if t == 0 {
			return Result{Mode: ModeBunk, Count: max(0, capTotal-total)}
		}
		// floor(100*attended/t - total)
		canBunk := (100*attended - t*total) / t
		return Result{Mode: ModeBunk, Count: max(0, canBunk)}
	}

	maxRemaining := capTotal - total
	if t == 100 {
		return Result{Mode: ModeUnreachable, Count: UnboundedCount, MaxRemaining: maxRemaining}
	}

	// ceil((t*total - 100*attended) / (100 - t)), numerator is positive here
	num, den := t*total-100*attended, 100-t
	need := (num + den - 1) / den
	if need > maxRemaining {
		return Result{Mode: ModeUnreachable, Count: need, MaxRemaining: maxRemaining}
	}
	return Result{Mode: ModeAttend, Count: max(0, need)}
}

// Describe renders the result as a short sentence for the given target.
func (r Result) Describe(target int) string {
	switch r.Mode {
	case ModeBunk:
		return fmt.Sprintf("You can bunk up to %d class(es) and still stay above %d%%.", r.Count, target)
	case ModeAttend:
		return fmt.Sprintf("Attend %d more class(es) to reach %d%%.", r.Count, target)
	case ModeUnreachable:
		if r.Count == UnboundedCount {
			return "Target unattainable (100%)."
		}
		return fmt.Sprintf("Target not reachable: need %d more class(es), only %d remaining.", r.Count, max(0, r.MaxRemaining))
	default:
		return "Enter a target percentage to calculate your plan."
	}
}
