// internal/engine/eligibility/evaluator.go
package eligibility

import (
	"strings"

	"finmatch-workers/internal/engine/profile"
	"finmatch-workers/internal/models"
)

// Dimension names a hard eligibility gate.
type Dimension string

const (
	DimStage           Dimension = "stage"
	DimSector          Dimension = "sector"
	DimRevenue         Dimension = "revenue"
	DimState           Dimension = "state"
	DimServices        Dimension = "services"
	DimSpecialCriteria Dimension = "specialCriteria"
)

// Result reports the outcome of the gate chain. FailedDimension is set only
// when Eligible is false.
type Result struct {
	Eligible        bool
	FailedDimension Dimension
}

// Evaluate runs the hard gates in fixed order, short-circuiting on the first
// failing dimension. A program failing any gate is excluded from results
// entirely, not scored low. Undeclared dimensions pass as wildcards.
func Evaluate(p models.Profile, prog models.Program) Result {
	el := prog.Eligibility

	if len(el.Stages) > 0 && !stageEligible(p.Stage, el.Stages) {
		return fail(DimStage)
	}
	if len(el.Sectors) > 0 && !intersects(p.Sectors, el.Sectors) {
		return fail(DimSector)
	}
	if (el.MinRevenue != nil || el.MaxRevenue != nil) && !revenueEligible(p, el.MinRevenue, el.MaxRevenue) {
		return fail(DimRevenue)
	}
	if !stateEligible(p.State, el.States) {
		return fail(DimState)
	}
	if required := RequiredServices(prog); len(required) > 0 && ServiceCoverage(p.Services, required) == 0 {
		return fail(DimServices)
	}
	if len(el.SpecialCriteria) > 0 && !subset(el.SpecialCriteria, p.SpecialCriteria) {
		return fail(DimSpecialCriteria)
	}

	return Result{Eligible: true}
}

func fail(d Dimension) Result {
	return Result{FailedDimension: d}
}

func stageEligible(stage string, declared []string) bool {
	if stage == "" {
		return false
	}
	for _, s := range declared {
		if profile.NormalizeStage(s) == stage {
			return true
		}
	}
	return false
}

// ResolveRevenue picks the numeric revenue if present, else the band's lower
// boundary. The second return is false when no revenue signal exists.
func ResolveRevenue(p models.Profile) (float64, bool) {
	if p.Revenue != nil {
		return *p.Revenue, true
	}
	if p.RevenueBand.Min != nil {
		return *p.RevenueBand.Min, true
	}
	return 0, false
}

func revenueEligible(p models.Profile, min, max *float64) bool {
	rev, ok := ResolveRevenue(p)
	if !ok {
		return false
	}
	if min != nil && rev < *min {
		return false
	}
	if max != nil && rev > *max {
		return false
	}
	return true
}

// stateEligible: no declared states or a declared "national" is a wildcard;
// otherwise the profile's state must be listed, and a profile without a
// resolved state fails state-specific programs.
func stateEligible(state string, declared []string) bool {
	if len(declared) == 0 {
		return true
	}
	for _, s := range declared {
		if profile.NormalizeState(s) == "national" {
			return true
		}
	}
	if state == "" {
		return false
	}
	for _, s := range declared {
		if profile.NormalizeState(s) == state {
			return true
		}
	}
	return false
}

// RequiredServices parses the program's delimited services string into
// canonical tokens.
func RequiredServices(prog models.Program) []string {
	return profile.Tokens(prog.Eligibility.Services)
}

// ServiceCoverage is |profile ∩ required| / |required|, in [0,1].
func ServiceCoverage(have, required []string) float64 {
	if len(required) == 0 {
		return 0
	}
	set := make(map[string]bool, len(have))
	for _, s := range have {
		set[s] = true
	}
	matched := 0
	for _, s := range required {
		if set[s] {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

// intersects compares profile tokens (already canonical) against declared
// catalog tokens, which may arrive mixed-case.
func intersects(have, declared []string) bool {
	set := make(map[string]bool, len(have))
	for _, s := range have {
		set[s] = true
	}
	for _, s := range declared {
		if set[canon(s)] {
			return true
		}
	}
	return false
}

// subset reports whether every required catalog token is present in have.
func subset(required, have []string) bool {
	set := make(map[string]bool, len(have))
	for _, s := range have {
		set[s] = true
	}
	for _, s := range required {
		if !set[canon(s)] {
			return false
		}
	}
	return true
}

func canon(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
