// internal/engine/scoring/scorer.go
package scoring

import (
	"fmt"
	"math"
	"strings"

	"finmatch-workers/internal/engine/eligibility"
	"finmatch-workers/internal/models"
)

// Score computes the 0-100 weighted match score for an already-eligible
// (profile, program) pair, plus the ordered criterion breakdown.
//
// A criterion enters the denominator only when it is applicable: the program
// declares that dimension, or the profile expresses the preference (bank
// type, loan range). Missing data is excluded, never penalized. Eligibility
// has already gated the pair, so every applicable hard dimension here is a
// full-weight match; services contribute proportional credit and the two
// preference criteria can still miss.
func Score(p models.Profile, prog models.Program, w Weights) (int, []models.CriterionResult) {
	var achieved, total float64
	breakdown := []models.CriterionResult{}

	consider := func(label string, applicable bool, weight, credit float64, detail string) {
		if !applicable {
			return
		}
		total += weight
		achieved += credit
		breakdown = append(breakdown, models.CriterionResult{
			Label:   label,
			Matched: credit > 0,
			Weight:  weight,
			Detail:  detail,
		})
	}

	el := prog.Eligibility

	consider("Stage", len(el.Stages) > 0, w.Stage, w.Stage, p.Stage)
	consider("Sector", len(el.Sectors) > 0, w.Sector, w.Sector, strings.Join(p.Sectors, ", "))

	if el.MinRevenue != nil || el.MaxRevenue != nil {
		rev, _ := eligibility.ResolveRevenue(p)
		consider("Revenue", true, w.Revenue, w.Revenue, fmt.Sprintf("%.2f cr", rev))
	}

	consider("Location", len(el.States) > 0, w.Location, w.Location, p.State)

	if required := eligibility.RequiredServices(prog); len(required) > 0 {
		coverage := eligibility.ServiceCoverage(p.Services, required)
		detail := fmt.Sprintf("%d of %d services", int(math.Round(coverage*float64(len(required)))), len(required))
		consider("Service coverage", true, w.Services, w.Services*coverage, detail)
	}

	consider("Special criteria", len(el.SpecialCriteria) > 0, w.SpecialCriteria, w.SpecialCriteria,
		strings.Join(el.SpecialCriteria, ", "))

	if len(p.BankTypes) > 0 {
		credit := 0.0
		if bankTypeMatches(p.BankTypes, prog.BankType) {
			credit = w.BankType
		}
		consider("Preferred bank type", true, w.BankType, credit, prog.BankType)
	}

	if p.LoanPreference != nil {
		credit := 0.0
		if rangesOverlap(p.LoanPreference.Min, p.LoanPreference.Max, prog.MinLoanAmount, prog.MaxLoanAmount) {
			credit = w.LoanRange
		}
		consider("Loan range fit", true, w.LoanRange, credit, loanRangeDetail(prog))
	}

	if total == 0 {
		return w.NeutralScore, breakdown
	}

	score := int(math.Round(100 * achieved / total))
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	return score, breakdown
}

func bankTypeMatches(preferred []string, bankType string) bool {
	bt := strings.ToLower(strings.TrimSpace(bankType))
	if bt == "" {
		return false
	}
	for _, p := range preferred {
		if p == bt {
			return true
		}
	}
	return false
}

// rangesOverlap treats nil bounds as unconstrained on that side.
func rangesOverlap(aMin, aMax, bMin, bMax *float64) bool {
	if aMin != nil && bMax != nil && *aMin > *bMax {
		return false
	}
	if bMin != nil && aMax != nil && *bMin > *aMax {
		return false
	}
	return true
}

func loanRangeDetail(prog models.Program) string {
	switch {
	case prog.MinLoanAmount != nil && prog.MaxLoanAmount != nil:
		return fmt.Sprintf("%.0f-%.0f", *prog.MinLoanAmount, *prog.MaxLoanAmount)
	case prog.MinLoanAmount != nil:
		return fmt.Sprintf("%.0f+", *prog.MinLoanAmount)
	case prog.MaxLoanAmount != nil:
		return fmt.Sprintf("up to %.0f", *prog.MaxLoanAmount)
	}
	return "unbounded"
}
