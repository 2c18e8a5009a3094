// internal/engine/matching/pipeline.go
package matching

import (
	"sort"
	"strings"

	"finmatch-workers/internal/engine/eligibility"
	"finmatch-workers/internal/engine/profile"
	"finmatch-workers/internal/engine/scoring"
	"finmatch-workers/internal/models"
)

const (
	// DefaultLimit truncates the sorted match list when the caller gives none.
	DefaultLimit = 10

	// TopPickCount is the size of the featured subset of the sorted matches.
	TopPickCount = 3
)

// Filters are the caller-supplied pre-filters, already tokenized. Empty sets
// mean no constraint.
type Filters struct {
	ProgramTypes []string
	BankTypes    []string
}

// ParseFilters tokenizes raw filter values (strings or arrays, any of the
// accepted delimiters).
func ParseFilters(programType, bankType interface{}) Filters {
	return Filters{
		ProgramTypes: profile.Tokens(programType),
		BankTypes:    profile.Tokens(bankType),
	}
}

func (f Filters) allows(prog models.Program) bool {
	if len(f.ProgramTypes) > 0 && !contains(f.ProgramTypes, prog.Type) {
		return false
	}
	if len(f.BankTypes) > 0 && !contains(f.BankTypes, prog.BankType) {
		return false
	}
	return true
}

// Match runs the full bank-program pipeline: pre-filter, hard eligibility
// gates, weighted scoring, stable descending sort, limit, top picks. Pure
// and deterministic; an empty result is a valid MatchSet, not an error.
func Match(p models.Profile, catalog []models.Program, filters Filters, limit int, w scoring.Weights) models.MatchSet {
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches := []models.MatchResult{}
	for _, prog := range catalog {
		if !filters.allows(prog) {
			continue
		}
		if res := eligibility.Evaluate(p, prog); !res.Eligible {
			continue
		}
		score, breakdown := scoring.Score(p, prog, w)
		matches = append(matches, models.MatchResult{
			Program:   prog,
			Score:     score,
			Breakdown: breakdown,
		})
	}

	// Stable: ties retain catalog order, there is no secondary sort key.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	top := TopPickCount
	if len(matches) < top {
		top = len(matches)
	}

	return models.MatchSet{
		Profile:  p,
		Total:    total,
		Matches:  matches,
		TopPicks: matches[:top],
	}
}

func contains(tokens []string, value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, t := range tokens {
		if t == v {
			return true
		}
	}
	return false
}
