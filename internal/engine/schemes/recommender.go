// internal/engine/schemes/recommender.go
package schemes

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"finmatch-workers/internal/engine/profile"
	"finmatch-workers/internal/models"
)

const (
	// FallbackCount and TopMatchCount bound the fallback and featured lists.
	FallbackCount = 5
	TopMatchCount = 5
)

// RuleScores fixes the scores assigned outside the matched/applicable
// ratio: Neutral for a rule with zero applicable conditions, Fallback for
// schemes surfaced when no rule produced a recommendation. Kept as an
// explicit, overridable configuration like scoring.Weights.
type RuleScores struct {
	Neutral  int `mapstructure:"neutral"`
	Fallback int `mapstructure:"fallback"`
}

// DefaultRuleScores reproduces the production recommendation policy. The
// neutral here is distinct from the bank engine's 60.
func DefaultRuleScores() RuleScores {
	return RuleScores{
		Neutral:  25,
		Fallback: 40,
	}
}

// ConditionResult is the tri-state outcome of a rule condition.
// NotApplicable means the profile lacks the data to judge the condition and
// is excluded from both numerator and denominator, never coerced to a miss.
type ConditionResult int

const (
	NotApplicable ConditionResult = iota
	Unmatched
	Matched
)

// Recommend scores the profile against every rule, resolves each rule's
// scheme record by name, sorts descending by score, and falls back to the
// first FallbackCount catalog schemes when nothing was recommended.
func Recommend(p models.Profile, rules []models.SchemeRule, catalog []models.Scheme, scores RuleScores) models.SchemeRecommendationSet {
	byName := make(map[string]models.Scheme, len(catalog))
	for _, s := range catalog {
		byName[strings.ToLower(strings.TrimSpace(s.SchemeName))] = s
	}

	recs := []models.SchemeRecommendation{}
	for _, rule := range rules {
		scheme, ok := byName[strings.ToLower(strings.TrimSpace(rule.Scheme))]
		if !ok {
			continue
		}

		matched, applicable := evaluateRule(p, rule)
		score := scores.Neutral
		if applicable > 0 {
			score = int(math.Round(100 * float64(matched) / float64(applicable)))
		}

		recs = append(recs, models.SchemeRecommendation{
			Scheme: scheme,
			Evaluation: models.RuleEvaluation{
				Matched: matched,
				Total:   applicable,
				Score:   score,
			},
			Message: ruleMessage(matched, applicable),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Evaluation.Score > recs[j].Evaluation.Score
	})

	if len(recs) == 0 {
		recs = fallback(catalog, scores.Fallback)
	}

	top := TopMatchCount
	if len(recs) < top {
		top = len(recs)
	}

	return models.SchemeRecommendationSet{
		Recommendations: recs,
		TopMatches:      recs[:top],
	}
}

func evaluateRule(p models.Profile, rule models.SchemeRule) (matched, applicable int) {
	for key, expected := range rule.Match {
		switch evaluateCondition(p, key, expected) {
		case Matched:
			matched++
			applicable++
		case Unmatched:
			applicable++
		}
	}
	return matched, applicable
}

// evaluateCondition judges one condition key against the profile. Unknown
// keys are NotApplicable, keeping the rule set forward-compatible.
func evaluateCondition(p models.Profile, key, expected string) ConditionResult {
	exp := strings.ToLower(strings.TrimSpace(expected))
	if exp == "" || exp == "any" {
		return NotApplicable
	}

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "stage":
		if p.Stage == "" {
			return NotApplicable
		}
		return boolResult(p.Stage == profile.NormalizeStage(exp))

	case "sector":
		if len(p.Sectors) == 0 {
			return NotApplicable
		}
		return boolResult(containsToken(p.Sectors, exp))

	case "state", "location":
		if p.State == "" {
			return NotApplicable
		}
		want := profile.NormalizeState(exp)
		return boolResult(want == "national" || p.State == want)

	case "has_prototype", "hasprototype":
		if p.HasPrototype == nil {
			return NotApplicable
		}
		return boolResult(*p.HasPrototype == (exp == "true" || exp == "yes"))

	case "needs_loan", "needsloan":
		if p.NeedsLoan == nil {
			return NotApplicable
		}
		return boolResult(*p.NeedsLoan == (exp == "true" || exp == "yes"))

	case "special", "special_criteria", "specialcriteria":
		if len(p.SpecialCriteria) == 0 {
			return NotApplicable
		}
		return boolResult(containsToken(p.SpecialCriteria, exp))

	case "revenue_band", "revenueband":
		if p.RevenueBand.Label == "" {
			return NotApplicable
		}
		return boolResult(strings.EqualFold(p.RevenueBand.Label, exp))
	}

	return NotApplicable
}

func boolResult(ok bool) ConditionResult {
	if ok {
		return Matched
	}
	return Unmatched
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

func ruleMessage(matched, applicable int) string {
	if applicable == 0 {
		return "Not enough profile data to evaluate eligibility; listed for review"
	}
	return fmt.Sprintf("Matched %d of %d eligibility conditions", matched, applicable)
}

// fallback keeps the caller from ever seeing an empty result while scheme
// data exists.
func fallback(catalog []models.Scheme, score int) []models.SchemeRecommendation {
	n := FallbackCount
	if len(catalog) < n {
		n = len(catalog)
	}
	recs := make([]models.SchemeRecommendation, 0, n)
	for _, s := range catalog[:n] {
		recs = append(recs, models.SchemeRecommendation{
			Scheme:     s,
			Evaluation: models.RuleEvaluation{Score: score},
			Message:    "Popular scheme; eligibility could not be evaluated from the profile",
		})
	}
	return recs
}
