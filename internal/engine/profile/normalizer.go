// internal/engine/profile/normalizer.go
package profile

import (
	"strconv"
	"strings"

	"finmatch-workers/internal/models"
)

// stageAliases maps every accepted spelling to a canonical stage. Canonical
// values map to themselves so Normalize is idempotent.
var stageAliases = map[string]string{
	"pre-seed":    "pre-seed",
	"preseed":     "pre-seed",
	"pre seed":    "pre-seed",
	"idea":        "pre-seed",
	"ideation":    "pre-seed",
	"discovery":   "pre-seed",
	"prototype":   "pre-seed",
	"mvp":         "pre-seed",
	"seed":        "seed",
	"angel":       "seed",
	"validation":  "seed",
	"early":       "early",
	"early-stage": "early",
	"early stage": "early",
	"series a":    "early",
	"growth":      "growth",
	"scaling":     "growth",
	"series b":    "growth",
	"series c":    "growth",
	"expansion":   "growth",
}

var stateAliases = map[string]string{
	"national":  "national",
	"pan-india": "national",
	"pan india": "national",
	"all india": "national",
	"india":     "national",
}

// bandTable maps recognized band labels to their canonical bucket. Values in
// crores; a nil bound is open-ended.
var bandTable = map[string]models.RevenueBand{
	"<1cr":            band(0, 1, "<1cr"),
	"under 1cr":       band(0, 1, "<1cr"),
	"under 1 cr":      band(0, 1, "<1cr"),
	"less than 1cr":   band(0, 1, "<1cr"),
	"less than 1 cr":  band(0, 1, "<1cr"),
	"1-5cr":           band(1, 5, "1-5cr"),
	"1-5 cr":          band(1, 5, "1-5cr"),
	"1 to 5 cr":       band(1, 5, "1-5cr"),
	"5-10cr":          band(5, 10, "5-10cr"),
	"5-10 cr":         band(5, 10, "5-10cr"),
	"5 to 10 cr":      band(5, 10, "5-10cr"),
	"10cr+":           openBand(10, "10cr+"),
	"10+ cr":          openBand(10, "10cr+"),
	"above 10cr":      openBand(10, "10cr+"),
	"above 10 cr":     openBand(10, "10cr+"),
	"more than 10 cr": openBand(10, "10cr+"),
}

var allowedBankTypes = map[string]bool{
	"public":  true,
	"private": true,
	"fintech": true,
	"nbfc":    true,
}

func band(min, max float64, label string) models.RevenueBand {
	return models.RevenueBand{Min: &min, Max: &max, Label: label}
}

func openBand(min float64, label string) models.RevenueBand {
	return models.RevenueBand{Min: &min, Label: label}
}

// Normalize converts an arbitrary key bag into a canonical Profile. It never
// fails: unrecognized or missing fields resolve to zero values, and every
// slice field comes back non-nil, deduplicated and lowercase.
func Normalize(raw map[string]interface{}) models.Profile {
	p := models.Profile{
		Sectors:         []string{},
		Services:        []string{},
		SpecialCriteria: []string{},
		BankTypes:       []string{},
	}
	if raw == nil {
		return p
	}

	p.Stage = NormalizeStage(firstString(raw, "stage", "currentStage", "current_stage", "startupStage"))
	p.Sectors = Tokens(firstValue(raw, "sectors", "sector", "industries", "industry"))
	p.Services = Tokens(firstValue(raw, "services", "service", "bankingNeeds", "banking_needs"))
	p.SpecialCriteria = Tokens(firstValue(raw, "specialCriteria", "special_criteria", "criteria", "tags"))

	if rev, ok := parseNumber(firstValue(raw, "revenue", "annualRevenue", "annual_revenue", "turnover")); ok {
		p.Revenue = &rev
		p.RevenueBand = BandForRevenue(rev)
	} else if label := bandLabel(firstValue(raw, "revenueBand", "revenue_band", "revenueRange", "revenue_range")); label != "" {
		p.RevenueBand = BandForLabel(label)
	}

	p.State = NormalizeState(firstString(raw, "state", "location", "registeredState", "registered_state"))

	for _, bt := range Tokens(firstValue(raw, "bankTypes", "bankType", "bank_types", "preferredBanks", "preferred_banks")) {
		if allowedBankTypes[bt] {
			p.BankTypes = append(p.BankTypes, bt)
		}
	}

	p.LoanPreference = parseLoanPreference(raw)
	p.HasPrototype = parseBool(firstValue(raw, "hasPrototype", "has_prototype"))
	p.NeedsLoan = parseBool(firstValue(raw, "needsLoan", "needs_loan"))

	return p
}

// NormalizeStage lowercases, trims and resolves a stage through the alias
// table. Unknown values pass through unchanged (permissive).
func NormalizeStage(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := stageAliases[s]; ok {
		return canonical
	}
	return s
}

// NormalizeState extracts the state token from a free-text location value,
// taking the last comma segment per the "City, State" convention.
func NormalizeState(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	parts := strings.Split(s, ",")
	state := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	if canonical, ok := stateAliases[state]; ok {
		return canonical
	}
	return state
}

// BandForRevenue derives the band bucket from a numeric revenue in crores.
func BandForRevenue(rev float64) models.RevenueBand {
	switch {
	case rev < 1:
		return band(0, 1, "<1cr")
	case rev < 5:
		return band(1, 5, "1-5cr")
	case rev < 10:
		return band(5, 10, "5-10cr")
	default:
		return openBand(10, "10cr+")
	}
}

// BandForLabel resolves a caller-supplied band label; unrecognized labels
// yield an all-nil band so no numeric comparison is possible later.
func BandForLabel(label string) models.RevenueBand {
	if b, ok := bandTable[strings.ToLower(strings.TrimSpace(label))]; ok {
		return b
	}
	return models.RevenueBand{}
}

// Tokens converts a raw list value into lowercase trimmed tokens. Accepts an
// array or a string delimited by comma, semicolon or pipe; empty elements
// are dropped and duplicates removed, preserving first-seen order.
func Tokens(raw interface{}) []string {
	result := []string{}
	if raw == nil {
		return result
	}

	seen := make(map[string]bool)
	add := func(s string) {
		tok := strings.ToLower(strings.TrimSpace(s))
		if tok != "" && !seen[tok] {
			result = append(result, tok)
			seen[tok] = true
		}
	}

	switch v := raw.(type) {
	case string:
		for _, part := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ';' || r == '|'
		}) {
			add(part)
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	}

	return result
}

// bandLabel accepts a band either as a plain label or as an already-derived
// {min, max, label} object, so normalizing a normalized profile is a no-op.
func bandLabel(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]interface{}:
		if s, ok := v["label"].(string); ok {
			return s
		}
	}
	return ""
}

func parseLoanPreference(raw map[string]interface{}) *models.LoanRange {
	if v, ok := raw["loanPreference"]; ok {
		if m, ok := v.(map[string]interface{}); ok {
			lr := &models.LoanRange{}
			if min, ok := parseNumber(m["min"]); ok {
				lr.Min = &min
			}
			if max, ok := parseNumber(m["max"]); ok {
				lr.Max = &max
			}
			if lr.Min != nil || lr.Max != nil {
				return lr
			}
		}
		if amount, ok := parseNumber(v); ok {
			return &models.LoanRange{Min: &amount, Max: &amount}
		}
		return nil
	}

	lr := &models.LoanRange{}
	if min, ok := parseNumber(firstValue(raw, "loanMin", "loan_min")); ok {
		lr.Min = &min
	}
	if max, ok := parseNumber(firstValue(raw, "loanMax", "loan_max")); ok {
		lr.Max = &max
	}
	if lr.Min == nil && lr.Max == nil {
		if amount, ok := parseNumber(firstValue(raw, "loanAmount", "loan_amount")); ok {
			return &models.LoanRange{Min: &amount, Max: &amount}
		}
		return nil
	}
	return lr
}

func parseNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func parseBool(raw interface{}) *bool {
	switch v := raw.(type) {
	case bool:
		return &v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y", "1":
			t := true
			return &t
		case "false", "no", "n", "0":
			f := false
			return &f
		}
	}
	return nil
}

func firstValue(raw map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
