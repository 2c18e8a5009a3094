// internal/engine/profile/normalizer_test.go
package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Seed", "seed"},
		{"  MVP ", "pre-seed"},
		{"prototype", "pre-seed"},
		{"Series A", "early"},
		{"series b", "growth"},
		{"Expansion", "growth"},
		{"angel", "seed"},
		{"seed", "seed"},
		{"pre-seed", "pre-seed"},
		{"unicorn", "unicorn"}, // unknown passes through
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStage(tt.in))
		})
	}
}

func TestNormalizeState(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bengaluru, Karnataka", "karnataka"},
		{"Karnataka", "karnataka"},
		{"Mumbai, Maharashtra ", "maharashtra"},
		{"Pan-India", "national"},
		{"All India", "national"},
		{"India", "national"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeState(tt.in))
		})
	}
}

func TestTokens(t *testing.T) {
	t.Run("delimited string", func(t *testing.T) {
		assert.Equal(t,
			[]string{"fintech", "saas", "ai"},
			Tokens("Fintech, SaaS | AI; fintech"),
		)
	})

	t.Run("interface slice", func(t *testing.T) {
		assert.Equal(t,
			[]string{"current account", "loans"},
			Tokens([]interface{}{"Current Account", "Loans", "current account"}),
		)
	})

	t.Run("nil and empty", func(t *testing.T) {
		assert.Empty(t, Tokens(nil))
		assert.Empty(t, Tokens("  ,, | ;"))
		assert.NotNil(t, Tokens(nil))
	})
}

func TestBandForRevenue(t *testing.T) {
	tests := []struct {
		rev  float64
		want string
	}{
		{0, "<1cr"},
		{0.9, "<1cr"},
		{1, "1-5cr"},
		{4.99, "1-5cr"},
		{5, "5-10cr"},
		{10, "10cr+"},
		{250, "10cr+"},
	}

	for _, tt := range tests {
		b := BandForRevenue(tt.rev)
		assert.Equal(t, tt.want, b.Label, "revenue %v", tt.rev)
		require.NotNil(t, b.Min)
	}

	open := BandForRevenue(12)
	assert.Nil(t, open.Max)
}

func TestBandForLabel(t *testing.T) {
	b := BandForLabel("Under 1 Cr")
	require.NotNil(t, b.Min)
	require.NotNil(t, b.Max)
	assert.Equal(t, 0.0, *b.Min)
	assert.Equal(t, 1.0, *b.Max)
	assert.Equal(t, "<1cr", b.Label)

	unknown := BandForLabel("about a billion")
	assert.Nil(t, unknown.Min)
	assert.Nil(t, unknown.Max)
	assert.Empty(t, unknown.Label)
}

func TestNormalize_FullProfile(t *testing.T) {
	raw := map[string]interface{}{
		"currentStage": "MVP",
		"sector":       "Fintech, SaaS",
		"services":     []interface{}{"Current Account", "Payment Gateway"},
		"revenue":      3.5,
		"location":     "Bengaluru, Karnataka",
		"bankTypes":    "Private | Fintech, cooperative",
		"loanPreference": map[string]interface{}{
			"min": 10.0,
			"max": 50.0,
		},
		"hasPrototype": true,
		"needsLoan":    "yes",
		"tags":         "women-led",
	}

	p := Normalize(raw)

	assert.Equal(t, "pre-seed", p.Stage)
	assert.Equal(t, []string{"fintech", "saas"}, p.Sectors)
	assert.Equal(t, []string{"current account", "payment gateway"}, p.Services)
	assert.Equal(t, []string{"women-led"}, p.SpecialCriteria)
	assert.Equal(t, "karnataka", p.State)

	require.NotNil(t, p.Revenue)
	assert.Equal(t, 3.5, *p.Revenue)
	assert.Equal(t, "1-5cr", p.RevenueBand.Label)

	// "cooperative" is not a recognized bank type
	assert.Equal(t, []string{"private", "fintech"}, p.BankTypes)

	require.NotNil(t, p.LoanPreference)
	assert.Equal(t, 10.0, *p.LoanPreference.Min)
	assert.Equal(t, 50.0, *p.LoanPreference.Max)

	require.NotNil(t, p.HasPrototype)
	assert.True(t, *p.HasPrototype)
	require.NotNil(t, p.NeedsLoan)
	assert.True(t, *p.NeedsLoan)
}

func TestNormalize_RevenueBandOnly(t *testing.T) {
	p := Normalize(map[string]interface{}{
		"revenueBand": "1-5 Cr",
	})

	assert.Nil(t, p.Revenue)
	assert.Equal(t, "1-5cr", p.RevenueBand.Label)
	require.NotNil(t, p.RevenueBand.Min)
	assert.Equal(t, 1.0, *p.RevenueBand.Min)
}

func TestNormalize_NumericRevenueWinsOverBand(t *testing.T) {
	p := Normalize(map[string]interface{}{
		"revenue":     7.0,
		"revenueBand": "<1cr",
	})

	require.NotNil(t, p.Revenue)
	assert.Equal(t, "5-10cr", p.RevenueBand.Label)
}

func TestNormalize_EmptyAndNil(t *testing.T) {
	for _, raw := range []map[string]interface{}{nil, {}} {
		p := Normalize(raw)
		assert.Empty(t, p.Stage)
		assert.NotNil(t, p.Sectors)
		assert.NotNil(t, p.Services)
		assert.NotNil(t, p.SpecialCriteria)
		assert.NotNil(t, p.BankTypes)
		assert.Nil(t, p.Revenue)
		assert.Nil(t, p.LoanPreference)
	}
}

// Normalizing an already-normalized profile must be a no-op, including after
// a JSON round trip through process variables.
func TestNormalize_Idempotent(t *testing.T) {
	raw := map[string]interface{}{
		"stage":    "Series A",
		"sectors":  "AgriTech, D2C",
		"revenue":  2.0,
		"location": "Pune, Maharashtra",
		"services": "current account, forex",
	}

	first := Normalize(raw)

	data, err := json.Marshal(first)
	require.NoError(t, err)
	var roundTripped map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &roundTripped))

	second := Normalize(roundTripped)

	assert.Equal(t, first.Stage, second.Stage)
	assert.Equal(t, first.Sectors, second.Sectors)
	assert.Equal(t, first.Services, second.Services)
	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.RevenueBand.Label, second.RevenueBand.Label)
	require.NotNil(t, second.Revenue)
	assert.Equal(t, *first.Revenue, *second.Revenue)
}

func TestParseLoanPreference_Forms(t *testing.T) {
	t.Run("single amount", func(t *testing.T) {
		p := Normalize(map[string]interface{}{"loanAmount": 25.0})
		require.NotNil(t, p.LoanPreference)
		assert.Equal(t, 25.0, *p.LoanPreference.Min)
		assert.Equal(t, 25.0, *p.LoanPreference.Max)
	})

	t.Run("min only", func(t *testing.T) {
		p := Normalize(map[string]interface{}{"loanMin": "10"})
		require.NotNil(t, p.LoanPreference)
		assert.Equal(t, 10.0, *p.LoanPreference.Min)
		assert.Nil(t, p.LoanPreference.Max)
	})

	t.Run("absent", func(t *testing.T) {
		p := Normalize(map[string]interface{}{})
		assert.Nil(t, p.LoanPreference)
	})
}
