// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmatch-workers/internal/catalog"
	"finmatch-workers/internal/common/logger"
	"finmatch-workers/internal/engine/schemes"
	"finmatch-workers/internal/engine/scoring"

	matchbankprograms "finmatch-workers/internal/workers/matching/match-bank-programs"
	normalizestartupprofile "finmatch-workers/internal/workers/matching/normalize-startup-profile"
	recommendgovtschemes "finmatch-workers/internal/workers/matching/recommend-govt-schemes"
)

type pipeline struct {
	normalize *normalizestartupprofile.Handler
	match     *matchbankprograms.Handler
	recommend *recommendgovtschemes.Handler
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	log := logger.NewTestLogger(t)

	source := catalog.NewFileSource(
		"testdata/bank_programs.json",
		"testdata/govt_schemes.json",
		"testdata/scheme_rules.json",
	)
	loader, err := catalog.NewLoader(source, catalog.NewCache(), log)
	require.NoError(t, err)

	return &pipeline{
		normalize: normalizestartupprofile.NewHandler(
			&normalizestartupprofile.Config{Timeout: 5 * time.Second}, log),
		match: matchbankprograms.NewHandler(&matchbankprograms.Config{
			Timeout:      5 * time.Second,
			DefaultLimit: 10,
			Weights:      scoring.DefaultWeights(),
		}, loader, log),
		recommend: recommendgovtschemes.NewHandler(&recommendgovtschemes.Config{
			Timeout: 5 * time.Second,
			Scores:  schemes.DefaultRuleScores(),
		}, loader, log),
	}
}

// roundTrip simulates the profile passing through process variables as JSON
// between workers.
func roundTrip(t *testing.T, out *normalizestartupprofile.Output) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(out)
	require.NoError(t, err)
	var vars struct {
		NormalizedProfile map[string]interface{} `json:"normalizedProfile"`
	}
	require.NoError(t, json.Unmarshal(data, &vars))
	return vars.NormalizedProfile
}

func TestPipeline_SeedFintechStartup(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	normOut, err := p.normalize.Execute(ctx, &normalizestartupprofile.Input{
		Profile: map[string]interface{}{
			"currentStage": "Seed",
			"sector":       "Fintech",
			"revenue":      3.0,
			"location":     "Bengaluru, Karnataka",
			"services":     "Current Account, Forex",
		},
	})
	require.NoError(t, err)

	profile := normOut.NormalizedProfile
	assert.Equal(t, "seed", profile.Stage)
	assert.Equal(t, "karnataka", profile.State)
	assert.Equal(t, "1-5cr", profile.RevenueBand.Label)

	matchOut, err := p.match.Execute(ctx, &matchbankprograms.Input{
		NormalizedProfile: &profile,
	})
	require.NoError(t, err)

	// the national seed/fintech program matches every declared criterion
	require.NotEmpty(t, matchOut.Matches)
	assert.Equal(t, "sbi-startup-boost", matchOut.Matches[0].ID)
	assert.Equal(t, 100, matchOut.Matches[0].Score)

	ids := make([]string, 0, len(matchOut.Matches))
	for _, m := range matchOut.Matches {
		ids = append(ids, m.ID)
	}
	assert.NotContains(t, ids, "hdfc-growth-line", "growth-only program must be gated out")
	assert.Contains(t, ids, "karnataka-startup-loan")
	assert.Contains(t, ids, "open-msme-credit")

	// the state program covers 2 of 3 required services:
	// stage 20 + location 10 + services 12 of 18 = 42/48 -> 88
	for _, m := range matchOut.Matches {
		if m.ID == "karnataka-startup-loan" {
			assert.Equal(t, 88, m.Score)
		}
	}

	require.NotEmpty(t, matchOut.TopPicks)
	assert.Equal(t, matchOut.Matches[0].ID, matchOut.TopPicks[0].ID)
	assert.NotEmpty(t, matchOut.MatchRunID)
}

func TestPipeline_ProfileSurvivesVariableRoundTrip(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	normOut, err := p.normalize.Execute(ctx, &normalizestartupprofile.Input{
		Profile: map[string]interface{}{
			"stage":    "MVP",
			"sectors":  "AgriTech",
			"location": "Pune, Maharashtra",
		},
	})
	require.NoError(t, err)

	// downstream workers can also re-normalize the serialized profile
	reNormOut, err := p.normalize.Execute(ctx, &normalizestartupprofile.Input{
		Profile: roundTrip(t, normOut),
	})
	require.NoError(t, err)
	assert.Equal(t, normOut.NormalizedProfile.Stage, reNormOut.NormalizedProfile.Stage)
	assert.Equal(t, normOut.NormalizedProfile.Sectors, reNormOut.NormalizedProfile.Sectors)
	assert.Equal(t, normOut.NormalizedProfile.State, reNormOut.NormalizedProfile.State)
}

func TestPipeline_IdeaStageSchemeRecommendations(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	normOut, err := p.normalize.Execute(ctx, &normalizestartupprofile.Input{
		Profile: map[string]interface{}{
			"stage":        "Idea",
			"sectors":      "AgriTech",
			"hasPrototype": true,
			"needsLoan":    "no",
			"tags":         "women-led",
		},
	})
	require.NoError(t, err)

	profile := normOut.NormalizedProfile
	recOut, err := p.recommend.Execute(ctx, &recommendgovtschemes.Input{
		NormalizedProfile: &profile,
	})
	require.NoError(t, err)

	require.Equal(t, 3, recOut.Total)
	assert.Equal(t, 100, recOut.Recommendations[0].Evaluation.Score)
	assert.Equal(t, "Stand-Up India", recOut.Recommendations[2].Scheme.SchemeName)
	assert.Equal(t, 50, recOut.Recommendations[2].Evaluation.Score)
	assert.Len(t, recOut.TopMatches, 3)
}

func TestPipeline_FiltersAndLimitFlowThrough(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	matchOut, err := p.match.Execute(ctx, &matchbankprograms.Input{
		Profile: map[string]interface{}{
			"stage":    "seed",
			"sectors":  "fintech",
			"revenue":  2.0,
			"location": "Karnataka",
			"services": "current account, forex",
		},
		Filters: &matchbankprograms.Filters{ProgramType: "term-loan"},
		Limit:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, matchOut.Total)
	assert.Len(t, matchOut.Matches, 2)
	for _, m := range matchOut.Matches {
		assert.Equal(t, "term-loan", m.Type)
	}
}

func TestPipeline_SchemeCatalogSharedAcrossWorkers(t *testing.T) {
	// both catalog-backed workers share one loader; datasets load once
	p := newPipeline(t)
	ctx := context.Background()

	in := &recommendgovtschemes.Input{
		Startup: map[string]interface{}{"stage": "idea"},
	}
	first, err := p.recommend.Execute(ctx, in)
	require.NoError(t, err)
	second, err := p.recommend.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.Total, second.Total)
}
