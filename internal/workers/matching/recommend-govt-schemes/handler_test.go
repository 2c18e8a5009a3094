// internal/workers/matching/recommend-govt-schemes/handler_test.go
package recommendgovtschemes

import (
	"context"
	"testing"
	"time"

	"finmatch-workers/internal/catalog"
	"finmatch-workers/internal/common/errors"
	"finmatch-workers/internal/common/logger"
	"finmatch-workers/internal/engine/schemes"
	"finmatch-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	source := catalog.NewFileSource("", "testdata/govt_schemes.json", "testdata/scheme_rules.json")
	loader, err := catalog.NewLoader(source, catalog.NewCache(), logger.NewTestLogger(t))
	require.NoError(t, err)

	return NewHandler(&Config{Timeout: 5 * time.Second, Scores: schemes.DefaultRuleScores()}, loader, logger.NewTestLogger(t))
}

func TestHandler_Execute_RecommendsFromRawProfile(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{
		Startup: map[string]interface{}{
			"stage":        "idea",
			"sectors":      "agritech",
			"hasPrototype": true,
			"needsLoan":    false,
			"tags":         "women-led",
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, output.Total)

	// Seed Fund and PRAYAS match fully; Stand-Up India misses needs_loan
	top := output.Recommendations[0]
	assert.Equal(t, 100, top.Evaluation.Score)
	assert.Equal(t, 100, output.Recommendations[1].Evaluation.Score)
	assert.Equal(t, 50, output.Recommendations[2].Evaluation.Score)
	assert.Equal(t, "Stand-Up India", output.Recommendations[2].Scheme.SchemeName)

	assert.Len(t, output.TopMatches, 3)
}

func TestHandler_Execute_UsesNormalizedProfile(t *testing.T) {
	h := newTestHandler(t)

	tr := true
	p := models.Profile{
		Stage:           "pre-seed",
		Sectors:         []string{"fintech"},
		Services:        []string{},
		SpecialCriteria: []string{},
		BankTypes:       []string{},
		HasPrototype:    &tr,
	}

	output, err := h.Execute(context.Background(), &Input{NormalizedProfile: &p})
	require.NoError(t, err)
	require.NotEmpty(t, output.Recommendations)
	assert.Equal(t, 100, output.Recommendations[0].Evaluation.Score)
}

func TestHandler_Execute_NeutralWhenProfileUnjudgeable(t *testing.T) {
	h := newTestHandler(t)

	// a profile with no judgeable fields leaves every rule neutral, which
	// still yields recommendations, not the fallback
	output, err := h.Execute(context.Background(), &Input{
		Startup: map[string]interface{}{"founderName": "nobody"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, output.Total)
	for _, rec := range output.Recommendations {
		assert.Equal(t, schemes.DefaultRuleScores().Neutral, rec.Evaluation.Score)
	}
}

func TestHandler_Execute_MissingProfile(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROFILE_PARSE_FAILED")
}

func TestHandler_Execute_CatalogUnavailable(t *testing.T) {
	source := catalog.NewFileSource("", "testdata/govt_schemes.json", "testdata/missing.json")
	loader, err := catalog.NewLoader(source, catalog.NewCache(), logger.NewTestLogger(t))
	require.NoError(t, err)

	h := NewHandler(&Config{Timeout: 5 * time.Second, Scores: schemes.DefaultRuleScores()}, loader, logger.NewTestLogger(t))

	_, err = h.Execute(context.Background(), &Input{
		Startup: map[string]interface{}{"stage": "idea"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_LOAD_FAILED")
}

func TestRecommendationError_ScopesPlainFailures(t *testing.T) {
	err := recommendationError(context.Canceled)
	se, ok := errors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRecommendationFailed, se.Code)
	assert.False(t, se.Retryable)

	loadErr := errors.NewCatalogLoadError("scheme-rules", context.Canceled)
	assert.Equal(t, loadErr, recommendationError(loadErr))
}
