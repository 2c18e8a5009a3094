// internal/workers/matching/normalize-startup-profile/handler_test.go
package normalizestartupprofile

import (
	"context"
	"testing"
	"time"

	"finmatch-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, logger.NewTestLogger(t))
}

func TestHandler_Execute_NormalizesProfile(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{
		Profile: map[string]interface{}{
			"currentStage": "MVP",
			"sector":       "Fintech, SaaS",
			"revenue":      3.0,
			"location":     "Bengaluru, Karnataka",
			"services":     "Current Account | Forex",
		},
	})
	require.NoError(t, err)

	p := output.NormalizedProfile
	assert.Equal(t, "pre-seed", p.Stage)
	assert.Equal(t, []string{"fintech", "saas"}, p.Sectors)
	assert.Equal(t, "karnataka", p.State)
	assert.Equal(t, []string{"current account", "forex"}, p.Services)
	require.NotNil(t, p.Revenue)
	assert.Equal(t, "1-5cr", p.RevenueBand.Label)
}

func TestHandler_Execute_MissingProfile(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name  string
		input *Input
	}{
		{"nil map", &Input{}},
		{"empty map", &Input{Profile: map[string]interface{}{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "PROFILE_PARSE_FAILED")
		})
	}
}

func TestHandler_Execute_UnknownFieldsIgnored(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{
		Profile: map[string]interface{}{
			"stage":        "seed",
			"founderName":  "not a matching field",
			"pitchDeckUrl": "https://example.com/deck",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "seed", output.NormalizedProfile.Stage)
	assert.Empty(t, output.NormalizedProfile.Sectors)
}
