// internal/engine/matching/pipeline_test.go
package matching

import (
	"testing"

	"finmatch-workers/internal/engine/scoring"
	"finmatch-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func matchingProfile() models.Profile {
	return models.Profile{
		Stage:           "seed",
		Sectors:         []string{"fintech"},
		Revenue:         f(3),
		State:           "karnataka",
		Services:        []string{"current account"},
		SpecialCriteria: []string{},
		BankTypes:       []string{},
	}
}

func program(id string, el models.ProgramEligibility) models.Program {
	return models.Program{ID: id, Name: id, Type: "term-loan", Eligibility: el}
}

func TestParseFilters(t *testing.T) {
	filters := ParseFilters("Term-Loan, Credit-Line", []interface{}{"Private"})
	assert.Equal(t, []string{"term-loan", "credit-line"}, filters.ProgramTypes)
	assert.Equal(t, []string{"private"}, filters.BankTypes)

	empty := ParseFilters(nil, "")
	assert.Empty(t, empty.ProgramTypes)
	assert.Empty(t, empty.BankTypes)
}

func TestMatch_FiltersBeforeEligibility(t *testing.T) {
	catalog := []models.Program{
		{ID: "a", Type: "term-loan"},
		{ID: "b", Type: "credit-line"},
		{ID: "c", Type: "term-loan", BankType: "public"},
	}

	set := Match(matchingProfile(), catalog, Filters{ProgramTypes: []string{"term-loan"}}, 0, scoring.DefaultWeights())
	require.Equal(t, 2, set.Total)

	set = Match(matchingProfile(), catalog, Filters{ProgramTypes: []string{"term-loan"}, BankTypes: []string{"public"}}, 0, scoring.DefaultWeights())
	require.Equal(t, 1, set.Total)
	assert.Equal(t, "c", set.Matches[0].ID)
}

func TestMatch_IneligibleProgramsExcluded(t *testing.T) {
	catalog := []models.Program{
		program("eligible", models.ProgramEligibility{Stages: []string{"seed"}}),
		program("wrong-stage", models.ProgramEligibility{Stages: []string{"growth"}}),
		program("wrong-state", models.ProgramEligibility{States: []string{"tamil nadu"}}),
	}

	set := Match(matchingProfile(), catalog, Filters{}, 0, scoring.DefaultWeights())
	require.Equal(t, 1, set.Total)
	assert.Equal(t, "eligible", set.Matches[0].ID)
}

func TestMatch_SortedDescendingStable(t *testing.T) {
	// neutral-60 programs declare nothing; the stage program scores 100
	catalog := []models.Program{
		program("neutral-1", models.ProgramEligibility{}),
		program("full", models.ProgramEligibility{Stages: []string{"seed"}}),
		program("neutral-2", models.ProgramEligibility{}),
	}

	set := Match(matchingProfile(), catalog, Filters{}, 0, scoring.DefaultWeights())
	require.Len(t, set.Matches, 3)
	assert.Equal(t, "full", set.Matches[0].ID)
	assert.Equal(t, 100, set.Matches[0].Score)

	// ties keep catalog order
	assert.Equal(t, "neutral-1", set.Matches[1].ID)
	assert.Equal(t, "neutral-2", set.Matches[2].ID)
	assert.Equal(t, 60, set.Matches[1].Score)
}

func TestMatch_LimitAndTotal(t *testing.T) {
	catalog := make([]models.Program, 0, 15)
	for i := 0; i < 15; i++ {
		catalog = append(catalog, program(string(rune('a'+i)), models.ProgramEligibility{}))
	}

	set := Match(matchingProfile(), catalog, Filters{}, 0, scoring.DefaultWeights())
	assert.Equal(t, 15, set.Total)
	assert.Len(t, set.Matches, DefaultLimit)

	set = Match(matchingProfile(), catalog, Filters{}, 4, scoring.DefaultWeights())
	assert.Equal(t, 15, set.Total)
	assert.Len(t, set.Matches, 4)
}

func TestMatch_TopPicksInvariant(t *testing.T) {
	tests := []struct {
		name     string
		programs int
		wantTop  int
	}{
		{"more than three", 5, 3},
		{"exactly three", 3, 3},
		{"fewer than three", 2, 2},
		{"empty", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := make([]models.Program, 0, tt.programs)
			for i := 0; i < tt.programs; i++ {
				catalog = append(catalog, program(string(rune('a'+i)), models.ProgramEligibility{}))
			}

			set := Match(matchingProfile(), catalog, Filters{}, 0, scoring.DefaultWeights())
			require.Len(t, set.TopPicks, tt.wantTop)
			for i := range set.TopPicks {
				assert.Equal(t, set.Matches[i].ID, set.TopPicks[i].ID)
			}
		})
	}
}

func TestMatch_EmptyResultIsValid(t *testing.T) {
	catalog := []models.Program{
		program("growth-only", models.ProgramEligibility{Stages: []string{"growth"}}),
	}

	set := Match(matchingProfile(), catalog, Filters{}, 0, scoring.DefaultWeights())
	assert.Equal(t, 0, set.Total)
	assert.Empty(t, set.Matches)
	assert.Empty(t, set.TopPicks)
	assert.NotNil(t, set.Matches)
}
