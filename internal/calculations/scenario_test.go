package calculations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortParams(years int) Params {
	p := baseParams()
	p.HorizonYears = years
	return p
}

func TestSaveScenarioRoundTrip(t *testing.T) {
	s := simulate(t, shortParams(3))

	set, err := SaveScenario(s, "base", ScenarioSet{})
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	p := shortParams(3)
	p.Scenarios = &set
	joined := simulate(t, p)

	require.Len(t, joined.Rows, len(s.Rows))
	for _, row := range joined.Rows {
		v, ok := row.ScenarioValues["base"]
		require.True(t, ok, "%s", row.Date)
		assert.True(t, v.Equal(row.EndBalance), "%s: %s != %s", row.Date, v, row.EndBalance)
	}
}

func TestSaveScenario(t *testing.T) {
	twoYears := simulate(t, shortParams(2))
	oneYear := simulate(t, shortParams(1))

	faster := shortParams(1)
	faster.Payment = dec(3500)
	fasterYear := simulate(t, faster)

	past := shortParams(1)
	past.StartDate = date(1990, 1, 1)
	pastYear := simulate(t, past)

	tests := []struct {
		name    string
		build   func() (ScenarioSet, error)
		wantErr error
		check   func(*testing.T, ScenarioSet)
	}{
		{
			name: "dates are intersected",
			build: func() (ScenarioSet, error) {
				set, err := SaveScenario(twoYears, "long", ScenarioSet{})
				if err != nil {
					return set, err
				}
				return SaveScenario(oneYear, "short", set)
			},
			check: func(t *testing.T, set ScenarioSet) {
				assert.Equal(t, []string{"long", "short"}, set.Names())
				for _, sc := range set.Scenarios {
					assert.Len(t, sc.Series, len(oneYear.Rows), sc.Name)
				}
				assert.Equal(t, len(oneYear.Rows), set.Dates().Len())
			},
		},
		{
			name: "same name replaces the series",
			build: func() (ScenarioSet, error) {
				set, err := SaveScenario(oneYear, "plan", ScenarioSet{})
				if err != nil {
					return set, err
				}
				return SaveScenario(fasterYear, "plan", set)
			},
			check: func(t *testing.T, set ScenarioSet) {
				require.Equal(t, 1, set.Len())
				sc, ok := set.Lookup("plan")
				require.True(t, ok)
				last := sc.Series[len(sc.Series)-1]
				assert.True(t, last.EndBalance.Equal(fasterYear.Rows[len(fasterYear.Rows)-1].EndBalance))
			},
		},
		{
			name: "no common dates empties the set",
			build: func() (ScenarioSet, error) {
				set, err := SaveScenario(oneYear, "now", ScenarioSet{})
				if err != nil {
					return set, err
				}
				return SaveScenario(pastYear, "then", set)
			},
			check: func(t *testing.T, set ScenarioSet) {
				assert.Equal(t, 0, set.Len())
			},
		},
		{
			name: "name is trimmed",
			build: func() (ScenarioSet, error) {
				return SaveScenario(oneYear, "  base  ", ScenarioSet{})
			},
			check: func(t *testing.T, set ScenarioSet) {
				_, ok := set.Lookup("base")
				assert.True(t, ok)
			},
		},
		{
			name: "blank name",
			build: func() (ScenarioSet, error) {
				return SaveScenario(oneYear, "   ", ScenarioSet{})
			},
			wantErr: ErrInvalidScenarioName,
		},
		{
			name: "missing schedule",
			build: func() (ScenarioSet, error) {
				return SaveScenario(nil, "x", ScenarioSet{})
			},
			wantErr: ErrInvalidParams,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := tt.build()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, set)
		})
	}
}

func TestSaveScenarioDoesNotMutateExisting(t *testing.T) {
	twoYears := simulate(t, shortParams(2))
	oneYear := simulate(t, shortParams(1))

	existing, err := SaveScenario(twoYears, "long", ScenarioSet{})
	require.NoError(t, err)
	before := len(existing.Scenarios[0].Series)

	updated, err := SaveScenario(oneYear, "short", existing)
	require.NoError(t, err)

	assert.Equal(t, 1, existing.Len())
	assert.Len(t, existing.Scenarios[0].Series, before)
	assert.Equal(t, 2, updated.Len())
	assert.Equal(t, 0, existing.Reset().Len())
}

func TestSimulateWithoutScenarioOverlap(t *testing.T) {
	past := shortParams(1)
	past.StartDate = date(1990, 1, 1)
	set, err := SaveScenario(simulate(t, past), "old", ScenarioSet{})
	require.NoError(t, err)

	p := shortParams(1)
	p.Scenarios = &set
	s := simulate(t, p)

	assert.Empty(t, s.Rows)
	assert.True(t, hasWarning(s.Warnings, ErrNoScenarioOverlap))
}
