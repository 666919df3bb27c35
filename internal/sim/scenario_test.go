package sim_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herald/internal/errors"
	"herald/internal/sim"
)

func validScenario() *sim.Scenario {
	return &sim.Scenario{
		Name: "valid",
		Units: []sim.UnitSpec{
			{Name: "A", Side: "red", HP: 10, AC: 10, Damage: "1d6"},
			{Name: "B", Side: "blue", HP: 10, AC: 10, Damage: "1d6"},
		},
	}
}

func TestLoadScenario(t *testing.T) {
	scen, err := sim.LoadScenario("testdata/skirmish.yaml")
	require.NoError(t, err)

	assert.Equal(t, "test skirmish", scen.Name)
	assert.Equal(t, int64(7), scen.Seed)
	assert.Equal(t, 8, scen.MaxRounds)
	require.Len(t, scen.Units, 2)

	grit := scen.Units[0]
	assert.Equal(t, "Grit", grit.Name)
	assert.Equal(t, "attackers", grit.Side)
	require.NotNil(t, grit.Rage)
	assert.Equal(t, 3, grit.Rage.Bonus)
	assert.Equal(t, 2, grit.Rage.Rounds)

	moss := scen.Units[1]
	assert.True(t, moss.DeathCry)
	assert.True(t, moss.BloodiedShout)
	assert.Nil(t, moss.Rage)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := sim.LoadScenario("testdata/no-such.yaml")
	assert.True(t, errors.IsNotFound(err))
}

func TestLoadScenarioMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("units: [not: {a: map"), 0o644))

	_, err := sim.LoadScenario(path)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestLoadScenarioInvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "half.yaml")
	data := "name: half\nunits:\n  - name: Solo\n    side: red\n    hp: 5\n    ac: 10\n    damage: 1d6\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := sim.LoadScenario(path)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*sim.Scenario)
	}{
		{
			name:   "too few units",
			mutate: func(s *sim.Scenario) { s.Units = s.Units[:1] },
		},
		{
			name:   "negative max rounds",
			mutate: func(s *sim.Scenario) { s.MaxRounds = -1 },
		},
		{
			name:   "missing unit name",
			mutate: func(s *sim.Scenario) { s.Units[0].Name = "" },
		},
		{
			name:   "duplicate unit name",
			mutate: func(s *sim.Scenario) { s.Units[1].Name = s.Units[0].Name },
		},
		{
			name:   "missing side",
			mutate: func(s *sim.Scenario) { s.Units[1].Side = "" },
		},
		{
			name:   "single side",
			mutate: func(s *sim.Scenario) { s.Units[1].Side = s.Units[0].Side },
		},
		{
			name:   "zero hp",
			mutate: func(s *sim.Scenario) { s.Units[0].HP = 0 },
		},
		{
			name:   "zero ac",
			mutate: func(s *sim.Scenario) { s.Units[0].AC = 0 },
		},
		{
			name:   "bad damage notation",
			mutate: func(s *sim.Scenario) { s.Units[0].Damage = "six" },
		},
		{
			name:   "rage without bonus",
			mutate: func(s *sim.Scenario) { s.Units[0].Rage = &sim.RageSpec{Bonus: 0, Rounds: 2} },
		},
		{
			name:   "rage without rounds",
			mutate: func(s *sim.Scenario) { s.Units[0].Rage = &sim.RageSpec{Bonus: 2, Rounds: 0} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scen := validScenario()
			tt.mutate(scen)
			err := scen.Validate()
			assert.True(t, errors.IsInvalidArgument(err), "got %v", err)
		})
	}
}

func TestScenarioValidateAccepts(t *testing.T) {
	assert.NoError(t, validScenario().Validate())
}

func TestDefaultScenario(t *testing.T) {
	scen := sim.DefaultScenario()
	require.NoError(t, scen.Validate())

	assert.Len(t, scen.Units, 4)
	sides := map[string]bool{}
	for _, u := range scen.Units {
		sides[u.Side] = true
	}
	assert.Len(t, sides, 2)
}
