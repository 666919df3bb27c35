package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herald/internal/dice"
	mockdice "herald/internal/dice/mock"
)

func TestManualMockRoller_Roll(t *testing.T) {
	tests := []struct {
		name       string
		setupRolls []int
		count      int
		sides      int
		bonus      int
		wantTotal  int
		wantRolls  []int
		wantCrit   bool
		wantFumble bool
		wantErr    bool
	}{
		{
			name:       "single d20 roll",
			setupRolls: []int{15},
			count:      1,
			sides:      20,
			bonus:      0,
			wantTotal:  15,
			wantRolls:  []int{15},
		},
		{
			name:       "2d6+3",
			setupRolls: []int{4, 5},
			count:      2,
			sides:      6,
			bonus:      3,
			wantTotal:  12, // 4+5+3
			wantRolls:  []int{4, 5},
		},
		{
			name:       "critical hit d20",
			setupRolls: []int{20},
			count:      1,
			sides:      20,
			bonus:      5,
			wantTotal:  25,
			wantRolls:  []int{20},
			wantCrit:   true,
		},
		{
			name:       "fumble d20",
			setupRolls: []int{1},
			count:      1,
			sides:      20,
			bonus:      5,
			wantTotal:  6,
			wantRolls:  []int{1},
			wantFumble: true,
		},
		{
			name:       "not enough rolls",
			setupRolls: []int{10},
			count:      2,
			sides:      6,
			bonus:      0,
			wantErr:    true,
		},
		{
			name:       "invalid roll for die size",
			setupRolls: []int{7},
			count:      1,
			sides:      6,
			bonus:      0,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.setupRolls)

			result, err := roller.Roll(tt.count, tt.sides, tt.bonus)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.Total)
			assert.Equal(t, tt.wantRolls, result.Rolls)
			assert.Equal(t, tt.wantCrit, result.IsCrit)
			assert.Equal(t, tt.wantFumble, result.IsFumble)
		})
	}
}

func TestManualMockRoller_RollWithAdvantage(t *testing.T) {
	tests := []struct {
		name       string
		setupRolls []int
		sides      int
		bonus      int
		wantTotal  int
		wantKept   int
	}{
		{
			name:       "advantage takes higher",
			setupRolls: []int{10, 15},
			sides:      20,
			bonus:      3,
			wantTotal:  18, // 15+3
			wantKept:   15,
		},
		{
			name:       "advantage with same rolls",
			setupRolls: []int{12, 12},
			sides:      20,
			bonus:      0,
			wantTotal:  12,
			wantKept:   12,
		},
		{
			name:       "advantage first roll higher",
			setupRolls: []int{17, 8},
			sides:      20,
			bonus:      2,
			wantTotal:  19, // 17+2
			wantKept:   17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.setupRolls)

			result, err := roller.RollWithAdvantage(tt.sides, tt.bonus)

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.Total)
			assert.Equal(t, tt.wantKept, result.RawTotal)
			assert.Len(t, result.Rolls, 2, "advantage should roll twice")
		})
	}
}

func TestManualMockRoller_RollWithDisadvantage(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{10, 15})

	result, err := roller.RollWithDisadvantage(20, 3)

	require.NoError(t, err)
	assert.Equal(t, 13, result.Total, "disadvantage should keep the lower roll")
	assert.Equal(t, 10, result.RawTotal)
	assert.Len(t, result.Rolls, 2, "disadvantage should roll twice")
}

func TestManualMockRoller_SequentialRolls(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{20, 1, 15, 8})

	// First roll - critical
	result, err := roller.Roll(1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, result.Total)
	assert.True(t, result.IsCrit)

	// Second roll - fumble
	result, err = roller.Roll(1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.True(t, result.IsFumble)

	// Third roll - normal hit
	result, err = roller.Roll(1, 20, 5)
	require.NoError(t, err)
	assert.Equal(t, 20, result.Total) // 15+5
	assert.False(t, result.IsCrit)

	// Fourth roll - damage
	result, err = roller.Roll(1, 8, 3)
	require.NoError(t, err)
	assert.Equal(t, 11, result.Total) // 8+3

	// Fifth roll should error - script exhausted
	_, err = roller.Roll(1, 20, 0)
	assert.Error(t, err)
}

func TestRandomRoller_Bounds(t *testing.T) {
	roller := dice.NewRandomRoller(1)

	result, err := roller.Roll(2, 6, 3)
	require.NoError(t, err)
	assert.Len(t, result.Rolls, 2)
	assert.GreaterOrEqual(t, result.Total, 5) // minimum: 1+1+3
	assert.LessOrEqual(t, result.Total, 15)   // maximum: 6+6+3
	assert.Equal(t, result.Total, result.RawTotal+result.Bonus)

	advResult, err := roller.RollWithAdvantage(20, 2)
	require.NoError(t, err)
	assert.Len(t, advResult.Rolls, 2, "advantage should roll twice")
	for _, roll := range advResult.Rolls {
		assert.GreaterOrEqual(t, roll, 1)
		assert.LessOrEqual(t, roll, 20)
	}
	assert.GreaterOrEqual(t, advResult.RawTotal, min(advResult.Rolls[0], advResult.Rolls[1]))

	disResult, err := roller.RollWithDisadvantage(20, 2)
	require.NoError(t, err)
	assert.Len(t, disResult.Rolls, 2, "disadvantage should roll twice")
	assert.LessOrEqual(t, disResult.RawTotal, max(disResult.Rolls[0], disResult.Rolls[1]))
}

func TestRandomRoller_SeedReplays(t *testing.T) {
	a := dice.NewRandomRoller(42)
	b := dice.NewRandomRoller(42)

	for i := 0; i < 20; i++ {
		ra, err := a.Roll(3, 8, 1)
		require.NoError(t, err)
		rb, err := b.Roll(3, 8, 1)
		require.NoError(t, err)
		assert.Equal(t, ra.Rolls, rb.Rolls, "same seed must replay the same stream")
	}
}

func TestRandomRoller_Validation(t *testing.T) {
	roller := dice.NewRandomRoller(7)

	_, err := roller.Roll(0, 6, 0)
	assert.Error(t, err)

	_, err = roller.Roll(1, 1, 0)
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		expr    string
		want    dice.Notation
		wantErr bool
	}{
		{expr: "2d6+3", want: dice.Notation{Count: 2, Sides: 6, Bonus: 3}},
		{expr: "d20", want: dice.Notation{Count: 1, Sides: 20}},
		{expr: "1d8-1", want: dice.Notation{Count: 1, Sides: 8, Bonus: -1}},
		{expr: " 4D10 ", want: dice.Notation{Count: 4, Sides: 10}},
		{expr: "1d12+0", want: dice.Notation{Count: 1, Sides: 12}},
		{expr: "", wantErr: true},
		{expr: "banana", wantErr: true},
		{expr: "2d", wantErr: true},
		{expr: "0d6", wantErr: true},
		{expr: "1d1", wantErr: true},
		{expr: "1d6+x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := dice.Parse(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNotation_String(t *testing.T) {
	assert.Equal(t, "2d6+3", dice.Notation{Count: 2, Sides: 6, Bonus: 3}.String())
	assert.Equal(t, "1d8-1", dice.Notation{Count: 1, Sides: 8, Bonus: -1}.String())
	assert.Equal(t, "1d20", dice.Notation{Count: 1, Sides: 20}.String())
}

func TestNotation_Roll(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{3, 4})

	result, err := dice.MustParse("2d6+2").Roll(roller)
	require.NoError(t, err)
	assert.Equal(t, 9, result.Total)
}
