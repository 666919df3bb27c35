// Package dice rolls dice. The Roller interface is the injection point:
// simulations take a Roller so tests can script exact outcomes.
package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// Roller provides an interface for rolling dice
// This allows us to inject different implementations for testing
type Roller interface {
	// Roll rolls a number of dice with the given sides and adds a bonus
	Roll(count, sides, bonus int) (*RollResult, error)

	// RollWithAdvantage rolls with advantage (roll twice, take higher)
	RollWithAdvantage(sides, bonus int) (*RollResult, error)

	// RollWithDisadvantage rolls with disadvantage (roll twice, take lower)
	RollWithDisadvantage(sides, bonus int) (*RollResult, error)
}

// RollResult carries one roll outcome. Advantage and disadvantage rolls
// report both dice in Rolls but only the chosen one in RawTotal.
type RollResult struct {
	Total    int   // RawTotal + Bonus
	RawTotal int   // dice only
	Rolls    []int // individual dice
	Bonus    int
	Count    int
	Sides    int
	IsCrit   bool // natural 20 on a single d20
	IsFumble bool // natural 1 on a single d20
}
