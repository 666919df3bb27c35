package dice

import (
	"errors"
	"math/rand"
)

// randomRoller implements Roller with its own rand source, so two
// simulations never share roll streams and a fixed seed replays exactly.
type randomRoller struct {
	rng *rand.Rand
}

// NewRandomRoller creates a roller seeded with seed. The same seed always
// produces the same roll stream.
func NewRandomRoller(seed int64) Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(seed))}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, errors.New("invalid dice count")
	}
	if sides < 2 {
		return nil, errors.New("invalid dice sides")
	}

	rolls := make([]int, count)
	rawTotal := 0
	for i := 0; i < count; i++ {
		roll := r.rng.Intn(sides) + 1
		rolls[i] = roll
		rawTotal += roll
	}

	result := &RollResult{
		Total:    rawTotal + bonus,
		RawTotal: rawTotal,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
	}

	if count == 1 && sides == 20 {
		result.IsCrit = rolls[0] == 20
		result.IsFumble = rolls[0] == 1
	}

	return result, nil
}

// RollWithAdvantage implements Roller.RollWithAdvantage
func (r *randomRoller) RollWithAdvantage(sides, bonus int) (*RollResult, error) {
	return r.rollTwice(sides, bonus, true)
}

// RollWithDisadvantage implements Roller.RollWithDisadvantage
func (r *randomRoller) RollWithDisadvantage(sides, bonus int) (*RollResult, error) {
	return r.rollTwice(sides, bonus, false)
}

func (r *randomRoller) rollTwice(sides, bonus int, keepHigher bool) (*RollResult, error) {
	if sides < 2 {
		return nil, errors.New("invalid dice sides")
	}

	roll1 := r.rng.Intn(sides) + 1
	roll2 := r.rng.Intn(sides) + 1

	kept := roll1
	if keepHigher {
		if roll2 > kept {
			kept = roll2
		}
	} else if roll2 < kept {
		kept = roll2
	}

	result := &RollResult{
		Total:    kept + bonus,
		RawTotal: kept,
		Rolls:    []int{roll1, roll2},
		Bonus:    bonus,
		Count:    1,
		Sides:    sides,
	}

	if sides == 20 {
		result.IsCrit = kept == 20
		result.IsFumble = kept == 1
	}

	return result, nil
}
