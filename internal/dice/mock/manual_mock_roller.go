package mockdice

import (
	"fmt"
	"sync"

	"herald/internal/dice"
)

// ManualMockRoller implements dice.Roller with a scripted sequence of die
// faces. Unlike the generated mock, it needs no per-call expectations:
// script the faces once and run a whole encounter against them.
type ManualMockRoller struct {
	mu        sync.Mutex
	rolls     []int
	rollIndex int
}

// NewManualMockRoller creates a new scripted roller.
func NewManualMockRoller() *ManualMockRoller {
	return &ManualMockRoller{
		rolls: []int{},
	}
}

// SetNextRoll appends one face to the script.
func (m *ManualMockRoller) SetNextRoll(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = append(m.rolls, roll)
}

// SetRolls replaces the script and rewinds it.
func (m *ManualMockRoller) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// Reset clears the script and rewinds it.
func (m *ManualMockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = []int{}
	m.rollIndex = 0
}

// getNextRoll returns the next scripted face.
func (m *ManualMockRoller) getNextRoll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex >= len(m.rolls) {
		return 0, fmt.Errorf("no more scripted rolls available (used %d of %d)", m.rollIndex, len(m.rolls))
	}

	roll := m.rolls[m.rollIndex]
	m.rollIndex++
	return roll, nil
}

// Roll implements dice.Roller.Roll
func (m *ManualMockRoller) Roll(count, sides, bonus int) (*dice.RollResult, error) {
	rolls := make([]int, count)
	rawTotal := 0

	for i := 0; i < count; i++ {
		roll, err := m.getNextRoll()
		if err != nil {
			return nil, err
		}
		if roll < 1 || roll > sides {
			return nil, fmt.Errorf("invalid roll %d for d%d", roll, sides)
		}
		rolls[i] = roll
		rawTotal += roll
	}

	result := &dice.RollResult{
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

// RollWithAdvantage implements dice.Roller.RollWithAdvantage
func (m *ManualMockRoller) RollWithAdvantage(sides, bonus int) (*dice.RollResult, error) {
	return m.rollTwice(sides, bonus, true)
}

// RollWithDisadvantage implements dice.Roller.RollWithDisadvantage
func (m *ManualMockRoller) RollWithDisadvantage(sides, bonus int) (*dice.RollResult, error) {
	return m.rollTwice(sides, bonus, false)
}

func (m *ManualMockRoller) rollTwice(sides, bonus int, keepHigher bool) (*dice.RollResult, error) {
	roll1, err := m.getNextRoll()
	if err != nil {
		return nil, err
	}

	roll2, err := m.getNextRoll()
	if err != nil {
		return nil, err
	}

	if roll1 < 1 || roll1 > sides || roll2 < 1 || roll2 > sides {
		return nil, fmt.Errorf("invalid rolls %d,%d for d%d", roll1, roll2, sides)
	}

	kept := roll1
	if keepHigher {
		if roll2 > kept {
			kept = roll2
		}
	} else if roll2 < kept {
		kept = roll2
	}

	result := &dice.RollResult{
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
