package sim

import "herald/internal/dice"

// Combatant is the mutable state of one unit in an encounter. The arena
// handle that owns it carries liveness; the struct carries everything else.
type Combatant struct {
	Name        string
	Side        string
	HP          int
	MaxHP       int
	AC          int
	AttackBonus int
	Damage      dice.Notation
}

// Bloodied reports whether the unit has lost at least half its HP.
func (c *Combatant) Bloodied() bool {
	return c.HP*2 <= c.MaxHP
}
