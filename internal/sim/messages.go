package sim

import (
	"herald/internal/dice"
	"herald/internal/host"
)

// RoundStarted opens a combat round.
type RoundStarted struct {
	Round int
}

// RoundEnded closes a combat round, after every unit has acted.
type RoundEnded struct {
	Round int
}

// TurnStarted announces the unit about to act.
type TurnStarted struct {
	Round int
	Actor host.Handle
}

// AttackDeclared announces an attack before any modifiers apply.
type AttackDeclared struct {
	Round    int
	Attacker host.Handle
	Defender host.Handle
}

// AttackState accumulates modifier contributions to one attack. Handlers of
// AttackResolving mutate it through the shared pointer; the encounter reads
// the final values after the emit returns.
type AttackState struct {
	AttackBonus  int
	DamageBonus  int
	Advantage    bool
	Disadvantage bool
}

// AttackResolving is the modifier window of an attack. Effects that adjust
// attacks subscribe to it and edit State.
type AttackResolving struct {
	Attacker host.Handle
	Defender host.Handle
	State    *AttackState
}

// AttackLanded reports a hit and the damage about to be applied.
type AttackLanded struct {
	Attacker host.Handle
	Defender host.Handle
	Roll     *dice.RollResult
	Damage   int
	Critical bool
}

// AttackMissed reports a miss.
type AttackMissed struct {
	Attacker host.Handle
	Defender host.Handle
	Roll     *dice.RollResult
}

// DamageDealt reports applied damage and the target's remaining HP.
type DamageDealt struct {
	Target    host.Handle
	Amount    int
	Remaining int
}

// UnitBloodied reports a unit crossing below half HP for the first time.
// Dropping straight to zero is a defeat, not a bloodying.
type UnitBloodied struct {
	Unit host.Handle
	Name string
	HP   int
}

// UnitDefeated reports a unit dropping to zero HP. It is emitted while the
// unit's handle is still alive, so the unit's own subscriptions hear it;
// the handle is despawned immediately after. Name outlives the handle.
type UnitDefeated struct {
	Unit host.Handle
	By   host.Handle
	Name string
}

// EncounterEnded reports the outcome. Winner is empty for a draw.
type EncounterEnded struct {
	Winner    string
	Rounds    int
	Survivors []string
}
