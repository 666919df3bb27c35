// Package sim runs small turn-based skirmishes on top of the event bus.
// Every interaction between units travels as a typed message; effects are
// nothing but subscriptions scoped to the unit that carries them.
package sim

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"herald/internal/dice"
	"herald/internal/errors"
	"herald/internal/event"
	"herald/internal/host"
)

var _ event.Liveness[host.Handle] = (*host.Arena)(nil)

const defaultMaxRounds = 20

// EncounterConfig configures NewEncounter. Scenario is required; a nil
// Roller gets a random roller seeded from the scenario (or the clock).
type EncounterConfig struct {
	Scenario  *Scenario
	Roller    dice.Roller
	Logger    zerolog.Logger
	MaxRounds int // overrides the scenario when > 0
}

// Encounter owns an arena, a bus and a roster, and drives rounds until one
// side stands alone or the round cap is hit. It runs entirely on the
// calling goroutine.
type Encounter struct {
	scenario  *Scenario
	arena     *host.Arena
	bus       *event.Bus[host.Handle]
	roller    dice.Roller
	log       zerolog.Logger
	maxRounds int

	units map[host.Handle]*Combatant
	order []host.Handle
	round int
	atk   AttackState
	done  bool
}

// NewEncounter validates the scenario, spawns its units and attaches their
// effects.
func NewEncounter(cfg *EncounterConfig) (*Encounter, error) {
	if cfg == nil || cfg.Scenario == nil {
		return nil, errors.InvalidArgument("scenario is required")
	}
	if err := cfg.Scenario.Validate(); err != nil {
		return nil, err
	}

	roller := cfg.Roller
	if roller == nil {
		seed := cfg.Scenario.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		roller = dice.NewRandomRoller(seed)
	}

	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = cfg.Scenario.MaxRounds
	}
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}

	arena := host.NewArena()
	e := &Encounter{
		scenario:  cfg.Scenario,
		arena:     arena,
		bus:       event.New[host.Handle](arena, event.WithLogger(cfg.Logger)),
		roller:    roller,
		log:       cfg.Logger,
		maxRounds: maxRounds,
		units:     make(map[host.Handle]*Combatant, len(cfg.Scenario.Units)),
	}

	for i := range cfg.Scenario.Units {
		spec := &cfg.Scenario.Units[i]
		h := arena.Spawn(spec.Name)
		e.units[h] = &Combatant{
			Name:        spec.Name,
			Side:        spec.Side,
			HP:          spec.HP,
			MaxHP:       spec.HP,
			AC:          spec.AC,
			AttackBonus: spec.AttackBonus,
			Damage:      dice.MustParse(spec.Damage),
		}
		e.order = append(e.order, h)

		e.log.Debug().
			Str("unit", spec.Name).
			Str("side", spec.Side).
			Str("ref", arena.Ref(h)).
			Msg("takes the field")

		if spec.Rage != nil {
			if _, err := AttachRage(e.bus, h, spec.Rage.Bonus, spec.Rage.Rounds, e.log); err != nil {
				return nil, errors.Wrap(err, "attach rage")
			}
		}
		if spec.BloodiedShout {
			if _, err := AttachBloodiedShout(e.bus, h, e.log); err != nil {
				return nil, errors.Wrap(err, "attach bloodied shout")
			}
		}
		if spec.DeathCry {
			if _, err := AttachDeathCry(e.bus, h, e.log); err != nil {
				return nil, errors.Wrap(err, "attach death cry")
			}
		}
	}

	if _, err := AnnounceFirstBlood(e.bus, arena, e.log); err != nil {
		return nil, errors.Wrap(err, "attach first blood")
	}

	return e, nil
}

// Bus exposes the encounter's bus for waiters and extra subscriptions.
// Subscribe before Run starts, or from inside a handler.
func (e *Encounter) Bus() *event.Bus[host.Handle] { return e.bus }

// Arena exposes the encounter's arena.
func (e *Encounter) Arena() *host.Arena { return e.arena }

// Round returns the current round number.
func (e *Encounter) Round() int { return e.round }

// Lookup finds a unit by name.
func (e *Encounter) Lookup(name string) (host.Handle, *Combatant, error) {
	for _, h := range e.order {
		if c := e.units[h]; c.Name == name {
			return h, c, nil
		}
	}
	return host.Handle{}, nil, errors.NotFoundf("unit %q", name).
		WithMeta("scenario", e.scenario.Name)
}

// Run drives rounds until one side stands alone, the round cap is hit, or
// ctx is done. The outcome is emitted as EncounterEnded before Run returns.
// Run can only be called once.
func (e *Encounter) Run(ctx context.Context) error {
	if e.done {
		return errors.InvalidState("encounter already ran")
	}
	e.done = true

	e.log.Info().
		Str("scenario", e.scenario.Name).
		Int("units", len(e.order)).
		Int("max_rounds", e.maxRounds).
		Msg("encounter begins")

	for e.round = 1; e.round <= e.maxRounds; e.round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.runRound(); err != nil {
			return err
		}
		if winner, over := e.outcome(); over {
			return e.finish(winner, e.round)
		}
	}
	return e.finish("", e.maxRounds)
}

func (e *Encounter) runRound() error {
	if _, err := event.Emit(e.bus, RoundStarted{Round: e.round}); err != nil {
		return err
	}

	// Defeated units stay in the order; liveness is the arena's call.
	for i := 0; i < len(e.order); i++ {
		h := e.order[i]
		if !e.arena.Alive(h) {
			continue
		}
		if _, over := e.outcome(); over {
			break
		}
		if err := e.takeTurn(h); err != nil {
			return err
		}
	}

	if _, err := event.Emit(e.bus, RoundEnded{Round: e.round}); err != nil {
		return err
	}

	if evicted := e.bus.Sweep(); evicted > 0 {
		e.log.Debug().Int("evicted", evicted).Int("round", e.round).Msg("fallen units released their subscriptions")
	}
	return nil
}

func (e *Encounter) takeTurn(actor host.Handle) error {
	if _, err := event.Emit(e.bus, TurnStarted{Round: e.round, Actor: actor}); err != nil {
		return err
	}

	if !e.arena.Active(actor) {
		e.arena.SetActive(actor, true)
		e.log.Info().Str("unit", e.arena.Label(actor)).Msg("shakes off the stagger")
		return nil
	}

	target, ok := e.pickTarget(actor)
	if !ok {
		return nil
	}
	return e.attack(actor, target)
}

// pickTarget returns the first living enemy in initiative order.
func (e *Encounter) pickTarget(attacker host.Handle) (host.Handle, bool) {
	side := e.units[attacker].Side
	for _, h := range e.order {
		if h == attacker || !e.arena.Alive(h) {
			continue
		}
		if e.units[h].Side != side {
			return h, true
		}
	}
	return host.Handle{}, false
}

func (e *Encounter) attack(attacker, defender host.Handle) error {
	atk := e.units[attacker]
	def := e.units[defender]

	if _, err := event.Emit(e.bus, AttackDeclared{Round: e.round, Attacker: attacker, Defender: defender}); err != nil {
		return err
	}

	e.atk = AttackState{AttackBonus: atk.AttackBonus}
	if !e.arena.Active(defender) {
		e.atk.Advantage = true
	}
	if _, err := event.Emit(e.bus, AttackResolving{Attacker: attacker, Defender: defender, State: &e.atk}); err != nil {
		return err
	}

	roll, err := e.rollAttack()
	if err != nil {
		return errors.Wrap(err, "attack roll")
	}

	hit := !roll.IsFumble && (roll.IsCrit || roll.Total >= def.AC)
	if !hit {
		e.log.Info().
			Str("attacker", atk.Name).
			Str("defender", def.Name).
			Int("roll", roll.Total).
			Msg("attack misses")
		_, err := event.Emit(e.bus, AttackMissed{Attacker: attacker, Defender: defender, Roll: roll})
		return err
	}

	damageDice := atk.Damage
	if roll.IsCrit {
		// Crits double the dice, not the bonus.
		damageDice.Count *= 2
	}
	dmg, err := damageDice.Roll(e.roller)
	if err != nil {
		return errors.Wrap(err, "damage roll")
	}
	total := dmg.Total + e.atk.DamageBonus
	if total < 1 {
		total = 1
	}

	e.log.Info().
		Str("attacker", atk.Name).
		Str("defender", def.Name).
		Int("roll", roll.Total).
		Int("damage", total).
		Bool("critical", roll.IsCrit).
		Msg("attack lands")

	if _, err := event.Emit(e.bus, AttackLanded{Attacker: attacker, Defender: defender, Roll: roll, Damage: total, Critical: roll.IsCrit}); err != nil {
		return err
	}

	if roll.IsCrit && e.arena.Active(defender) {
		e.arena.SetActive(defender, false)
		e.log.Info().Str("unit", def.Name).Msg("staggered by the critical hit")
	}

	return e.applyDamage(attacker, defender, total)
}

func (e *Encounter) rollAttack() (*dice.RollResult, error) {
	switch {
	case e.atk.Advantage && !e.atk.Disadvantage:
		return e.roller.RollWithAdvantage(20, e.atk.AttackBonus)
	case e.atk.Disadvantage && !e.atk.Advantage:
		return e.roller.RollWithDisadvantage(20, e.atk.AttackBonus)
	default:
		return e.roller.Roll(1, 20, e.atk.AttackBonus)
	}
}

func (e *Encounter) applyDamage(attacker, defender host.Handle, amount int) error {
	def := e.units[defender]
	wasBloodied := def.Bloodied()
	def.HP -= amount
	if def.HP < 0 {
		def.HP = 0
	}

	if _, err := event.Emit(e.bus, DamageDealt{Target: defender, Amount: amount, Remaining: def.HP}); err != nil {
		return err
	}
	if def.HP > 0 {
		if !wasBloodied && def.Bloodied() {
			e.log.Info().Str("unit", def.Name).Int("hp", def.HP).Msg("is bloodied")
			_, err := event.Emit(e.bus, UnitBloodied{Unit: defender, Name: def.Name, HP: def.HP})
			return err
		}
		return nil
	}

	e.log.Info().
		Str("unit", def.Name).
		Str("ref", e.arena.Ref(defender)).
		Str("by", e.units[attacker].Name).
		Msg("falls")
	// Announce while the handle is still alive, then despawn; the next
	// sweep evicts whatever the unit was subscribed to.
	if _, err := event.Emit(e.bus, UnitDefeated{Unit: defender, By: attacker, Name: def.Name}); err != nil {
		return err
	}
	e.arena.Despawn(defender)
	return nil
}

// outcome reports the winning side once at most one side has living units.
// All units dead is a draw.
func (e *Encounter) outcome() (string, bool) {
	var side string
	for h, c := range e.units {
		if !e.arena.Alive(h) {
			continue
		}
		if side == "" {
			side = c.Side
		} else if side != c.Side {
			return "", false
		}
	}
	return side, true
}

func (e *Encounter) finish(winner string, rounds int) error {
	survivors := make([]string, 0, len(e.order))
	for _, h := range e.order {
		if e.arena.Alive(h) {
			survivors = append(survivors, e.units[h].Name)
		}
	}

	stats := e.bus.Stats()
	evt := e.log.Info().
		Int("rounds", rounds).
		Strs("survivors", survivors).
		Uint64("emits", stats.Emits).
		Uint64("deliveries", stats.Deliveries).
		Uint64("evictions", stats.Evictions)
	if winner == "" {
		evt.Msg("encounter ends in a draw")
	} else {
		evt.Str("winner", winner).Msg("encounter won")
	}

	_, err := event.Emit(e.bus, EncounterEnded{Winner: winner, Rounds: rounds, Survivors: survivors})
	return err
}
