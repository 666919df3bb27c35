package sim

import (
	"github.com/rs/zerolog"

	"herald/internal/event"
	"herald/internal/host"
)

// Rage boosts the bearer's damage for a limited number of rounds. It holds
// two subscriptions: a modifier on AttackResolving, gated on the bearer
// being active, and a countdown on RoundEnded that removes both when the
// rage runs out. Both die with the bearer without any explicit teardown.
type Rage struct {
	bus       *event.Bus[host.Handle]
	bearer    host.Handle
	bonus     int
	remaining int
	modifier  event.ID
	countdown event.ID
	log       zerolog.Logger
}

// AttachRage registers a rage effect on bearer.
func AttachRage(bus *event.Bus[host.Handle], bearer host.Handle, bonus, rounds int, log zerolog.Logger) (*Rage, error) {
	r := &Rage{
		bus:       bus,
		bearer:    bearer,
		bonus:     bonus,
		remaining: rounds,
		log:       log,
	}

	modifier, err := event.Subscribe(bus, bearer, r.onAttackResolving, event.WithActiveOnly())
	if err != nil {
		return nil, err
	}
	countdown, err := event.Subscribe(bus, bearer, r.onRoundEnded)
	if err != nil {
		event.Unsubscribe(bus, modifier)
		return nil, err
	}

	r.modifier = modifier
	r.countdown = countdown
	return r, nil
}

func (r *Rage) onAttackResolving(bearer host.Handle, m AttackResolving) error {
	if m.Attacker != bearer {
		return nil
	}
	m.State.DamageBonus += r.bonus
	return nil
}

func (r *Rage) onRoundEnded(bearer host.Handle, _ RoundEnded) error {
	r.remaining--
	if r.remaining > 0 {
		return nil
	}
	event.Unsubscribe(r.bus, r.modifier)
	event.Unsubscribe(r.bus, r.countdown)
	r.log.Info().Stringer("bearer", bearer).Msg("rage fades")
	return nil
}

// Expired reports whether the rage has run out.
func (r *Rage) Expired() bool {
	return r.remaining <= 0
}

// AttachBloodiedShout makes bearer bellow the first time it is bloodied.
// The handler filters on the bearer and removes itself after it speaks; a
// Once slot would be consumed by any unit's bloodying.
func AttachBloodiedShout(bus *event.Bus[host.Handle], bearer host.Handle, log zerolog.Logger) (event.ID, error) {
	var id event.ID
	id, err := event.Subscribe(bus, bearer, func(h host.Handle, m UnitBloodied) error {
		if m.Unit != h {
			return nil
		}
		log.Info().Str("unit", m.Name).Int("hp", m.HP).Msg("bellows defiance")
		event.Unsubscribe(bus, id)
		return nil
	})
	return id, err
}

// AttachDeathCry makes bearer announce its own defeat. The subscription
// rides on the bearer's liveness: once the defeat is announced the bearer
// despawns and the slot is swept with everything else it held.
func AttachDeathCry(bus *event.Bus[host.Handle], bearer host.Handle, log zerolog.Logger) (event.ID, error) {
	return event.Subscribe(bus, bearer, func(h host.Handle, m UnitDefeated) error {
		if m.Unit != h {
			return nil
		}
		log.Info().Str("unit", m.Name).Msg("lets out a final cry")
		return nil
	})
}

// AnnounceFirstBlood logs the first landed hit of the encounter, then
// removes itself.
func AnnounceFirstBlood(bus *event.Bus[host.Handle], arena *host.Arena, log zerolog.Logger) (*event.Subscription[host.Handle], error) {
	return event.SubscribeManual(bus, func(m AttackLanded) error {
		log.Info().
			Str("attacker", arena.Label(m.Attacker)).
			Str("defender", arena.Label(m.Defender)).
			Int("damage", m.Damage).
			Msg("first blood")
		return nil
	}, event.WithOnce())
}
