package sim_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"herald/internal/event"
	"herald/internal/host"
	"herald/internal/sim"
)

type EffectsSuite struct {
	suite.Suite
	arena *host.Arena
	bus   *event.Bus[host.Handle]
	buf   bytes.Buffer
}

func TestEffectsSuite(t *testing.T) {
	suite.Run(t, new(EffectsSuite))
}

func (s *EffectsSuite) SetupTest() {
	s.arena = host.NewArena()
	s.bus = event.New[host.Handle](s.arena)
	s.buf.Reset()
}

func (s *EffectsSuite) logger() zerolog.Logger {
	return zerolog.New(&s.buf)
}

func (s *EffectsSuite) resolve(attacker host.Handle) *sim.AttackState {
	st := &sim.AttackState{}
	_, err := event.Emit(s.bus, sim.AttackResolving{Attacker: attacker, State: st})
	s.Require().NoError(err)
	return st
}

func (s *EffectsSuite) endRound(n int) {
	_, err := event.Emit(s.bus, sim.RoundEnded{Round: n})
	s.Require().NoError(err)
}

func (s *EffectsSuite) TestRageAddsDamageBonus() {
	bearer := s.arena.Spawn("ragnar")
	other := s.arena.Spawn("bystander")
	_, err := sim.AttachRage(s.bus, bearer, 3, 2, s.logger())
	s.Require().NoError(err)

	s.Equal(3, s.resolve(bearer).DamageBonus)
	s.Equal(0, s.resolve(other).DamageBonus, "rage only boosts its bearer")
}

func (s *EffectsSuite) TestRageGatedWhileStaggered() {
	bearer := s.arena.Spawn("ragnar")
	_, err := sim.AttachRage(s.bus, bearer, 3, 5, s.logger())
	s.Require().NoError(err)

	s.arena.SetActive(bearer, false)
	s.Equal(0, s.resolve(bearer).DamageBonus, "a staggered bearer gets no rage")

	s.arena.SetActive(bearer, true)
	s.Equal(3, s.resolve(bearer).DamageBonus)
	s.Equal(1, event.ListenerCount[sim.AttackResolving](s.bus), "gating never removes the modifier")
}

func (s *EffectsSuite) TestRageCountdownExpires() {
	bearer := s.arena.Spawn("ragnar")
	r, err := sim.AttachRage(s.bus, bearer, 2, 2, s.logger())
	s.Require().NoError(err)

	s.endRound(1)
	s.False(r.Expired())
	s.Equal(2, s.resolve(bearer).DamageBonus)

	s.endRound(2)
	s.True(r.Expired())
	s.Equal(0, s.resolve(bearer).DamageBonus)
	s.Equal(0, event.ListenerCount[sim.AttackResolving](s.bus))
	s.Equal(0, event.ListenerCount[sim.RoundEnded](s.bus), "the countdown removes itself too")
	s.Contains(s.buf.String(), "rage fades")

	// Further rounds are a no-op.
	s.endRound(3)
	s.True(r.Expired())
}

func (s *EffectsSuite) TestRageDiesWithBearer() {
	bearer := s.arena.Spawn("ragnar")
	_, err := sim.AttachRage(s.bus, bearer, 3, 5, s.logger())
	s.Require().NoError(err)
	s.Require().True(s.arena.Despawn(bearer))

	// The modifier is evicted lazily by the next resolve pass; the sweep
	// catches the countdown.
	s.Equal(0, s.resolve(bearer).DamageBonus)
	s.Equal(0, event.ListenerCount[sim.AttackResolving](s.bus))
	s.Equal(1, s.bus.Sweep())
	s.Equal(0, s.bus.TotalListenerCount())
}

func (s *EffectsSuite) TestBloodiedShoutSpeaksOnceForItsBearer() {
	bearer := s.arena.Spawn("ede")
	other := s.arena.Spawn("tamsin")
	_, err := sim.AttachBloodiedShout(s.bus, bearer, s.logger())
	s.Require().NoError(err)

	_, err = event.Emit(s.bus, sim.UnitBloodied{Unit: other, Name: "tamsin", HP: 4})
	s.Require().NoError(err)
	s.Empty(s.buf.String())
	s.Equal(1, event.ListenerCount[sim.UnitBloodied](s.bus), "another unit's bloodying must not consume the slot")

	_, err = event.Emit(s.bus, sim.UnitBloodied{Unit: bearer, Name: "ede", HP: 9})
	s.Require().NoError(err)
	s.Contains(s.buf.String(), "bellows defiance")
	s.Equal(0, event.ListenerCount[sim.UnitBloodied](s.bus))
}

func (s *EffectsSuite) TestDeathCryAnnouncesOwnDefeat() {
	bearer := s.arena.Spawn("moss")
	other := s.arena.Spawn("grit")
	_, err := sim.AttachDeathCry(s.bus, bearer, s.logger())
	s.Require().NoError(err)

	_, err = event.Emit(s.bus, sim.UnitDefeated{Unit: other, By: bearer, Name: "grit"})
	s.Require().NoError(err)
	s.Empty(s.buf.String(), "someone else's defeat is not ours to announce")

	_, err = event.Emit(s.bus, sim.UnitDefeated{Unit: bearer, By: other, Name: "moss"})
	s.Require().NoError(err)
	s.Contains(s.buf.String(), "final cry")
	s.Contains(s.buf.String(), "moss")
}

func (s *EffectsSuite) TestFirstBloodAnnouncesOnce() {
	a := s.arena.Spawn("hale")
	b := s.arena.Spawn("ogre")
	_, err := sim.AnnounceFirstBlood(s.bus, s.arena, s.logger())
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		_, err := event.Emit(s.bus, sim.AttackLanded{Attacker: a, Defender: b, Damage: 4})
		s.Require().NoError(err)
	}

	s.Equal(1, strings.Count(s.buf.String(), "first blood"))
	s.Equal(0, event.ListenerCount[sim.AttackLanded](s.bus))
}
