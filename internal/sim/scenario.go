package sim

import (
	"os"

	"gopkg.in/yaml.v3"

	"herald/internal/dice"
	"herald/internal/errors"
)

// Scenario describes the roster of one encounter.
type Scenario struct {
	Name      string     `yaml:"name"`
	Seed      int64      `yaml:"seed,omitempty"`
	MaxRounds int        `yaml:"max_rounds,omitempty"`
	Units     []UnitSpec `yaml:"units"`
}

// UnitSpec describes one combatant and the effects attached to it at spawn.
type UnitSpec struct {
	Name          string    `yaml:"name"`
	Side          string    `yaml:"side"`
	HP            int       `yaml:"hp"`
	AC            int       `yaml:"ac"`
	AttackBonus   int       `yaml:"attack_bonus"`
	Damage        string    `yaml:"damage"`
	Rage          *RageSpec `yaml:"rage,omitempty"`
	BloodiedShout bool      `yaml:"bloodied_shout,omitempty"`
	DeathCry      bool      `yaml:"death_cry,omitempty"`
}

// RageSpec configures a rage effect: bonus damage for a number of rounds.
type RageSpec struct {
	Bonus  int `yaml:"bonus"`
	Rounds int `yaml:"rounds"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeNotFound, "read scenario")
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "parse scenario")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario describes a fightable encounter.
func (s *Scenario) Validate() error {
	if len(s.Units) < 2 {
		return errors.InvalidArgument("scenario needs at least 2 units")
	}
	if s.MaxRounds < 0 {
		return errors.InvalidArgument("max_rounds cannot be negative")
	}

	names := make(map[string]bool, len(s.Units))
	sides := make(map[string]bool)
	for i := range s.Units {
		u := &s.Units[i]
		if u.Name == "" {
			return errors.InvalidArgumentf("unit %d: name is required", i)
		}
		if names[u.Name] {
			return errors.InvalidArgumentf("unit %q: duplicate name", u.Name)
		}
		names[u.Name] = true
		if u.Side == "" {
			return errors.InvalidArgumentf("unit %q: side is required", u.Name)
		}
		sides[u.Side] = true
		if u.HP < 1 {
			return errors.InvalidArgumentf("unit %q: hp must be at least 1", u.Name)
		}
		if u.AC < 1 {
			return errors.InvalidArgumentf("unit %q: ac must be at least 1", u.Name)
		}
		if _, err := dice.Parse(u.Damage); err != nil {
			return errors.WrapWithCode(err, errors.CodeInvalidArgument, "unit "+u.Name+": damage")
		}
		if u.Rage != nil {
			if u.Rage.Bonus < 1 {
				return errors.InvalidArgumentf("unit %q: rage bonus must be at least 1", u.Name)
			}
			if u.Rage.Rounds < 1 {
				return errors.InvalidArgumentf("unit %q: rage rounds must be at least 1", u.Name)
			}
		}
	}

	if len(sides) < 2 {
		return errors.InvalidArgument("scenario needs at least 2 sides")
	}
	return nil
}

// DefaultScenario is the built-in roster used when no scenario file is
// given: a pair of raiders against a pair of wardens.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:      "border skirmish",
		MaxRounds: 20,
		Units: []UnitSpec{
			{
				Name:        "Brakk",
				Side:        "raiders",
				HP:          32,
				AC:          14,
				AttackBonus: 5,
				Damage:      "1d12+3",
				Rage:        &RageSpec{Bonus: 2, Rounds: 3},
				DeathCry:    true,
			},
			{
				Name:        "Sly",
				Side:        "raiders",
				HP:          22,
				AC:          15,
				AttackBonus: 6,
				Damage:      "2d6+2",
			},
			{
				Name:          "Captain Ede",
				Side:          "wardens",
				HP:            30,
				AC:            17,
				AttackBonus:   6,
				Damage:        "1d8+4",
				BloodiedShout: true,
			},
			{
				Name:        "Tamsin",
				Side:        "wardens",
				HP:          24,
				AC:          13,
				AttackBonus: 5,
				Damage:      "1d10+3",
				DeathCry:    true,
			},
		},
	}
}
