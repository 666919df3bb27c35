package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Notation is a parsed dice expression such as "2d6+3", "d20" or "1d8-1".
type Notation struct {
	Count int
	Sides int
	Bonus int
}

// Parse parses a dice expression. The count may be omitted ("d20" means
// "1d20") and the bonus may be negative.
func Parse(expr string) (Notation, error) {
	s := strings.ToLower(strings.TrimSpace(expr))

	var bonus int
	if i := strings.IndexAny(s, "+-"); i >= 0 {
		b, err := strconv.Atoi(s[i:])
		if err != nil {
			return Notation{}, fmt.Errorf("invalid dice notation %q", expr)
		}
		bonus = b
		s = s[:i]
	}

	countStr, sidesStr, ok := strings.Cut(s, "d")
	if !ok {
		return Notation{}, fmt.Errorf("invalid dice notation %q", expr)
	}

	count := 1
	if countStr != "" {
		c, err := strconv.Atoi(countStr)
		if err != nil {
			return Notation{}, fmt.Errorf("invalid dice notation %q", expr)
		}
		count = c
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Notation{}, fmt.Errorf("invalid dice notation %q", expr)
	}

	n := Notation{Count: count, Sides: sides, Bonus: bonus}
	if err := n.Validate(); err != nil {
		return Notation{}, err
	}
	return n, nil
}

// MustParse is Parse for notations known at compile time; it panics on
// error.
func MustParse(expr string) Notation {
	n, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return n
}

// Validate checks the notation describes rollable dice.
func (n Notation) Validate() error {
	if n.Count < 1 {
		return errors.New("dice count must be at least 1")
	}
	if n.Sides < 2 {
		return errors.New("dice must have at least 2 sides")
	}
	return nil
}

// Roll rolls the notation with r.
func (n Notation) Roll(r Roller) (*RollResult, error) {
	return r.Roll(n.Count, n.Sides, n.Bonus)
}

func (n Notation) String() string {
	if n.Bonus != 0 {
		return fmt.Sprintf("%dd%d%+d", n.Count, n.Sides, n.Bonus)
	}
	return fmt.Sprintf("%dd%d", n.Count, n.Sides)
}

// IsZero reports whether the notation is unset.
func (n Notation) IsZero() bool {
	return n == Notation{}
}
