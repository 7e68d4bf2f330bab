// Package dice rolls polyhedral dice on a seeded Mersenne Twister stream.
package dice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/louisbranch/twister/internal/random/mt"
)

// ErrMissingDice indicates a roll request had no dice specified.
var ErrMissingDice = errors.New("at least one die must be provided")

// ErrInvalidDiceSpec indicates a die specification has invalid fields.
var ErrInvalidDiceSpec = errors.New("dice must have positive sides and count")

// MaxDiceCount bounds the dice rolled for a single spec.
const MaxDiceCount = 10000

// DiceSpec describes a die to roll and how many times to roll it.
type DiceSpec struct {
	Sides int
	Count int
}

// String renders the spec in NdM notation.
func (s DiceSpec) String() string {
	return fmt.Sprintf("%dd%d", s.Count, s.Sides)
}

// DieRoll captures the results for a single dice spec.
type DieRoll struct {
	Sides   int
	Results []int
	Total   int
}

// RollRequest describes a request to roll one or more dice.
type RollRequest struct {
	Dice []DiceSpec
	Seed uint32
}

// RollResult captures the results from rolling multiple dice.
type RollResult struct {
	Rolls []DieRoll
	Total int
}

// RollDice rolls dice based on the provided request.
//
// # Determinism
//
// RollDice is deterministic with respect to the Seed field on RollRequest.
// Given the same Seed and the same Dice slice (including order and values),
// RollDice will always produce the same RollResult.
//
// # Ordering
//
// Dice specs in RollRequest.Dice are processed in slice order. The resulting
// DieRoll entries in RollResult.Rolls appear in the same order.
//
// # Totals
//
// DieRoll.Total is the sum of that entry's Results; RollResult.Total is the
// sum of every die rolled across the request.
//
// Constraints and errors
//
//   - At least one DiceSpec must be provided, otherwise ErrMissingDice is
//     returned.
//   - Each DiceSpec must have Sides > 0 and 0 < Count <= MaxDiceCount,
//     otherwise ErrInvalidDiceSpec is returned.
func RollDice(request RollRequest) (RollResult, error) {
	return Roll(mt.NewRand(request.Seed), request.Dice)
}

// Roll rolls specs against an existing stream, advancing it.
func Roll(rng *rand.Rand, specs []DiceSpec) (RollResult, error) {
	if len(specs) == 0 {
		return RollResult{}, ErrMissingDice
	}

	rolls := make([]DieRoll, 0, len(specs))
	total := 0

	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return RollResult{}, ErrInvalidDiceSpec
		}
		if spec.Count > MaxDiceCount {
			return RollResult{}, fmt.Errorf("%w: count %d exceeds %d", ErrInvalidDiceSpec, spec.Count, MaxDiceCount)
		}

		results := make([]int, spec.Count)
		rollTotal := 0
		for i := 0; i < spec.Count; i++ {
			value := rollDie(rng, spec.Sides)
			results[i] = value
			rollTotal += value
		}

		rolls = append(rolls, DieRoll{
			Sides:   spec.Sides,
			Results: results,
			Total:   rollTotal,
		})
		total += rollTotal
	}

	return RollResult{
		Rolls: rolls,
		Total: total,
	}, nil
}

// ParseSpec parses NdM notation such as "2d6" or "d20".
// An omitted count means one die.
func ParseSpec(value string) (DiceSpec, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	countPart, sidesPart, ok := strings.Cut(value, "d")
	if !ok {
		return DiceSpec{}, fmt.Errorf("%w: %q", ErrInvalidDiceSpec, value)
	}

	count := 1
	if countPart != "" {
		n, err := strconv.Atoi(countPart)
		if err != nil {
			return DiceSpec{}, fmt.Errorf("%w: count %q", ErrInvalidDiceSpec, countPart)
		}
		count = n
	}
	sides, err := strconv.Atoi(sidesPart)
	if err != nil {
		return DiceSpec{}, fmt.Errorf("%w: sides %q", ErrInvalidDiceSpec, sidesPart)
	}
	if sides <= 0 || count <= 0 {
		return DiceSpec{}, fmt.Errorf("%w: %q", ErrInvalidDiceSpec, value)
	}
	if count > MaxDiceCount {
		return DiceSpec{}, fmt.Errorf("%w: count %d exceeds %d", ErrInvalidDiceSpec, count, MaxDiceCount)
	}
	return DiceSpec{Sides: sides, Count: count}, nil
}

// ParseSpecs parses a comma-separated list of NdM specs.
func ParseSpecs(value string) ([]DiceSpec, error) {
	var specs []DiceSpec
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		spec, err := ParseSpec(part)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, ErrMissingDice
	}
	return specs, nil
}

// rollDie rolls a die with the provided number of sides.
func rollDie(rng *rand.Rand, sides int) int {
	return rng.IntN(sides) + 1
}
