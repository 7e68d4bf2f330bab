package dice

import (
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/louisbranch/twister/internal/random/mt"
)

// TestRollDiceIsDeterministic ensures one seed always yields one result.
func TestRollDiceIsDeterministic(t *testing.T) {
	req := RollRequest{
		Dice: []DiceSpec{{Sides: 12, Count: 2}},
		Seed: 42,
	}
	first, err := RollDice(req)
	if err != nil {
		t.Fatalf("RollDice returned error: %v", err)
	}
	second, err := RollDice(req)
	if err != nil {
		t.Fatalf("RollDice returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results diverged: %+v != %+v", first, second)
	}
	if len(first.Rolls) != 1 || len(first.Rolls[0].Results) != 2 {
		t.Fatalf("unexpected roll shape: %+v", first)
	}
	for _, v := range first.Rolls[0].Results {
		if v < 1 || v > 12 {
			t.Fatalf("result %d outside 1-12", v)
		}
	}
}

// TestRollDiceHandlesMultipleSpecs ensures multiple dice specs are rolled in order.
func TestRollDiceHandlesMultipleSpecs(t *testing.T) {
	seed := uint32(1)
	rng := mt.NewRand(seed)
	first := []int{rng.IntN(6) + 1, rng.IntN(6) + 1}
	second := []int{rng.IntN(8) + 1}
	firstTotal := first[0] + first[1]
	secondTotal := second[0]

	result, err := RollDice(RollRequest{
		Dice: []DiceSpec{
			{Sides: 6, Count: 2},
			{Sides: 8, Count: 1},
		},
		Seed: seed,
	})
	if err != nil {
		t.Fatalf("RollDice returned error: %v", err)
	}
	if len(result.Rolls) != 2 {
		t.Fatalf("expected 2 rolls, got %d", len(result.Rolls))
	}
	if result.Rolls[0].Total != firstTotal || result.Rolls[1].Total != secondTotal {
		t.Fatalf("unexpected roll totals: %+v", result.Rolls)
	}
	if result.Total != firstTotal+secondTotal {
		t.Fatalf("expected total %d, got %d", firstTotal+secondTotal, result.Total)
	}
}

func TestRollAdvancesSharedStream(t *testing.T) {
	rng := mt.NewRand(3)
	a, err := Roll(rng, []DiceSpec{{Sides: 20, Count: 5}})
	if err != nil {
		t.Fatalf("Roll returned error: %v", err)
	}
	b, err := Roll(rng, []DiceSpec{{Sides: 20, Count: 5}})
	if err != nil {
		t.Fatalf("Roll returned error: %v", err)
	}

	all, err := RollDice(RollRequest{Dice: []DiceSpec{{Sides: 20, Count: 10}}, Seed: 3})
	if err != nil {
		t.Fatalf("RollDice returned error: %v", err)
	}
	got := append(append([]int(nil), a.Rolls[0].Results...), b.Rolls[0].Results...)
	if !reflect.DeepEqual(got, all.Rolls[0].Results) {
		t.Fatalf("split rolls %v, want %v", got, all.Rolls[0].Results)
	}
}

// TestRollDiceRejectsMissingDice ensures empty requests return an error.
func TestRollDiceRejectsMissingDice(t *testing.T) {
	_, err := RollDice(RollRequest{Seed: 1})
	if !errors.Is(err, ErrMissingDice) {
		t.Fatalf("RollDice error = %v, want %v", err, ErrMissingDice)
	}
}

// TestRollDiceRejectsInvalidDiceSpec ensures invalid dice specs are rejected.
func TestRollDiceRejectsInvalidDiceSpec(t *testing.T) {
	tcs := []DiceSpec{
		{Sides: 0, Count: 2},
		{Sides: -1, Count: 2},
		{Sides: 6, Count: 0},
		{Sides: 6, Count: -1},
		{Sides: 6, Count: MaxDiceCount + 1},
	}

	for _, tc := range tcs {
		_, err := RollDice(RollRequest{
			Dice: []DiceSpec{tc},
			Seed: 2,
		})
		if !errors.Is(err, ErrInvalidDiceSpec) {
			t.Fatalf("RollDice(%+v) error = %v, want %v", tc, err, ErrInvalidDiceSpec)
		}
	}
}

func TestParseSpec(t *testing.T) {
	tcs := []struct {
		in   string
		want DiceSpec
	}{
		{in: "2d6", want: DiceSpec{Sides: 6, Count: 2}},
		{in: "d20", want: DiceSpec{Sides: 20, Count: 1}},
		{in: " 3D8 ", want: DiceSpec{Sides: 8, Count: 3}},
	}
	for _, tc := range tcs {
		got, err := ParseSpec(tc.in)
		if err != nil {
			t.Fatalf("ParseSpec(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSpec(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
		if got.String() != tc.want.String() {
			t.Fatalf("String() = %q, want %q", got.String(), tc.want.String())
		}
	}
}

func TestParseSpecRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "6", "2d", "xd6", "0d6", "2d0", "-1d6", "10001d6", "4000000000000000000d6"} {
		if _, err := ParseSpec(in); !errors.Is(err, ErrInvalidDiceSpec) {
			t.Fatalf("ParseSpec(%q) error = %v, want %v", in, err, ErrInvalidDiceSpec)
		}
	}
}

func TestParseSpecs(t *testing.T) {
	specs, err := ParseSpecs("2d6, 1d8")
	if err != nil {
		t.Fatalf("ParseSpecs returned error: %v", err)
	}
	want := []DiceSpec{{Sides: 6, Count: 2}, {Sides: 8, Count: 1}}
	if !reflect.DeepEqual(specs, want) {
		t.Fatalf("ParseSpecs = %+v, want %+v", specs, want)
	}
	if _, err := ParseSpecs(" , "); !errors.Is(err, ErrMissingDice) {
		t.Fatalf("ParseSpecs empty error = %v, want %v", err, ErrMissingDice)
	}
}

func TestParseSpecAcceptsMaxCount(t *testing.T) {
	spec, err := ParseSpec(strconv.Itoa(MaxDiceCount) + "d6")
	if err != nil {
		t.Fatalf("ParseSpec returned error: %v", err)
	}
	if spec.Count != MaxDiceCount {
		t.Fatalf("count = %d, want %d", spec.Count, MaxDiceCount)
	}
}
