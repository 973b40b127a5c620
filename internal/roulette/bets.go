package roulette

import (
	"fmt"
	"strconv"
	"strings"

	"coin-casino/internal/svcerr"
)

type BetKind int

const (
	Straight BetKind = iota
	Red
	Black
	Even
	Odd
	Low
	High
	Dozen
	Column
)

// Bet is one staked position. Arg carries the straight number, the dozen
// index or the column index; it is unused for the simple kinds.
type Bet struct {
	Kind  BetKind
	Arg   int
	Stake int64
}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// betSpec pairs a payout rate with the predicate deciding whether the kind
// hits a winning number. Zero matches nothing but a straight zero.
type betSpec struct {
	rate    int64
	matches func(n, arg int) bool
}

var specs = map[BetKind]betSpec{
	Straight: {35, func(n, arg int) bool { return n == arg }},
	Red:      {1, func(n, _ int) bool { return n != 0 && redNumbers[n] }},
	Black:    {1, func(n, _ int) bool { return n != 0 && !redNumbers[n] }},
	Even:     {1, func(n, _ int) bool { return n != 0 && n%2 == 0 }},
	Odd:      {1, func(n, _ int) bool { return n%2 == 1 }},
	Low:      {1, func(n, _ int) bool { return n >= 1 && n <= 18 }},
	High:     {1, func(n, _ int) bool { return n >= 19 }},
	Dozen:    {2, func(n, arg int) bool { return n > 0 && (n+11)/12 == arg }},
	Column:   {2, func(n, arg int) bool { return n > 0 && (n-1)%3+1 == arg }},
}

var simpleKinds = map[string]BetKind{
	"red":   Red,
	"black": Black,
	"even":  Even,
	"odd":   Odd,
	"low":   Low,
	"high":  High,
}

// ParseBets turns the wire bet map (keys "0".."36", "red", "dozen2",
// "col3", ...) into typed bets. Unknown keys and non-positive stakes are
// invalid wagers.
func ParseBets(raw map[string]int64) ([]Bet, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no bets placed: %w", svcerr.ErrInvalidWager)
	}

	bets := make([]Bet, 0, len(raw))
	for key, stake := range raw {
		if stake <= 0 {
			return nil, fmt.Errorf("stake on %q must be positive: %w", key, svcerr.ErrInvalidWager)
		}

		bet, err := parseKey(key)
		if err != nil {
			return nil, err
		}
		bet.Stake = stake
		bets = append(bets, bet)
	}
	return bets, nil
}

func parseKey(key string) (Bet, error) {
	if kind, ok := simpleKinds[key]; ok {
		return Bet{Kind: kind}, nil
	}
	if n, err := strconv.Atoi(key); err == nil {
		if n < 0 || n > 36 {
			return Bet{}, fmt.Errorf("straight number %d out of range: %w", n, svcerr.ErrInvalidWager)
		}
		return Bet{Kind: Straight, Arg: n}, nil
	}
	if d, ok := indexedKey(key, "dozen"); ok {
		return Bet{Kind: Dozen, Arg: d}, nil
	}
	if c, ok := indexedKey(key, "col"); ok {
		return Bet{Kind: Column, Arg: c}, nil
	}
	return Bet{}, fmt.Errorf("unknown bet %q: %w", key, svcerr.ErrInvalidWager)
}

func indexedKey(key, prefix string) (int, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(key[len(prefix):])
	if err != nil || n < 1 || n > 3 {
		return 0, false
	}
	return n, true
}

// TotalStake sums the stakes of all placed bets.
func TotalStake(bets []Bet) int64 {
	var total int64
	for _, b := range bets {
		total += b.Stake
	}
	return total
}

// Winnings resolves every bet against the winning number. A winning key
// returns its stake plus stake times the kind's rate.
func Winnings(winning int, bets []Bet) int64 {
	var total int64
	for _, b := range bets {
		spec := specs[b.Kind]
		if spec.matches(winning, b.Arg) {
			total += b.Stake + b.Stake*spec.rate
		}
	}
	return total
}
