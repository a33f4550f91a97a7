package engine

import (
	"slices"
	"strconv"
)

// HitValue is a resolved dart: the segment value and the ring multiplier.
type HitValue struct {
	Base       int
	Multiplier int
}

func (h HitValue) Points() int {
	return h.Base * h.Multiplier
}

// String is the form stored in a player's hits buffer: "20", "20x3".
func (h HitValue) String() string {
	if h.Multiplier == 1 {
		return strconv.Itoa(h.Base)
	}
	return strconv.Itoa(h.Base) + "x" + strconv.Itoa(h.Multiplier)
}

const (
	TokenMiss       = "Miss"
	TokenBullseye   = "Bullseye"
	TokenBullseyeX2 = "Bullseyex2"
)

// hitTable is built once and never written after init.
var hitTable = buildHitTable()

func buildHitTable() map[string]HitValue {
	t := make(map[string]HitValue, 20*4+3)
	for n := 1; n <= 20; n++ {
		s := strconv.Itoa(n)
		t[s+"o"] = HitValue{Base: n, Multiplier: 1} // outer single
		t[s+"i"] = HitValue{Base: n, Multiplier: 1} // inner single
		t[s+"x2"] = HitValue{Base: n, Multiplier: 2}
		t[s+"x3"] = HitValue{Base: n, Multiplier: 3}
	}
	t[TokenBullseye] = HitValue{Base: 25, Multiplier: 1}
	t[TokenBullseyeX2] = HitValue{Base: 25, Multiplier: 2}
	// A miss still uses up a dart.
	t[TokenMiss] = HitValue{Base: 0, Multiplier: 1}
	return t
}

// ResolveHit looks a token up in the fixed hit table.
func ResolveHit(token string) (HitValue, bool) {
	h, ok := hitTable[token]
	return h, ok
}

// HitTokens returns every known token, sorted.
func HitTokens() []string {
	tokens := make([]string, 0, len(hitTable))
	for tok := range hitTable {
		tokens = append(tokens, tok)
	}
	slices.Sort(tokens)
	return tokens
}
