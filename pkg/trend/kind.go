// Package trend turns a parameter range into depth-ordered values that
// follow one of ten named shapes.
package trend

import (
	"fmt"
	"strings"
)

// Kind selects the value-generation algorithm for a parameter.
type Kind string

const (
	Sporadic        Kind = "SP" // mostly zero, occasional uniform draw
	Rising          Kind = "UP"
	Falling         Kind = "DN"
	LowFluctuation  Kind = "LF"
	HighFluctuation Kind = "HF"
	StagnantFalling Kind = "SL"
	StagnantRising  Kind = "SH"
	RiseFall        Kind = "UD"
	FallRise        Kind = "DU"
	Random          Kind = "RM"
)

// Kinds lists every trend in the order the range editor offers them.
var Kinds = []Kind{
	Rising, Falling, LowFluctuation, HighFluctuation, Sporadic,
	StagnantFalling, StagnantRising, RiseFall, FallRise, Random,
}

var kindNames = map[Kind]string{
	Sporadic:        "Sporadic",
	Rising:          "Rising",
	Falling:         "Falling",
	LowFluctuation:  "Low fluctuation",
	HighFluctuation: "High fluctuation",
	StagnantFalling: "Stagnant then falling",
	StagnantRising:  "Stagnant then rising",
	RiseFall:        "Rise then fall",
	FallRise:        "Fall then rise",
	Random:          "Random",
}

// Valid reports whether k is one of the ten known trends.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Description returns a human readable name for the trend.
func (k Kind) Description() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseKind accepts a trend code in any letter case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown trend %q", s)
	}
	return k, nil
}
