package catalog

import (
	"fmt"
	"strings"
)

// BaseType is the geological base under the deepest zone.
type BaseType string

const (
	Rock         BaseType = "Rock"
	SandBase     BaseType = "Sand"
	Paleosol     BaseType = "Paleosol"
	LakeSediment BaseType = "Lake sediment"
)

// BaseTypes lists every base type.
var BaseTypes = []BaseType{Rock, SandBase, Paleosol, LakeSediment}

// Valid reports whether b is a known base type.
func (b BaseType) Valid() bool {
	_, ok := matchName(string(b), BaseTypes)
	return ok && b != ""
}

// EnvType is the depositional environment of the shallower zones.
type EnvType string

const (
	Lake     EnvType = "Lake"
	Peatland EnvType = "Peatland"
	Wetland  EnvType = "Wetland"
)

// EnvTypes lists every environment type.
var EnvTypes = []EnvType{Lake, Peatland, Wetland}

// Valid reports whether e is a known environment type.
func (e EnvType) Valid() bool {
	_, ok := matchName(string(e), EnvTypes)
	return ok && e != ""
}

// Geology is the optional context that selects context-specific defaults.
// The zero value means no geological context.
type Geology struct {
	Base BaseType `json:"base_type,omitempty"`
	Env  EnvType  `json:"env_type,omitempty"`
}

// IsZero reports whether no context was given.
func (g Geology) IsZero() bool {
	return g.Base == "" && g.Env == ""
}

// ParseGeology validates base and environment names, matching case
// insensitively. Empty strings leave the field unset.
func ParseGeology(base, env string) (Geology, error) {
	var g Geology
	if base = strings.TrimSpace(base); base != "" {
		b, ok := matchName(base, BaseTypes)
		if !ok {
			return Geology{}, fmt.Errorf("unknown base type %q", base)
		}
		g.Base = b
	}
	if env = strings.TrimSpace(env); env != "" {
		e, ok := matchName(env, EnvTypes)
		if !ok {
			return Geology{}, fmt.Errorf("unknown environment type %q", env)
		}
		g.Env = e
	}
	return g, nil
}

func matchName[T ~string](s string, options []T) (T, bool) {
	for _, o := range options {
		if strings.EqualFold(string(o), s) {
			return o, true
		}
	}
	var zero T
	return zero, false
}
