package trend

import "math"

// shape computes one unrounded value. Stateful shapes read and update s.
type shape func(s *State, rnd draw, in Input) float64

var shapes = map[Kind]shape{
	Sporadic:        sporadic,
	Rising:          rising,
	Falling:         falling,
	LowFluctuation:  lowFluctuation,
	HighFluctuation: highFluctuation,
	StagnantFalling: stagnant(StagnantFalling, false),
	StagnantRising:  stagnant(StagnantRising, true),
	RiseFall:        zoneArc(RiseFall, true),
	FallRise:        zoneArc(FallRise, false),
	Random:          random,
}

const (
	sporadicZeroChance  = 0.7
	driftLowFactor      = 1.3
	driftHighFactor     = 0.7
	lowFluctuationStep  = 0.4
	highFluctuationStep = 0.8
	stagnantBand        = 0.05
	stagnantLowFactor   = 1.2
	stagnantHighFactor  = 0.8
	midpointLow         = 0.4
	midpointHigh        = 0.6
	stagnantDecayRate   = 0.5
)

func sporadic(_ *State, rnd draw, in Input) float64 {
	if rnd.chance(sporadicZeroChance) {
		return 0
	}
	return rnd.uniform(in.Min, in.Max)
}

func random(_ *State, rnd draw, in Input) float64 {
	return rnd.uniform(in.Min, in.Max)
}

// rising draws between the previous value and 70% of max, so the series
// creeps upward.
func rising(s *State, rnd draw, in Input) float64 {
	k := stateKey{key: in.Key, kind: Rising, slot: slotLast}
	last, ok := s.get(k)
	if !ok {
		last = in.Min * driftLowFactor
	}
	v := rnd.uniform(last, in.Max*driftHighFactor)
	s.set(k, v)
	return v
}

func falling(s *State, rnd draw, in Input) float64 {
	k := stateKey{key: in.Key, kind: Falling, slot: slotLast}
	last, ok := s.get(k)
	if !ok {
		last = in.Max * driftHighFactor
	}
	v := rnd.uniform(in.Min*driftLowFactor, last)
	s.set(k, v)
	return v
}

// lowFluctuation is a random walk whose step is bounded by 40% of the range.
func lowFluctuation(s *State, rnd draw, in Input) float64 {
	k := stateKey{key: in.Key, kind: LowFluctuation, slot: slotCenter}
	center, ok := s.get(k)
	if !ok {
		center = (in.Min + in.Max) / 2
	}
	step := (in.Max - in.Min) * lowFluctuationStep
	v := rnd.uniform(center-step, center+step)
	s.set(k, v)
	return v
}

// highFluctuation scatters around the fixed midpoint and may leave the range.
func highFluctuation(_ *State, rnd draw, in Input) float64 {
	center := (in.Min + in.Max) / 2
	step := (in.Max - in.Min) * highFluctuationStep
	return rnd.uniform(center-step, center+step)
}

// stagnant holds near a random centre down to a midpoint of the full
// profile, then drifts toward max (rising) or min (falling).
func stagnant(kind Kind, up bool) shape {
	return func(s *State, rnd draw, in Input) float64 {
		mid := s.once(stateKey{key: in.Key, kind: kind, slot: slotMidpoint}, func() float64 {
			return in.MaxDepth * rnd.uniform(midpointLow, midpointHigh)
		})
		center := s.once(stateKey{key: in.Key, kind: kind, slot: slotCenter}, func() float64 {
			return rnd.uniform(in.Min*stagnantLowFactor, in.Max*stagnantHighFactor)
		})

		if in.Depth <= mid {
			band := (in.Max - in.Min) * stagnantBand
			return rnd.uniform(math.Max(in.Min, center-band), math.Min(in.Max, center+band))
		}

		k := stateKey{key: in.Key, kind: kind, slot: slotLast}
		last, ok := s.get(k)
		if !ok {
			last = center
		}
		n := fraction(in.Depth-mid, in.MaxDepth-mid)

		var next float64
		if up {
			next = last + (in.Max-last)*n*stagnantDecayRate
		} else {
			next = last - (last-in.Min)*n*stagnantDecayRate
		}
		next = Round(next)
		s.set(k, next)
		return clamp(next, in.Min, in.Max)
	}
}

// zoneArc interpolates linearly across the owning zone, splitting it at a
// midpoint drawn once per parameter and zone. With peak set the value
// climbs from min to max and back; otherwise it dips from max to min and
// back.
func zoneArc(kind Kind, peak bool) shape {
	return func(s *State, rnd draw, in Input) float64 {
		start, end := in.ZoneStart, in.ZoneEnd
		mid := s.once(stateKey{key: in.Key, kind: kind, slot: slotMidpoint, zone: in.Zone}, func() float64 {
			return start + (end-start)*rnd.uniform(midpointLow, midpointHigh)
		})

		span := in.Max - in.Min
		if in.Depth <= mid {
			n := fraction(in.Depth-start, mid-start)
			if peak {
				return in.Min + span*n
			}
			return in.Max - span*n
		}

		n := fraction(in.Depth-mid, end-mid)
		if peak {
			return in.Max - span*n
		}
		return in.Min + span*n
	}
}

func fraction(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
