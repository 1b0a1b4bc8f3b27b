package profile

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRequest is wrapped by every ValidationError.
var ErrInvalidRequest = errors.New("invalid profile request")

// percentTolerance is how far the zone percentages may drift from 100,
// so that shares like three times 33.33 are accepted.
const percentTolerance = 0.01 + 1e-9

// ValidationError describes the first problem found in a Request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (a *Assembler) validate(req Request) error {
	if len(req.Depths) == 0 {
		return invalid("depths", "at least one depth is required")
	}
	if len(req.Depths) > a.opts.MaxDepthPoints {
		return invalid("depths", "%d depths exceed the limit of %d", len(req.Depths), a.opts.MaxDepthPoints)
	}
	for i, d := range req.Depths {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return invalid("depths", "depth %d is not a finite number", i)
		}
		if i > 0 && d <= req.Depths[i-1] {
			return invalid("depths", "depths must be strictly ascending (%.2f follows %.2f)", d, req.Depths[i-1])
		}
	}

	if len(req.ZonePercentages) == 0 {
		return invalid("zone_percentages", "at least one zone is required")
	}
	sum := 0.0
	for i, p := range req.ZonePercentages {
		if math.IsNaN(p) || p <= 0 {
			return invalid("zone_percentages", "zone %d has non-positive share %v", i+1, p)
		}
		sum += p
	}
	if math.Abs(sum-100) > percentTolerance {
		return invalid("zone_percentages", "shares sum to %.2f, expected 100", sum)
	}

	if b := req.Geology.Base; b != "" && !b.Valid() {
		return invalid("base_type", "unknown base type %q", b)
	}
	if e := req.Geology.Env; e != "" && !e.Valid() {
		return invalid("env_type", "unknown environment type %q", e)
	}
	return nil
}
