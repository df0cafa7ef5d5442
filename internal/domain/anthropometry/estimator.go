// Package anthropometry turns body measurements into body composition and
// energy targets. Everything here is pure: no I/O, no shared mutable state,
// safe for concurrent use.
package anthropometry

import (
	"fmt"
	"math"
)

// Options selects the formula variants an Estimator applies.
type Options struct {
	BMRFormula      BMRFormula      `json:"bmr_formula"`
	DensityEquation DensityEquation `json:"density_equation"`
	Rounding        Rounding        `json:"rounding"`
}

// DefaultOptions is Mifflin-St Jeor, sex-specific Jackson & Pollock and
// half-away-from-zero rounding.
func DefaultOptions() Options {
	return Options{
		BMRFormula:      MifflinStJeor,
		DensityEquation: DensitySexSpecific,
		Rounding:        RoundHalfAwayFromZero,
	}
}

// Validate rejects unknown option values.
func (o Options) Validate() error {
	switch o.BMRFormula {
	case HarrisBenedict, MifflinStJeor:
	default:
		return fmt.Errorf("unknown bmr formula %q", o.BMRFormula)
	}
	switch o.DensityEquation {
	case DensityReference, DensitySexSpecific:
	default:
		return fmt.Errorf("unknown density equation %q", o.DensityEquation)
	}
	switch o.Rounding {
	case RoundHalfAwayFromZero, RoundHalfEven:
	default:
		return fmt.Errorf("unknown rounding %q", o.Rounding)
	}
	return nil
}

// Estimator applies one fixed set of Options. The zero value is not usable;
// build one with NewEstimator.
type Estimator struct {
	opts Options
}

func NewEstimator(opts Options) (*Estimator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{opts: opts}, nil
}

// MustEstimator is NewEstimator for options known at compile time.
func MustEstimator(opts Options) *Estimator {
	e, err := NewEstimator(opts)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Estimator) Options() Options { return e.opts }

func (e *Estimator) round(x float64) int {
	if e.opts.Rounding == RoundHalfEven {
		return int(math.RoundToEven(x))
	}
	return int(math.Round(x))
}

// snap drops float noise below a micro-unit so that ties such as
// 1780*1.15 round the way the decimal arithmetic says they should.
func snap(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
