package anthropometry

import "math"

// densityConstants are the a, b, c, d terms of
// density = a - b*sum + c*sum^2 - d*age.
type densityConstants struct {
	a, b, c, d float64
}

var (
	jpMale   = densityConstants{a: 1.112, b: 0.00043499, c: 0.00000055, d: 0.00028826}
	jpFemale = densityConstants{a: 1.097, b: 0.00046971, c: 0.00000056, d: 0.00012828}
)

func (k densityConstants) density(sum float64, age int) float64 {
	return k.a - k.b*sum + k.c*sum*sum - k.d*float64(age)
}

// siri converts body density to percent fat.
func siri(density float64) float64 {
	return (4.95/density - 4.5) * 100
}

// EstimateBodyFat applies the Jackson & Pollock seven-site equation.
// Sex is only required when the estimator uses the sex-specific equation.
func (e *Estimator) EstimateBodyFat(s Subject, f SkinfoldMeasurement) (BodyCompositionResult, error) {
	var c checker
	for _, st := range f.sites() {
		c.check(st.name, st.value, tagFold)
	}
	c.check("age", s.Age, tagAge)
	if e.opts.DensityEquation == DensitySexSpecific {
		c.check("sex", string(s.Sex), tagSex)
	}
	if err := c.err(); err != nil {
		return BodyCompositionResult{}, err
	}

	sum := f.Sum()
	return composition(sum, e.constants(s.Sex).density(sum, s.Age)), nil
}

func composition(sum, density float64) BodyCompositionResult {
	res := BodyCompositionResult{
		SumOfFolds:        sum,
		BodyDensity:       density,
		BodyFatPercentage: siri(density),
	}
	if res.BodyFatPercentage < 0 || res.BodyFatPercentage > 100 {
		res.Warnings = append(res.Warnings, WarningBodyFatOutOfRange)
	}
	return res
}

// PreviewBodyFat is the unvalidated path used while measurements are still
// being entered. Missing age, missing folds or any negative fold yield a
// zero result, never NaN.
func (e *Estimator) PreviewBodyFat(age int, sex Sex, f SkinfoldMeasurement) BodyCompositionResult {
	for _, st := range f.sites() {
		if st.value < 0 || math.IsNaN(st.value) || math.IsInf(st.value, 0) {
			return BodyCompositionResult{}
		}
	}
	sum := f.Sum()
	if age <= 0 || sum <= 0 {
		return BodyCompositionResult{SumOfFolds: max(sum, 0)}
	}
	density := e.constants(sex).density(sum, age)
	if density <= 0 {
		return BodyCompositionResult{SumOfFolds: sum}
	}
	return composition(sum, density)
}

func (e *Estimator) constants(sex Sex) densityConstants {
	if e.opts.DensityEquation == DensitySexSpecific && sex == SexFemale {
		return jpFemale
	}
	return jpMale
}
