package anthropometry

// Sex selects the sex-specific constants of every formula in this package.
// There is no default: an empty Sex is rejected wherever it matters.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Goal biases the basal metabolic rate toward a caloric target.
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMaintenance Goal = "maintenance"
	GoalHypertrophy Goal = "hypertrophy"
)

// goalMultipliers is the single source of truth for valid goals.
var goalMultipliers = map[Goal]float64{
	GoalWeightLoss:  0.85,
	GoalMaintenance: 1.0,
	GoalHypertrophy: 1.15,
}

// Multiplier returns the factor applied to the base BMR for g.
func (g Goal) Multiplier() (float64, bool) {
	m, ok := goalMultipliers[g]
	return m, ok
}

// BMRFormula names the basal metabolic rate equation.
type BMRFormula string

const (
	HarrisBenedict BMRFormula = "harris_benedict"
	MifflinStJeor  BMRFormula = "mifflin_st_jeor"
)

// DensityEquation selects how the Jackson & Pollock constants are chosen.
type DensityEquation string

const (
	// DensityReference applies the male constant set to every subject,
	// which is what the first release of the product shipped.
	DensityReference DensityEquation = "jackson_pollock_reference"
	// DensitySexSpecific branches on Subject.Sex.
	DensitySexSpecific DensityEquation = "jackson_pollock_sex_specific"
)

// Rounding is the tie-breaking rule used for integer grams and kcal.
type Rounding string

const (
	RoundHalfAwayFromZero Rounding = "half_away_from_zero"
	RoundHalfEven         Rounding = "half_even"
)

// SkinfoldMeasurement holds the seven Jackson & Pollock sites, in millimetres.
type SkinfoldMeasurement struct {
	Subscapular float64 `json:"subscapular"`
	Triceps     float64 `json:"triceps"`
	Axillary    float64 `json:"axillary"`
	Suprailiac  float64 `json:"suprailiac"`
	Chest       float64 `json:"chest"`
	Abdominal   float64 `json:"abdominal"`
	Thigh       float64 `json:"thigh"`
}

// Sum returns the sum of the seven folds.
func (f SkinfoldMeasurement) Sum() float64 {
	return f.Subscapular + f.Triceps + f.Axillary + f.Suprailiac + f.Chest + f.Abdominal + f.Thigh
}

// sites lists the folds with their wire names, in a fixed order.
func (f SkinfoldMeasurement) sites() []site {
	return []site{
		{"subscapular", f.Subscapular},
		{"triceps", f.Triceps},
		{"axillary", f.Axillary},
		{"suprailiac", f.Suprailiac},
		{"chest", f.Chest},
		{"abdominal", f.Abdominal},
		{"thigh", f.Thigh},
	}
}

type site struct {
	name  string
	value float64
}

// Subject is the person being assessed.
type Subject struct {
	Age      int     `json:"age"`
	Sex      Sex     `json:"sex"`
	HeightCM float64 `json:"height"`
	WeightKG float64 `json:"weight"`
}

// BodyCompositionResult is the outcome of a skinfold assessment.
type BodyCompositionResult struct {
	SumOfFolds        float64   `json:"sum_of_folds"`
	BodyDensity       float64   `json:"body_density"`
	BodyFatPercentage float64   `json:"body_fat_percentage"`
	Warnings          []Warning `json:"warnings,omitempty"`
}

// HasWarning reports whether w was raised for this result.
func (r BodyCompositionResult) HasWarning(w Warning) bool {
	return hasWarning(r.Warnings, w)
}

// Warning flags a result the model cannot fully support.
type Warning string

const (
	// WarningNegativeCarbs means protein and fat alone exceed the caloric
	// target; CarbG is reported as computed.
	WarningNegativeCarbs Warning = "negative_carbs"
	// WarningNonPositiveBMR means the formula produced zero or less kcal at
	// the edges of the accepted input ranges.
	WarningNonPositiveBMR Warning = "non_positive_bmr"
	// WarningBodyFatOutOfRange means the Siri conversion left [0, 100],
	// usually because the folds are thinner than the regression covers.
	// BodyFatPercentage is reported as computed.
	WarningBodyFatOutOfRange Warning = "body_fat_out_of_range"
)

func hasWarning(ws []Warning, w Warning) bool {
	for _, x := range ws {
		if x == w {
			return true
		}
	}
	return false
}

// MetabolicResult carries raw values alongside their rounded display form.
type MetabolicResult struct {
	Formula     BMRFormula       `json:"formula"`
	Goal        Goal             `json:"goal"`
	BMRBase     float64          `json:"bmr_base"`
	BMRAdjusted float64          `json:"bmr_adjusted"`
	ProteinG    float64          `json:"protein_g"`
	FatG        float64          `json:"fat_g"`
	CarbG       float64          `json:"carb_g"`
	Rounded     RoundedMetabolic `json:"rounded"`
	Warnings    []Warning        `json:"warnings,omitempty"`
}

// RoundedMetabolic is MetabolicResult rounded to whole kcal and grams.
type RoundedMetabolic struct {
	BMRBase     int `json:"bmr_base"`
	BMRAdjusted int `json:"bmr_adjusted"`
	ProteinG    int `json:"protein_g"`
	FatG        int `json:"fat_g"`
	CarbG       int `json:"carb_g"`
}

// HasWarning reports whether w was raised for this result.
func (r MetabolicResult) HasWarning(w Warning) bool {
	return hasWarning(r.Warnings, w)
}
