package anthropometry

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
)

func sampleFolds() SkinfoldMeasurement {
	return SkinfoldMeasurement{
		Subscapular: 12, Triceps: 10, Axillary: 8, Suprailiac: 15,
		Chest: 9, Abdominal: 14, Thigh: 11,
	}
}

func newTestEstimator(t *testing.T, mut func(o *Options)) *Estimator {
	t.Helper()
	opts := DefaultOptions()
	if mut != nil {
		mut(&opts)
	}
	e, err := NewEstimator(opts)
	if err != nil {
		t.Fatalf("NewEstimator: %v", err)
	}
	return e
}

func approx(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: expected %.6f, got %.6f", label, want, got)
	}
}

/* ─── Options ────────────────────────────────────────────────────────── */

func TestNewEstimator_RejectsUnknownOptions(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *Options)
	}{
		{"formula", func(o *Options) { o.BMRFormula = "katch_mcardle" }},
		{"density", func(o *Options) { o.DensityEquation = "durnin" }},
		{"rounding", func(o *Options) { o.Rounding = "truncate" }},
		{"empty formula", func(o *Options) { o.BMRFormula = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			tc.mut(&opts)
			if _, err := NewEstimator(opts); err == nil {
				t.Errorf("expected error for %+v", opts)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.BMRFormula != MifflinStJeor || o.DensityEquation != DensitySexSpecific || o.Rounding != RoundHalfAwayFromZero {
		t.Errorf("unexpected defaults: %+v", o)
	}
	if err := o.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

/* ─── Body fat ───────────────────────────────────────────────────────── */

// TestEstimateBodyFat_ReferenceExample checks the worked example for the
// male constant set: sum 79, age 30.
func TestEstimateBodyFat_ReferenceExample(t *testing.T) {
	e := newTestEstimator(t, func(o *Options) { o.DensityEquation = DensityReference })
	res, err := e.EstimateBodyFat(Subject{Age: 30}, sampleFolds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, "sum", res.SumOfFolds, 79, 1e-12)
	approx(t, "density", res.BodyDensity, 1.07242054, 1e-7)
	approx(t, "body fat", res.BodyFatPercentage, 11.5727, 1e-3)
	if got := math.Round(res.BodyFatPercentage*10) / 10; got != 11.6 {
		t.Errorf("expected 11.6 at one decimal, got %.1f", got)
	}
}

func TestEstimateBodyFat_SexSpecific(t *testing.T) {
	e := newTestEstimator(t, nil)

	male, err := e.EstimateBodyFat(Subject{Age: 30, Sex: SexMale}, sampleFolds())
	if err != nil {
		t.Fatalf("male: %v", err)
	}
	approx(t, "male body fat", male.BodyFatPercentage, 11.5727, 1e-3)

	female, err := e.EstimateBodyFat(Subject{Age: 30, Sex: SexFemale}, sampleFolds())
	if err != nil {
		t.Fatalf("female: %v", err)
	}
	approx(t, "female density", female.BodyDensity, 1.05953947, 1e-7)
	approx(t, "female body fat", female.BodyFatPercentage, 17.184, 1e-2)
}

func TestEstimateBodyFat_SexOnlyRequiredWhenSexSpecific(t *testing.T) {
	ref := newTestEstimator(t, func(o *Options) { o.DensityEquation = DensityReference })
	if _, err := ref.EstimateBodyFat(Subject{Age: 30}, sampleFolds()); err != nil {
		t.Errorf("reference equation should not need sex: %v", err)
	}

	est := newTestEstimator(t, nil)
	_, err := est.EstimateBodyFat(Subject{Age: 30}, sampleFolds())
	ves, ok := AsValidationErrors(err)
	if !ok || ves.Details()["sex"] == "" {
		t.Errorf("expected sex validation error, got %v", err)
	}
}

func TestEstimateBodyFat_Deterministic(t *testing.T) {
	e := newTestEstimator(t, nil)
	s := Subject{Age: 41, Sex: SexFemale}
	first, _ := e.EstimateBodyFat(s, sampleFolds())
	for i := 0; i < 100; i++ {
		got, _ := e.EstimateBodyFat(s, sampleFolds())
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestEstimateBodyFat_SumIsOrderIndependent(t *testing.T) {
	e := newTestEstimator(t, nil)
	a := SkinfoldMeasurement{Subscapular: 1, Triceps: 2, Axillary: 3, Suprailiac: 4, Chest: 5, Abdominal: 6, Thigh: 7}
	b := SkinfoldMeasurement{Subscapular: 7, Triceps: 6, Axillary: 5, Suprailiac: 4, Chest: 3, Abdominal: 2, Thigh: 1}
	ra, err := e.EstimateBodyFat(Subject{Age: 25, Sex: SexMale}, a)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := e.EstimateBodyFat(Subject{Age: 25, Sex: SexMale}, b)
	if err != nil {
		t.Fatal(err)
	}
	if ra.SumOfFolds != 28 || rb.SumOfFolds != 28 {
		t.Errorf("expected sum 28, got %v and %v", ra.SumOfFolds, rb.SumOfFolds)
	}
	if ra.BodyFatPercentage != rb.BodyFatPercentage {
		t.Errorf("permuted folds gave different results")
	}
}

func TestEstimateBodyFat_Validation(t *testing.T) {
	e := newTestEstimator(t, nil)
	cases := []struct {
		name  string
		age   int
		mut   func(f *SkinfoldMeasurement)
		field string
	}{
		{"zero fold", 30, func(f *SkinfoldMeasurement) { f.Chest = 0 }, "chest"},
		{"negative fold", 30, func(f *SkinfoldMeasurement) { f.Thigh = -1 }, "thigh"},
		{"fold over 100", 30, func(f *SkinfoldMeasurement) { f.Triceps = 100.5 }, "triceps"},
		{"NaN fold", 30, func(f *SkinfoldMeasurement) { f.Axillary = math.NaN() }, "axillary"},
		{"Inf fold", 30, func(f *SkinfoldMeasurement) { f.Abdominal = math.Inf(1) }, "abdominal"},
		{"age below range", 9, nil, "age"},
		{"age above range", 101, nil, "age"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := sampleFolds()
			if tc.mut != nil {
				tc.mut(&f)
			}
			_, err := e.EstimateBodyFat(Subject{Age: tc.age, Sex: SexMale}, f)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			ves, _ := AsValidationErrors(err)
			if _, ok := ves.Details()[tc.field]; !ok {
				t.Errorf("expected error on %q, got %v", tc.field, ves.Details())
			}
		})
	}
}

func TestEstimateBodyFat_BoundariesAccepted(t *testing.T) {
	e := newTestEstimator(t, nil)
	f := SkinfoldMeasurement{Subscapular: 100, Triceps: 100, Axillary: 100, Suprailiac: 100, Chest: 100, Abdominal: 100, Thigh: 100}
	for _, age := range []int{10, 100} {
		res, err := e.EstimateBodyFat(Subject{Age: age, Sex: SexMale}, f)
		if err != nil {
			t.Errorf("age %d: unexpected error %v", age, err)
		}
		if math.IsNaN(res.BodyFatPercentage) || math.IsInf(res.BodyFatPercentage, 0) {
			t.Errorf("age %d: non-finite result", age)
		}
	}
}

func TestEstimateBodyFat_OutOfRangeFlagged(t *testing.T) {
	thin := SkinfoldMeasurement{Subscapular: 1, Triceps: 1, Axillary: 1, Suprailiac: 1, Chest: 1, Abdominal: 1, Thigh: 1}
	e := newTestEstimator(t, nil)

	res, err := e.EstimateBodyFat(Subject{Age: 20, Sex: SexMale}, thin)
	if err != nil {
		t.Fatalf("7 mm total is accepted input: %v", err)
	}
	// reported as computed, not clamped
	approx(t, "body fat", res.BodyFatPercentage, -1.3121, 1e-3)
	if !res.HasWarning(WarningBodyFatOutOfRange) {
		t.Errorf("expected body_fat_out_of_range, got %v", res.Warnings)
	}

	preview := e.PreviewBodyFat(20, SexMale, thin)
	if !preview.HasWarning(WarningBodyFatOutOfRange) {
		t.Errorf("preview should carry the same warning, got %v", preview.Warnings)
	}

	typical, err := e.EstimateBodyFat(Subject{Age: 30, Sex: SexMale}, sampleFolds())
	if err != nil {
		t.Fatal(err)
	}
	if len(typical.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", typical.Warnings)
	}
}

/* ─── Preview ────────────────────────────────────────────────────────── */

func TestPreviewBodyFat_Degenerate(t *testing.T) {
	e := newTestEstimator(t, nil)
	cases := []struct {
		name  string
		age   int
		folds SkinfoldMeasurement
	}{
		{"zero age", 0, sampleFolds()},
		{"negative age", -3, sampleFolds()},
		{"no folds", 30, SkinfoldMeasurement{}},
		{"both empty", 0, SkinfoldMeasurement{}},
		{"negative fold", 30, SkinfoldMeasurement{Chest: -5, Thigh: 10}},
		{"nan fold", 30, SkinfoldMeasurement{Chest: math.NaN(), Thigh: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := e.PreviewBodyFat(tc.age, SexMale, tc.folds)
			if res.BodyFatPercentage != 0 || res.BodyDensity != 0 || len(res.Warnings) != 0 {
				t.Errorf("expected zero result, got %+v", res)
			}
		})
	}
}

func TestPreviewBodyFat_PartialInput(t *testing.T) {
	e := newTestEstimator(t, nil)
	res := e.PreviewBodyFat(30, SexMale, SkinfoldMeasurement{Chest: 10})
	if res.SumOfFolds != 10 {
		t.Errorf("expected sum 10, got %v", res.SumOfFolds)
	}
	if res.BodyFatPercentage <= 0 || math.IsNaN(res.BodyFatPercentage) {
		t.Errorf("expected positive finite preview, got %v", res.BodyFatPercentage)
	}
}

func TestPreviewBodyFat_MatchesValidatedPath(t *testing.T) {
	e := newTestEstimator(t, nil)
	full, err := e.EstimateBodyFat(Subject{Age: 30, Sex: SexFemale}, sampleFolds())
	if err != nil {
		t.Fatal(err)
	}
	if got := e.PreviewBodyFat(30, SexFemale, sampleFolds()); !reflect.DeepEqual(got, full) {
		t.Errorf("preview %+v != estimate %+v", got, full)
	}
}

/* ─── Metabolism ─────────────────────────────────────────────────────── */

var reference = Subject{Age: 30, Sex: SexMale, HeightCM: 180, WeightKG: 80}

// TestEstimateMetabolism_HarrisBenedictRounding checks the 160.5 g carb
// tie under both rounding rules.
func TestEstimateMetabolism_HarrisBenedictRounding(t *testing.T) {
	cases := []struct {
		rounding Rounding
		wantCarb int
	}{
		{RoundHalfAwayFromZero, 161},
		{RoundHalfEven, 160},
	}
	for _, tc := range cases {
		t.Run(string(tc.rounding), func(t *testing.T) {
			e := newTestEstimator(t, func(o *Options) {
				o.BMRFormula = HarrisBenedict
				o.Rounding = tc.rounding
			})
			res, err := e.EstimateMetabolism(reference, GoalMaintenance)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			approx(t, "bmr", res.BMRBase, 1858, 1e-9)
			approx(t, "carb raw", res.CarbG, 160.5, 1e-9)
			r := res.Rounded
			if r.BMRBase != 1858 || r.BMRAdjusted != 1858 || r.ProteinG != 160 || r.FatG != 64 {
				t.Errorf("unexpected rounded values: %+v", r)
			}
			if r.CarbG != tc.wantCarb {
				t.Errorf("expected carb %d, got %d", tc.wantCarb, r.CarbG)
			}
			if res.Formula != HarrisBenedict {
				t.Errorf("formula not reported: %q", res.Formula)
			}
		})
	}
}

func TestEstimateMetabolism_Formulas(t *testing.T) {
	cases := []struct {
		name    string
		formula BMRFormula
		subject Subject
		want    float64
	}{
		{"mifflin male", MifflinStJeor, reference, 1780},
		{"mifflin female", MifflinStJeor, Subject{Age: 40, Sex: SexFemale, HeightCM: 165, WeightKG: 60}, 1270.25},
		{"harris male", HarrisBenedict, reference, 1858},
		{"harris female", HarrisBenedict, Subject{Age: 40, Sex: SexFemale, HeightCM: 165, WeightKG: 60}, 1340},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEstimator(t, func(o *Options) { o.BMRFormula = tc.formula })
			res, err := e.EstimateMetabolism(tc.subject, GoalMaintenance)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			approx(t, "bmr", res.BMRBase, tc.want, 1e-9)
		})
	}
}

func TestEstimateMetabolism_GoalMultipliers(t *testing.T) {
	e := newTestEstimator(t, nil)
	cases := []struct {
		goal Goal
		want int
	}{
		{GoalWeightLoss, 1513},
		{GoalMaintenance, 1780},
		{GoalHypertrophy, 2047},
	}
	for _, tc := range cases {
		t.Run(string(tc.goal), func(t *testing.T) {
			res, err := e.EstimateMetabolism(reference, tc.goal)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Rounded.BMRAdjusted != tc.want {
				t.Errorf("expected %d kcal, got %d", tc.want, res.Rounded.BMRAdjusted)
			}
			if res.Rounded.BMRBase != 1780 {
				t.Errorf("base should not move with the goal, got %d", res.Rounded.BMRBase)
			}
		})
	}
}

func TestEstimateMetabolism_WeightLossRoundTrip(t *testing.T) {
	e := newTestEstimator(t, func(o *Options) { o.BMRFormula = HarrisBenedict })
	subjects := []Subject{
		reference,
		{Age: 55, Sex: SexFemale, HeightCM: 158.5, WeightKG: 72.3},
		{Age: 18, Sex: SexMale, HeightCM: 201, WeightKG: 110.7},
	}
	for _, s := range subjects {
		res, err := e.EstimateMetabolism(s, GoalWeightLoss)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		approx(t, "round trip", res.BMRAdjusted/0.85, res.BMRBase, 1e-5)
	}
}

func TestEstimateMetabolism_NegativeCarbsFlagged(t *testing.T) {
	e := newTestEstimator(t, nil)
	s := Subject{Age: 80, Sex: SexMale, HeightCM: 150, WeightKG: 100}
	res, err := e.EstimateMetabolism(s, GoalWeightLoss)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, "adjusted", res.BMRAdjusted, 1311.125, 1e-9)
	approx(t, "carb raw", res.CarbG, -52.21875, 1e-9)
	if res.Rounded.CarbG != -52 {
		t.Errorf("expected -52 g carbs, got %d", res.Rounded.CarbG)
	}
	if !res.HasWarning(WarningNegativeCarbs) {
		t.Errorf("expected negative_carbs warning, got %v", res.Warnings)
	}
}

func TestEstimateMetabolism_NonPositiveBMRFlagged(t *testing.T) {
	e := newTestEstimator(t, nil)
	// smallest accepted body at the oldest accepted age
	s := Subject{Age: 100, Sex: SexFemale, HeightCM: 50, WeightKG: 20}
	res, err := e.EstimateMetabolism(s, GoalMaintenance)
	if err != nil {
		t.Fatalf("boundary input must be accepted: %v", err)
	}
	approx(t, "bmr", res.BMRBase, -148.5, 1e-9)
	if !res.HasWarning(WarningNonPositiveBMR) {
		t.Errorf("expected non_positive_bmr warning, got %v", res.Warnings)
	}
}

func TestEstimateMetabolism_NoWarningsForTypicalInput(t *testing.T) {
	e := newTestEstimator(t, nil)
	res, err := e.EstimateMetabolism(reference, GoalHypertrophy)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}
}

func TestEstimateMetabolism_Validation(t *testing.T) {
	e := newTestEstimator(t, nil)
	cases := []struct {
		name   string
		mut    func(s *Subject)
		goal   Goal
		fields []string
	}{
		{"short", func(s *Subject) { s.HeightCM = 49 }, GoalMaintenance, []string{"height"}},
		{"tall", func(s *Subject) { s.HeightCM = 301 }, GoalMaintenance, []string{"height"}},
		{"light", func(s *Subject) { s.WeightKG = 19.9 }, GoalMaintenance, []string{"weight"}},
		{"NaN weight", func(s *Subject) { s.WeightKG = math.NaN() }, GoalMaintenance, []string{"weight"}},
		{"missing sex", func(s *Subject) { s.Sex = "" }, GoalMaintenance, []string{"sex"}},
		{"unknown sex", func(s *Subject) { s.Sex = "other" }, GoalMaintenance, []string{"sex"}},
		{"missing goal", nil, "", []string{"goal"}},
		{"unknown goal", nil, "bulk", []string{"goal"}},
		{"several", func(s *Subject) { s.Age = 5; s.HeightCM = 0 }, GoalMaintenance, []string{"age", "height"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := reference
			if tc.mut != nil {
				tc.mut(&s)
			}
			_, err := e.EstimateMetabolism(s, tc.goal)
			ves, ok := AsValidationErrors(err)
			if !ok {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if len(ves) != len(tc.fields) {
				t.Fatalf("expected %d errors, got %v", len(tc.fields), ves)
			}
			for i, f := range tc.fields {
				if ves[i].Field != f {
					t.Errorf("error %d: expected field %q, got %q", i, f, ves[i].Field)
				}
			}
		})
	}
}

/* ─── Concurrency ────────────────────────────────────────────────────── */

func TestEstimator_ConcurrentUse(t *testing.T) {
	e := newTestEstimator(t, nil)
	want, _ := e.EstimateMetabolism(reference, GoalWeightLoss)

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.EstimateMetabolism(reference, GoalWeightLoss)
			if err != nil || got.Rounded != want.Rounded {
				errs <- "mismatch"
			}
		}()
	}
	wg.Wait()
	close(errs)
	if len(errs) > 0 {
		t.Errorf("%d goroutines disagreed", len(errs))
	}
}
