// Command estimate runs the body composition and metabolic estimator from
// the command line and prints the result as JSON.
//
//	estimate -sex male -age 30 -height 180 -weight 80 -goal hypertrophy
//	estimate -sex female -age 25 -folds 10,12,9,11,8,15,14
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dietia/dietia-backend/internal/domain/anthropometry"
)

type output struct {
	Options         anthropometry.Options                `json:"options"`
	Metabolic       *anthropometry.MetabolicResult       `json:"metabolic,omitempty"`
	BodyComposition *anthropometry.BodyCompositionResult `json:"body_composition,omitempty"`
}

func main() {
	def := anthropometry.DefaultOptions()
	var (
		sex     = flag.String("sex", "", "male or female")
		age     = flag.Int("age", 0, "age in years")
		height  = flag.Float64("height", 0, "height in cm")
		weight  = flag.Float64("weight", 0, "weight in kg")
		goal    = flag.String("goal", string(anthropometry.GoalMaintenance), "weight_loss, maintenance or hypertrophy")
		folds   = flag.String("folds", "", "seven skinfolds in mm: subscapular,triceps,axillary,suprailiac,chest,abdominal,thigh")
		formula = flag.String("formula", string(def.BMRFormula), "harris_benedict or mifflin_st_jeor")
		density = flag.String("density", string(def.DensityEquation), "jackson_pollock_sex_specific or jackson_pollock_reference")
		round   = flag.String("rounding", string(def.Rounding), "half_away_from_zero or half_even")
	)
	flag.Parse()

	est, err := anthropometry.NewEstimator(anthropometry.Options{
		BMRFormula:      anthropometry.BMRFormula(*formula),
		DensityEquation: anthropometry.DensityEquation(*density),
		Rounding:        anthropometry.Rounding(*round),
	})
	if err != nil {
		fail(err)
	}
	subject := anthropometry.Subject{Age: *age, Sex: anthropometry.Sex(*sex), HeightCM: *height, WeightKG: *weight}
	out := output{Options: est.Options()}

	if *height > 0 || *weight > 0 {
		res, err := est.EstimateMetabolism(subject, anthropometry.Goal(*goal))
		if err != nil {
			fail(err)
		}
		out.Metabolic = &res
	}
	if *folds != "" {
		m, err := parseFolds(*folds)
		if err != nil {
			fail(err)
		}
		res, err := est.EstimateBodyFat(subject, m)
		if err != nil {
			fail(err)
		}
		out.BodyComposition = &res
	}
	if out.Metabolic == nil && out.BodyComposition == nil {
		flag.Usage()
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fail(err)
	}
}

func parseFolds(s string) (anthropometry.SkinfoldMeasurement, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 7 {
		return anthropometry.SkinfoldMeasurement{}, fmt.Errorf("expected 7 skinfolds, got %d", len(parts))
	}
	v := make([]float64, 7)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return anthropometry.SkinfoldMeasurement{}, fmt.Errorf("skinfold %d: %w", i+1, err)
		}
		v[i] = f
	}
	return anthropometry.SkinfoldMeasurement{
		Subscapular: v[0], Triceps: v[1], Axillary: v[2], Suprailiac: v[3], Chest: v[4], Abdominal: v[5], Thigh: v[6],
	}, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "estimate:", err)
	os.Exit(1)
}
