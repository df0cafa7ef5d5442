package anthropometry

const (
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
	kcalPerGramCarb    = 4

	proteinPerKG = 2.0
	fatPerKG     = 0.8
)

func harrisBenedict(s Subject) float64 {
	w, h, a := s.WeightKG, s.HeightCM, float64(s.Age)
	if s.Sex == SexFemale {
		return 655 + 9.6*w + 1.8*h - 4.7*a
	}
	return 66 + 13.7*w + 5*h - 6.8*a
}

func mifflinStJeor(s Subject) float64 {
	base := 10*s.WeightKG + 6.25*s.HeightCM - 5*float64(s.Age)
	if s.Sex == SexFemale {
		return base - 161
	}
	return base + 5
}

// EstimateMetabolism computes BMR, applies the goal multiplier and splits
// the adjusted energy into protein, fat and carbohydrate grams.
func (e *Estimator) EstimateMetabolism(s Subject, goal Goal) (MetabolicResult, error) {
	var c checker
	c.check("height", s.HeightCM, tagHeight)
	c.check("weight", s.WeightKG, tagWeight)
	c.check("age", s.Age, tagAge)
	c.check("sex", string(s.Sex), tagSex)
	c.check("goal", string(goal), tagGoal)
	if err := c.err(); err != nil {
		return MetabolicResult{}, err
	}
	mult, _ := goal.Multiplier()

	var base float64
	switch e.opts.BMRFormula {
	case HarrisBenedict:
		base = harrisBenedict(s)
	default:
		base = mifflinStJeor(s)
	}
	base = snap(base)
	adjusted := snap(base * mult)

	protein := proteinPerKG * s.WeightKG
	fat := fatPerKG * s.WeightKG
	carb := (adjusted - (protein*kcalPerGramProtein + fat*kcalPerGramFat)) / kcalPerGramCarb

	res := MetabolicResult{
		Formula:     e.opts.BMRFormula,
		Goal:        goal,
		BMRBase:     base,
		BMRAdjusted: adjusted,
		ProteinG:    protein,
		FatG:        fat,
		CarbG:       carb,
	}

	rp := e.round(snap(protein))
	rf := e.round(snap(fat))
	res.Rounded = RoundedMetabolic{
		BMRBase:     e.round(base),
		BMRAdjusted: e.round(adjusted),
		ProteinG:    rp,
		FatG:        rf,
		CarbG:       e.round(snap((adjusted - float64(rp*kcalPerGramProtein+rf*kcalPerGramFat)) / kcalPerGramCarb)),
	}

	if base <= 0 {
		res.Warnings = append(res.Warnings, WarningNonPositiveBMR)
	}
	if carb < 0 || res.Rounded.CarbG < 0 {
		res.Warnings = append(res.Warnings, WarningNegativeCarbs)
	}
	return res, nil
}
