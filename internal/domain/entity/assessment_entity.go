package entity

import (
	"time"

	"github.com/dietia/dietia-backend/internal/domain/anthropometry"
)

// Assessment is one physical evaluation of a user: the questionnaire, the
// metabolic estimate and, once measured, the skinfold body composition.
type Assessment struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Age      int                `json:"age"`
	Sex      anthropometry.Sex  `json:"sex"`
	HeightCM float64            `json:"height"`
	WeightKG float64            `json:"weight"`
	Goal     anthropometry.Goal `json:"goal"`

	// Questionnaire answers fed into diet prompts by the client.
	ActivityLevel string `json:"activity_level,omitempty"`
	Meals         int    `json:"meals,omitempty"`
	Restrictions  string `json:"restrictions,omitempty"`
	TrainingType  string `json:"training_type,omitempty"`
	Foods         string `json:"foods,omitempty"`
	Supplements   string `json:"supplements,omitempty"`

	Metabolic *anthropometry.MetabolicResult `json:"metabolic,omitempty"`

	Skinfolds       *anthropometry.SkinfoldMeasurement   `json:"skinfolds,omitempty"`
	BodyComposition *anthropometry.BodyCompositionResult `json:"body_composition,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subject returns the anthropometric inputs recorded on the assessment.
func (a *Assessment) Subject() anthropometry.Subject {
	return anthropometry.Subject{Age: a.Age, Sex: a.Sex, HeightCM: a.HeightCM, WeightKG: a.WeightKG}
}

// DailyCalories is the rounded adjusted BMR, or 0 before any estimate.
func (a *Assessment) DailyCalories() int {
	if a == nil || a.Metabolic == nil {
		return 0
	}
	return a.Metabolic.Rounded.BMRAdjusted
}
