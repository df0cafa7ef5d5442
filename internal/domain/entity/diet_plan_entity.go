package entity

import "time"

// DietPlan is a generated meal plan as shown to the user.
type DietPlan struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	AssessmentID *string   `json:"assessment_id,omitempty"`
	Prompt       string    `json:"prompt"`
	RawText      string    `json:"-"`
	Content      string    `json:"content"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
}
