// Package metrics publishes process counters through expvar; they are served
// at /api/debug/vars when debug metrics are enabled.
package metrics

import "expvar"

var (
	BodyFatEstimations    = expvar.NewInt("estimations_body_fat")
	MetabolicEstimations  = expvar.NewInt("estimations_metabolism")
	EstimationRejections  = expvar.NewInt("estimations_rejected")
	NegativeCarbWarnings  = expvar.NewInt("estimations_negative_carbs")
	BodyFatOutOfRange     = expvar.NewInt("estimations_body_fat_out_of_range")
	DietGenerations       = expvar.NewInt("diet_generations")
	DietGenerationFailure = expvar.NewInt("diet_generation_failures")
	EmailsQueued          = expvar.NewInt("emails_queued")
	EmailQueueFailures    = expvar.NewInt("email_queue_failures")
)
