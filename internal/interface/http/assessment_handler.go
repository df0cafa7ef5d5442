package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dietia/dietia-backend/internal/application"
	"github.com/dietia/dietia-backend/internal/domain/anthropometry"
	"github.com/dietia/dietia-backend/pkg/helpers"
	"github.com/dietia/dietia-backend/pkg/response"
)

// AssessmentHandler exposes the estimator, both as stateless calculators and
// as the user's recorded assessment history.
type AssessmentHandler struct {
	Svc    *application.AssessmentService
	Logger *logrus.Logger
}

func NewAssessmentHandler(svc *application.AssessmentService, logger *logrus.Logger) *AssessmentHandler {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &AssessmentHandler{Svc: svc, Logger: logger}
}

// Ranges are enforced by the estimator so the answer carries every
// rejected field at once.
type metabolismRequest struct {
	Height float64            `json:"height"`
	Weight float64            `json:"weight"`
	Age    int                `json:"age"`
	Sex    anthropometry.Sex  `json:"sex"`
	Goal   anthropometry.Goal `json:"goal"`

	Meals         int    `json:"meals" binding:"omitempty,gte=1,lte=10"`
	ActivityLevel string `json:"activity_level" binding:"max=120"`
	Restrictions  string `json:"restrictions" binding:"max=500"`
	TrainingType  string `json:"training_type" binding:"max=120"`
	Foods         string `json:"foods" binding:"max=500"`
	Supplements   string `json:"supplements" binding:"max=500"`
}

func (r metabolismRequest) subject() anthropometry.Subject {
	return anthropometry.Subject{Age: r.Age, Sex: r.Sex, HeightCM: r.Height, WeightKG: r.Weight}
}

type skinfoldRequest struct {
	Age int               `json:"age" binding:"omitempty,age"`
	Sex anthropometry.Sex `json:"sex" binding:"omitempty,sex"`
	anthropometry.SkinfoldMeasurement
}

type bodyFatRequest struct {
	Age int               `json:"age"`
	Sex anthropometry.Sex `json:"sex"`
	anthropometry.SkinfoldMeasurement
}

// RecordMetabolism POST /api/assessments
func (h *AssessmentHandler) RecordMetabolism(c *gin.Context) {
	var req metabolismRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Svc.RecordMetabolism(c.Request.Context(), c.GetString("userID"), application.MetabolismInput{
		Subject: req.subject(),
		Goal:    req.Goal,
		Questionnaire: application.Questionnaire{
			ActivityLevel: req.ActivityLevel,
			Meals:         req.Meals,
			Restrictions:  req.Restrictions,
			TrainingType:  req.TrainingType,
			Foods:         req.Foods,
			Supplements:   req.Supplements,
		},
	})
	if err != nil {
		if estimatorError(c, err) {
			return
		}
		h.Logger.WithError(err).Error("record assessment failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to record assessment", nil)
		return
	}
	response.Success(c, http.StatusCreated, a, "assessment recorded", nil)
}

// RecordSkinfolds PUT /api/assessments/latest/skinfolds
func (h *AssessmentHandler) RecordSkinfolds(c *gin.Context) {
	var req skinfoldRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Svc.RecordSkinfolds(c.Request.Context(), c.GetString("userID"), application.SkinfoldInput{
		Age: req.Age, Sex: req.Sex, Folds: req.SkinfoldMeasurement,
	})
	if err != nil {
		if estimatorError(c, err) {
			return
		}
		if errors.Is(err, application.ErrAssessmentNotFound) {
			response.Error[any](c, http.StatusNotFound, "record an assessment before measuring skinfolds", nil)
			return
		}
		h.Logger.WithError(err).Error("record skinfolds failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to record skinfolds", nil)
		return
	}
	response.Success(c, http.StatusOK, a, "skinfolds recorded", nil)
}

// Latest GET /api/assessments/latest
func (h *AssessmentHandler) Latest(c *gin.Context) {
	a, err := h.Svc.Latest(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, application.ErrAssessmentNotFound) {
			response.Error[any](c, http.StatusNotFound, "no assessment yet", nil)
			return
		}
		h.Logger.WithError(err).Error("load latest assessment failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load assessment", nil)
		return
	}
	response.Success(c, http.StatusOK, a, "latest assessment", nil)
}

// History GET /api/assessments?limit=
func (h *AssessmentHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.Svc.History(c.Request.Context(), c.GetString("userID"), limit)
	if err != nil {
		h.Logger.WithError(err).Error("load assessment history failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load assessments", nil)
		return
	}
	response.Success(c, http.StatusOK, list, "assessments", map[string]any{"count": len(list)})
}

// EstimateMetabolism POST /api/estimate/metabolism
func (h *AssessmentHandler) EstimateMetabolism(c *gin.Context) {
	var req metabolismRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.CalculateMetabolism(req.subject(), req.Goal)
	if err != nil {
		if estimatorError(c, err) {
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "estimation failed", nil)
		return
	}
	response.Success(c, http.StatusOK, res, "metabolism estimated", nil)
}

// EstimateBodyFat POST /api/estimate/body-fat
func (h *AssessmentHandler) EstimateBodyFat(c *gin.Context) {
	var req bodyFatRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.CalculateBodyFat(anthropometry.Subject{Age: req.Age, Sex: req.Sex}, req.SkinfoldMeasurement)
	if err != nil {
		if estimatorError(c, err) {
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "estimation failed", nil)
		return
	}
	response.Success(c, http.StatusOK, res, "body fat estimated", nil)
}

// PreviewBodyFat POST /api/estimate/body-fat/preview
// Incomplete input answers with zeros instead of an error.
func (h *AssessmentHandler) PreviewBodyFat(c *gin.Context) {
	var req bodyFatRequest
	if !bindJSON(c, &req) {
		return
	}
	res := h.Svc.PreviewBodyFat(req.Age, req.Sex, req.SkinfoldMeasurement)
	response.Success(c, http.StatusOK, res, "preview", nil)
}
