package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dietia/dietia-backend/internal/application"
	"github.com/dietia/dietia-backend/pkg/helpers"
	"github.com/dietia/dietia-backend/pkg/response"
)

type DietHandler struct {
	Svc    *application.DietService
	Logger *logrus.Logger
}

func NewDietHandler(svc *application.DietService, logger *logrus.Logger) *DietHandler {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &DietHandler{Svc: svc, Logger: logger}
}

type generateDietRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

func (h *DietHandler) notFoundOr500(c *gin.Context, err error, msg string) {
	if errors.Is(err, application.ErrDietNotFound) {
		response.Error[any](c, http.StatusNotFound, "diet not found", nil)
		return
	}
	h.Logger.WithError(err).WithField("diet_id", c.Param("id")).Error(msg)
	response.Error[any](c, http.StatusInternalServerError, msg, nil)
}

// Generate POST /api/diets
func (h *DietHandler) Generate(c *gin.Context) {
	var req generateDietRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.Svc.Generate(c.Request.Context(), c.GetString("userID"), req.Prompt)
	switch {
	case err == nil:
		response.Success(c, http.StatusCreated, plan, "diet generated", nil)
	case errors.Is(err, application.ErrEmptyPrompt), errors.Is(err, application.ErrPromptTooLong):
		response.Error[any](c, http.StatusBadRequest, err.Error(), gin.H{"prompt": err.Error()})
	case errors.Is(err, application.ErrDietUnavailable):
		h.Logger.WithError(err).Warn("diet generation unavailable")
		response.Error[any](c, http.StatusBadGateway, "diet generation is unavailable, try again later", nil)
	default:
		h.Logger.WithError(err).Error("diet generation failed")
		response.Error[any](c, http.StatusInternalServerError, "diet generation failed", nil)
	}
}

// List GET /api/diets?limit=
func (h *DietHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	plans, err := h.Svc.List(c.Request.Context(), c.GetString("userID"), limit)
	if err != nil {
		h.Logger.WithError(err).Error("list diets failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list diets", nil)
		return
	}
	response.Success(c, http.StatusOK, plans, "diets", map[string]any{"count": len(plans)})
}

// Get GET /api/diets/:id
func (h *DietHandler) Get(c *gin.Context) {
	plan, err := h.Svc.Get(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		h.notFoundOr500(c, err, "failed to load diet")
		return
	}
	response.Success(c, http.StatusOK, plan, "diet", nil)
}

// Delete DELETE /api/diets/:id
func (h *DietHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		h.notFoundOr500(c, err, "failed to delete diet")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "diet deleted", nil)
}

// SendEmail POST /api/diets/:id/email
func (h *DietHandler) SendEmail(c *gin.Context) {
	if err := h.Svc.SendByEmail(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		h.notFoundOr500(c, err, "failed to send diet")
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"enqueued": true}, "diet e-mail enqueued", nil)
}

// Search GET /api/diets/search?q=&size=
func (h *DietHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), c.GetString("userID"), c.Query("q"), size)
	if err != nil {
		h.Logger.WithError(err).Warn("diet search failed")
		response.Error[any](c, http.StatusBadGateway, "search is unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "results", map[string]any{"count": len(hits)})
}
