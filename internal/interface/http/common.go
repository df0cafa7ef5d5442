package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dietia/dietia-backend/internal/application"
	"github.com/dietia/dietia-backend/internal/domain/anthropometry"
	"github.com/dietia/dietia-backend/internal/interface/middleware"
	"github.com/dietia/dietia-backend/pkg/response"
	"github.com/dietia/dietia-backend/pkg/validation"
)

func requestMeta(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{IP: middleware.ClientIP(c), UserAgent: c.GetHeader("User-Agent")}
}

// bindJSON writes a 400 with field details when the body does not bind.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

// estimatorError answers out-of-range measurements with 422 and the
// offending fields. It reports false for any other error.
func estimatorError(c *gin.Context, err error) bool {
	verrs, ok := anthropometry.AsValidationErrors(err)
	if !ok {
		return false
	}
	response.Error[any](c, http.StatusUnprocessableEntity, "invalid measurements", verrs.Details())
	return true
}

func passwordTooLong(field string) map[string]string {
	return map[string]string{field: "must be at most 72 bytes"}
}
