package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/dietia/dietia-backend/internal/interface/http"
	"github.com/dietia/dietia-backend/internal/interface/middleware"
	"github.com/dietia/dietia-backend/pkg/helpers"
)

// AssessmentModule registers the recorded assessments of the signed-in user.
type AssessmentModule struct {
	Handler *handlers.AssessmentHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewAssessmentModule(h *handlers.AssessmentHandler, rdb *redis.Client, jwt *helpers.JWTManager) *AssessmentModule {
	return &AssessmentModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *AssessmentModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/assessments")
	auth.Use(
		middleware.Auth(m.Redis, m.JWT),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("", m.Handler.RecordMetabolism)
		auth.GET("", m.Handler.History)
		auth.GET("/latest", m.Handler.Latest)
		auth.PUT("/latest/skinfolds", m.Handler.RecordSkinfolds)
	}
}

// EstimateModule exposes the calculators without an account. The preview
// endpoint is hit on every keystroke, hence the higher limit.
type EstimateModule struct {
	Handler *handlers.AssessmentHandler
	Redis   *redis.Client
}

func NewEstimateModule(h *handlers.AssessmentHandler, rdb *redis.Client) *EstimateModule {
	return &EstimateModule{Handler: h, Redis: rdb}
}

func (m *EstimateModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/estimate")
	limiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil)
	preview := middleware.RateLimit(m.Redis, 600, time.Minute, middleware.KeyByIP(), nil)

	g.POST("/metabolism", limiter, m.Handler.EstimateMetabolism)
	g.POST("/body-fat", limiter, m.Handler.EstimateBodyFat)
	g.POST("/body-fat/preview", preview, m.Handler.PreviewBodyFat)
}
