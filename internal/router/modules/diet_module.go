package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/dietia/dietia-backend/internal/interface/http"
	"github.com/dietia/dietia-backend/internal/interface/middleware"
	"github.com/dietia/dietia-backend/pkg/helpers"
)

// DietModule registers diet generation and the stored plans.
type DietModule struct {
	Handler *handlers.DietHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewDietModule(h *handlers.DietHandler, rdb *redis.Client, jwt *helpers.JWTManager) *DietModule {
	return &DietModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *DietModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/diets")
	auth.Use(
		middleware.Auth(m.Redis, m.JWT),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		// Each generation is a paid model call
		auth.POST("", middleware.RateLimit(m.Redis, 10, time.Hour, middleware.KeyByUserID(), nil), m.Handler.Generate)
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/email", middleware.RateLimit(m.Redis, 5, time.Hour, middleware.KeyByUserID(), nil), m.Handler.SendEmail)
	}
}
