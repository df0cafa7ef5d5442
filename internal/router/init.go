package router

import (
	"context"
	"errors"

	"github.com/dietia/dietia-backend/internal/application"
	"github.com/dietia/dietia-backend/internal/container"
	pginfra "github.com/dietia/dietia-backend/internal/infrastructure/postgres"
	"github.com/dietia/dietia-backend/internal/infrastructure/search"
	handlers "github.com/dietia/dietia-backend/internal/interface/http"
	"github.com/dietia/dietia-backend/internal/router/modules"
	"github.com/dietia/dietia-backend/pkg/helpers"
	tpl "github.com/dietia/dietia-backend/pkg/mailer/templates"
)

// Services groups the application layer built from the container.
type Services struct {
	Users       *application.UserService
	Assessments *application.AssessmentService
	Diets       *application.DietService
}

// BuildServices wires repositories and optional clients into services.
// Missing optional clients leave the matching service field nil.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	rdb := container.GetRedis()

	users := pginfra.NewUserRepository(pool)
	audits := pginfra.NewAuditRepository(pool)
	assessments := pginfra.NewAssessmentRepository(pool)
	plans := pginfra.NewDietPlanRepository(pool)

	var notifier *application.Notifier
	if pub := container.GetRabbitPub(); pub != nil {
		notifier = application.NewNotifier(pub, cfg, tpl.IPAPIResolver{}, logger)
	}
	var index application.DietSearchIndex
	if idx := search.NewDietIndex(container.GetES(), cfg.ESDietsIndex); idx != nil {
		index = idx
	}

	userSvc := application.NewUserService(users, audits, container.GetJWT(), rdb, logger)
	userSvc.Notifier = notifier
	userSvc.Search = index
	userSvc.ResetURL = cfg.ResetPasswordURL
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		userSvc.Avatars = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket}
	}

	assessmentSvc := application.NewAssessmentService(assessments, container.GetEstimator(), rdb, cfg.AssessmentCacheTTL, logger)

	var gen application.TextGenerator
	if g := container.GetGemini(); g != nil {
		gen = g
	}
	dietSvc := application.NewDietService(plans, users, assessments, gen, logger)
	dietSvc.Index = index
	dietSvc.Notifier = notifier
	dietSvc.AppURL = cfg.AppURL

	return Services{Users: userSvc, Assessments: assessmentSvc, Diets: dietSvc}
}

func healthChecks() map[string]handlers.Check {
	checks := map[string]handlers.Check{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if es := container.GetES(); es != nil {
		checks["elasticsearch"] = func(ctx context.Context) error {
			res, err := es.Ping(es.Ping.WithContext(ctx))
			if err != nil {
				return err
			}
			defer func() { _ = res.Body.Close() }()
			if res.IsError() {
				return errors.New(res.Status())
			}
			return nil
		}
	}
	return checks
}

// InitModules builds every feature module and registers it with the registry.
// It should be called once during startup, after the container is filled.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	rdb := container.GetRedis()
	svcs := BuildServices()

	r.Engine.GET("/healthz", handlers.NewHealthHandler(healthChecks()).Health)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svcs.Users, logger, cfg.CookieDomain, cfg.CookieSecure), rdb, jwt))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svcs.Users, logger, cfg.CookieDomain, cfg.CookieSecure), rdb, jwt))

	assessments := handlers.NewAssessmentHandler(svcs.Assessments, logger)
	r.Add(modules.NewEstimateModule(assessments, rdb))
	r.Add(modules.NewAssessmentModule(assessments, rdb, jwt))
	r.Add(modules.NewDietModule(handlers.NewDietHandler(svcs.Diets, logger), rdb, jwt))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
