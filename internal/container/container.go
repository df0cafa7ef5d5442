package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dietia/dietia-backend/config"
	"github.com/dietia/dietia-backend/internal/domain/anthropometry"
	"github.com/dietia/dietia-backend/internal/infrastructure/gemini"
	"github.com/dietia/dietia-backend/pkg/helpers"
)

// app-level container to share constructed components across packages.
// The router wires modules from these singletons; any of the optional
// clients may be nil and the services degrade accordingly.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager
	estimator  *anthropometry.Estimator

	rabbitPub    *helpers.RabbitPublisher
	esClient     *elasticsearch.Client
	geminiClient *gemini.Client
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

func SetEstimator(e *anthropometry.Estimator) { estimator = e }

// GetEstimator falls back to the default formulas when none was configured.
func GetEstimator() *anthropometry.Estimator {
	if estimator != nil {
		return estimator
	}
	return anthropometry.MustEstimator(anthropometry.DefaultOptions())
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetGemini(c *gemini.Client)              { geminiClient = c }
func GetGemini() *gemini.Client               { return geminiClient }
