package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-diary/config"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/metrics"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/queue"
	"github.com/oksasatya/go-ddd-diary/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons. Optional backends
// (redis, gcs, elasticsearch, rabbitmq) stay nil when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	tokens *helpers.TokenService

	rabbitPub *queue.Publisher
	esClient  *elasticsearch.Client

	registry  *prometheus.Registry
	collector *metrics.Collector
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetGCS(s *storage.Client)                { gcsClient = s }
func GetGCS() *storage.Client                 { return gcsClient }
func SetTokens(t *helpers.TokenService)       { tokens = t }
func GetTokens() *helpers.TokenService        { return tokens }
func SetRabbitPub(p *queue.Publisher)         { rabbitPub = p }
func GetRabbitPub() *queue.Publisher          { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

// SetMetrics installs the Prometheus registry and the collector registered on it.
func SetMetrics(reg *prometheus.Registry, c *metrics.Collector) {
	registry, collector = reg, c
}
func GetMetricsRegistry() *prometheus.Registry { return registry }
func GetMetrics() *metrics.Collector           { return collector }
