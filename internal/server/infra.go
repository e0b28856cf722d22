package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"octofit.com/tracker/internal/bootstrap"
	"octofit.com/tracker/internal/config"
	search "octofit.com/tracker/internal/modules/search/service"
	"octofit.com/tracker/pkg/database"
	"octofit.com/tracker/pkg/events"
	"octofit.com/tracker/pkg/lock"
	"octofit.com/tracker/pkg/logger"
)

// Infra holds the connections shared by the HTTP server and the CLI
// commands. Redis, Kafka and Meilisearch are optional; the matching fields
// fall back to in-process implementations or nil when not configured.
type Infra struct {
	Config       *config.Config
	DB           *gorm.DB
	Redis        redis.UniversalClient
	Locker       lock.Locker
	Publisher    events.Publisher
	WorkoutIndex search.WorkoutIndex
	Logger       *zap.Logger
}

// OpenInfra connects to postgres, migrates the schema and sets up the
// optional backends named in cfg.
func OpenInfra(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Infra, error) {
	log = logger.OrNop(log)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := bootstrap.Migrate(db); err != nil {
		return nil, err
	}

	infra := &Infra{
		Config: cfg,
		DB:     db,
		Locker: lock.NewLocalLocker(),
		Logger: log,
	}

	var publishers []events.Publisher
	if cfg.RedisURL != "" {
		rdb, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, using in-process lock and no live feed", zap.Error(err))
		} else {
			infra.Redis = rdb
			infra.Locker = lock.NewRedisLocker(rdb, cfg.RecomputeLockTTL)
			publishers = append(publishers, events.NewRedisPublisher(rdb, events.LeaderboardChannel))
			log.Info("redis connected")
		}
	}
	if len(cfg.KafkaBrokers) > 0 {
		publishers = append(publishers, events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic))
		log.Info("kafka publisher enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	infra.Publisher = events.NewMultiPublisher(publishers...)

	if cfg.MeiliSearchHost != "" {
		client := meilisearch.New(meiliURL(cfg.MeiliSearchHost), meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		infra.WorkoutIndex = search.NewMeiliWorkoutIndex(client, log)
	}

	return infra, nil
}

func connectRedis(ctx context.Context, url string) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func meiliURL(host string) string {
	if !strings.HasPrefix(host, "http") {
		return "http://" + host + ":7700"
	}
	return host
}

// Close releases every connection opened by OpenInfra.
func (i *Infra) Close() error {
	var errs []error
	if i.Publisher != nil {
		errs = append(errs, i.Publisher.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		if sqlDB, err := i.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
