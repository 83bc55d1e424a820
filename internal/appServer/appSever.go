// launching the server, DB, redis, broker
package appServer

import (
	"context"
	"crypto/tls"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/config"
	repository "github.com/ds124wfegd/WB_L3/editor/internal/database/postgres"
	"github.com/ds124wfegd/WB_L3/editor/internal/database/redis"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/notify"
	"github.com/ds124wfegd/WB_L3/editor/internal/service"
	"github.com/ds124wfegd/WB_L3/editor/internal/transport"
	"github.com/ds124wfegd/WB_L3/editor/pkg/postgres"
	redisClient "github.com/ds124wfegd/WB_L3/editor/pkg/redis"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// dependencies is what both binaries share: the database, the optional
// redis cache and the edit service on top of them.
type dependencies struct {
	db         *sql.DB
	redis      *goredis.Client
	thumbnails notify.ThumbnailRequester
	assets     repository.AssetRepository
	edits      service.EditService
	checks     map[string]transport.HealthCheck
}

func setupLogging(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	if cfg.Server.Env == "production" {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func newDependencies(cfg *config.Config, thumbnails notify.ThumbnailRequester) (*dependencies, error) {
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	d := &dependencies{
		db:         db,
		thumbnails: thumbnails,
		checks: map[string]transport.HealthCheck{
			"postgres": db.PingContext,
		},
	}

	var assets repository.AssetRepository = repository.NewAssetRepository(db)
	if cfg.Redis.Enabled {
		client, err := redisClient.NewRedisClient(&cfg.Redis)
		if err != nil {
			logrus.WithError(err).Warn("Redis unavailable, asset cache disabled")
		} else {
			d.redis = client
			assets = redis.NewCachedAssetRepository(client, assets, cfg.Redis.CacheTTL)
			d.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}

	if hc, ok := thumbnails.(interface{ HealthCheck() error }); ok {
		d.checks["broker"] = func(context.Context) error { return hc.HealthCheck() }
	}

	d.assets = assets
	d.edits = service.NewEditService(
		assets,
		repository.NewEditRepository(db),
		repository.NewAnnotationRepository(db),
		thumbnails,
	)
	return d, nil
}

func (d *dependencies) Close() {
	if d.thumbnails != nil {
		if err := d.thumbnails.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close thumbnail requester")
		}
	}
	if d.redis != nil {
		d.redis.Close()
	}
	d.db.Close()
}

// newThumbnailRequester picks the broker; anything unreachable degrades to
// logging so edits keep working.
func newThumbnailRequester(cfg *config.Config) notify.ThumbnailRequester {
	switch cfg.Broker.Kind {
	case "kafka":
		return notify.NewKafkaRequester(cfg.Broker.Brokers, cfg.Broker.Topic)
	case "rabbitmq":
		q, err := notify.NewRabbitMQ(notify.RabbitMQConfig{URL: cfg.Broker.RabbitURL, QueueName: cfg.Broker.Queue})
		if err != nil {
			logrus.WithError(err).Warn("RabbitMQ unavailable, using mock requester instead")
			return notify.NewLogRequester()
		}
		return q
	case "redis":
		q, err := newRedisQueue(cfg)
		if err != nil {
			logrus.WithError(err).Warn("Redis queue unavailable, using mock requester instead")
			return notify.NewLogRequester()
		}
		return q
	default:
		return notify.NewLogRequester()
	}
}

// newRedisQueue opens a client of its own; the queue closes it.
func newRedisQueue(cfg *config.Config) (*notify.RedisQueue, error) {
	client, err := redisClient.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	return notify.NewRedisQueue(client, notify.RedisQueueConfig{
		Queue:      cfg.Broker.Queue,
		Consumer:   cfg.Broker.Consumer,
		MaxRetries: cfg.Broker.MaxRetries,
		RetryDelay: cfg.Broker.RetryDelay,
	}), nil
}

func NewServer(cfg *config.Config) {

	setupLogging(cfg)

	deps, err := newDependencies(cfg, newThumbnailRequester(cfg))
	if err != nil {
		logrus.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer deps.Close()

	editHandler := transport.NewEditHandler(deps.edits)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(editHandler, cfg.Server.RequestTimeout, deps.checks)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("addr", cfg.GetServerAddress()).Info("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
