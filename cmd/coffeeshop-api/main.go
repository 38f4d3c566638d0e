// Command coffeeshop-api serves the coffee shop drink routes behind an
// AuthGate.
//
// Configuration comes from the environment (see internal/config), seeded
// from a .env file in the working directory when one exists.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/coffeeshop/authgate"
	"github.com/coffeeshop/authgate/internal/config"
	"github.com/coffeeshop/authgate/jwks"
	"github.com/coffeeshop/authgate/validator"
)

const (
	envFilePath     = ".env"
	shutdownTimeout = 10 * time.Second
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stderr)

	if err := run(log); err != nil {
		log.WithError(err).Fatal("coffeeshop-api stopped")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load(envFilePath)
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	reg := prometheus.NewRegistry()
	gate, closeGate, err := newGate(cfg, log, reg)
	if err != nil {
		return err
	}
	defer closeGate()

	if level < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newRouter(gate, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newGate wires the key set fetcher, resolver, validator and gate. The
// returned func releases the Redis client, if any.
func newGate(cfg *config.Config, log *logrus.Logger, reg prometheus.Registerer) (*authgate.AuthGate, func(), error) {
	logger := authgate.NewLogrusLogger(log)
	closer := func() {}

	httpFetcher, err := jwks.NewHTTPFetcher(cfg.JWKSURL(), jwks.WithTimeout(cfg.JWKSFetchTimeout))
	if err != nil {
		return nil, closer, err
	}
	var fetcher jwks.Fetcher = httpFetcher

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closer = func() { _ = client.Close() }

		fetcher, err = jwks.NewRedisFetcher(httpFetcher, client, jwks.WithRedisLogger(logger))
		if err != nil {
			closer()
			return nil, func() {}, err
		}
		log.WithField("addr", cfg.RedisAddr).Info("sharing key set through redis")
	}

	metrics, err := authgate.NewPrometheusMetrics(reg)
	if err != nil {
		closer()
		return nil, func() {}, err
	}

	resolver, err := jwks.NewResolver(fetcher,
		jwks.WithLogger(logger),
		jwks.WithFetchObserver(metrics.ObserveKeySetFetch),
	)
	if err != nil {
		closer()
		return nil, func() {}, err
	}

	algorithms := make([]validator.SignatureAlgorithm, 0, len(cfg.Algorithms))
	for _, alg := range cfg.Algorithms {
		algorithms = append(algorithms, validator.SignatureAlgorithm(alg))
	}

	v, err := validator.New(
		validator.WithIssuer(cfg.IssuerURL()),
		validator.WithAudience(cfg.Audience),
		validator.WithAlgorithms(algorithms...),
		validator.WithAllowedClockSkew(cfg.ClockSkew),
		validator.WithLogger(logger),
	)
	if err != nil {
		closer()
		return nil, func() {}, err
	}

	gate, err := authgate.New(
		authgate.WithKeyResolver(resolver),
		authgate.WithTokenVerifier(v),
		authgate.WithLogger(logger),
		authgate.WithMetrics(metrics),
		authgate.WithValidateOnOptions(false),
	)
	if err != nil {
		closer()
		return nil, func() {}, err
	}

	return gate, closer, nil
}
