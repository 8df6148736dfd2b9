package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/aniwatch/backend/internal/auth/http"
	authrepo "github.com/aniwatch/backend/internal/auth/repository"
	authservice "github.com/aniwatch/backend/internal/auth/service"
	"github.com/aniwatch/backend/internal/common/config"
	"github.com/aniwatch/backend/internal/common/constants"
	"github.com/aniwatch/backend/internal/common/crypto"
	"github.com/aniwatch/backend/internal/common/db"
	commonhttp "github.com/aniwatch/backend/internal/common/http"
	"github.com/aniwatch/backend/internal/common/jwtverify"
	"github.com/aniwatch/backend/internal/common/logger"
	"github.com/aniwatch/backend/internal/common/server"
	favhttp "github.com/aniwatch/backend/internal/favourites/http"
	favrepo "github.com/aniwatch/backend/internal/favourites/repository"
	favservice "github.com/aniwatch/backend/internal/favourites/service"
	watchhttp "github.com/aniwatch/backend/internal/watchlist/http"
	watchrepo "github.com/aniwatch/backend/internal/watchlist/repository"
	watchservice "github.com/aniwatch/backend/internal/watchlist/service"
)

const serviceName = "api"

func main() {
	log, err := logger.New(getEnv("LOG_DIR", "logs"), serviceName, getEnv("LOG_LEVEL", "INFO"))
	if err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	db.StartPoolMetrics(pool, constants.DBPoolMetricsInterval)

	hasher := &crypto.BcryptHasher{}
	idGenerator := crypto.NewUUIDGenerator()

	issuer := authservice.NewTokenIssuer(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	users := authrepo.NewPgUserRepository(pool, log)
	auth := authservice.NewAuthService(users, issuer, hasher, idGenerator, log)

	watchlist := watchservice.NewService(watchrepo.NewPgRepository(pool), idGenerator, log)
	favourites := favservice.NewService(favrepo.NewPgRepository(pool), idGenerator, log)

	guard := jwtverify.Middleware(cfg.AccessTokenSecret, auth, log)

	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authhttp.NewHandler(auth, guard, cfg, log))
	mux.Handle("/api/watchlist/", guard(watchhttp.NewHandler(watchlist, log)))
	mux.Handle("/api/favourites/", guard(favhttp.NewHandler(favourites, log)))
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	limiter := commonhttp.NewStrictRateLimiter()
	handler := commonhttp.BuildBaseHandler(log, limiter.Middleware(mux))

	srv := server.NewServer(server.DefaultServerConfig(cfg.HTTPPort), handler)

	server.StartWithGracefulShutdownAndHooks(srv, log, serviceName, []server.ShutdownHook{
		func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
