package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gridmark/internal/area"
	"gridmark/internal/cache"
	"gridmark/internal/config"
	"gridmark/internal/domain"
	"gridmark/internal/geocode"
	"gridmark/internal/observability/logging"
	"gridmark/internal/observability/metrics"
	"gridmark/internal/observability/middleware"
	impl "gridmark/internal/service/impl"
	"gridmark/internal/store"
	httpx "gridmark/internal/transport/http"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	log := logging.NewLogger(logging.Config{
		ServiceName: "gridmark",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(log)

	log.Info("starting service")

	cfg := config.Load()
	metrics.MustRegister("gridmark")

	gormCfg := &gorm.Config{}
	if cfg.LogSQL {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	if err != nil {
		log.Error("gorm open", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)

	// citext backs the case-insensitive unique columns; harmless if present.
	if err := gdb.Exec("CREATE EXTENSION IF NOT EXISTS citext").Error; err != nil {
		log.Warn("citext extension", "error", err)
	}
	if err := st.Migrate(
		&domain.User{},
		&domain.PasswordCredential{},
		&domain.Entry{},
		&domain.SquareOwnership{},
		&domain.Invite{},
		&domain.UsernameHistory{},
		&domain.UserArea{},
	); err != nil {
		log.Error("migrate", "error", err)
		os.Exit(1)
	}

	pw := impl.NewPasswordServiceArgon2id()
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		TTL:        cfg.TokenTTL,
		SigningKey: []byte(cfg.SigningKey),
	})

	auth := impl.NewAuthServiceImpl(st, pw, ts)
	marks := impl.NewMarkServiceImpl(st, geocode.NewClient(cfg.GeocodeBaseURL))
	rename := impl.NewRenameServiceImpl(st)
	world := impl.NewWorldServiceImpl(st)

	ranker := area.NewRanker(cfg.AreaCommand, cfg.AreaTimeout)
	var boards *impl.LeaderboardServiceImpl
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisDB)
		defer func() { _ = rc.Close() }()
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, leaderboards will read from postgres", "error", err)
		}
		cancel()
		boards = impl.NewLeaderboardServiceImpl(st, ranker, rc, cfg.LeaderboardTTL)
	} else {
		boards = impl.NewLeaderboardServiceImpl(st, ranker, nil, cfg.LeaderboardTTL)
	}

	router := httpx.NewRouter(&httpx.Handlers{
		Auth:   auth,
		Marks:  marks,
		Rename: rename,
		Boards: boards,
		World:  world,
	}, httpx.RouterConfig{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	handler := middleware.WithRequestAndTrace(middleware.WithMetrics(router))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		_ = srv.Close()
	}()

	slog.Info("listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server closed")
}
