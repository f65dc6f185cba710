package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"furrylink/internal/core/auth"
	"furrylink/internal/core/cache"
	"furrylink/internal/core/config"
	"furrylink/internal/core/database"
	"furrylink/internal/core/logger"
	"furrylink/internal/core/server"
	"furrylink/internal/core/session"
	"furrylink/internal/core/storage"
	"furrylink/internal/domain"
	"furrylink/internal/policy"
	"furrylink/internal/repo"
	"furrylink/internal/repo/memory"
	"furrylink/internal/service"
	"furrylink/internal/transport/http/router"
	"furrylink/pkg/validation"
)

func main() {
	cfgPath := flag.String("config", "", "config file (default $CONFIG_PATH or ./configs/config.local.yaml)")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := logger.NewFromConfig(cfg.Log)
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)
	validation.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	probes := map[string]router.Probe{}

	// 实体存储
	store := mustOpenStore(cfg, log, probes)

	// 会话 + 缓存
	var sessStore session.Store = session.NewMemoryStore()
	var listCache *cache.Cache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		sessStore = session.NewRedisStore(rdb)
		listCache = cache.New(rdb)
		probes["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Warn("redis not configured, sessions kept in memory")
	}
	jwter := &auth.JWTer{Secret: []byte(cfg.Session.Secret), Issuer: cfg.Session.Issuer, TTL: cfg.Session.TTL()}
	sessions := session.NewManager(sessStore, jwter, log)

	// 照片存储
	files := mustOpenStorage(ctx, cfg, log)

	pol := policy.New(policy.Options{StrictOwnership: cfg.Security.StrictOwnership})
	r := router.NewAPIEngine(router.Deps{
		Log:      log,
		Config:   cfg,
		Sessions: sessions,
		Auth:     service.NewAuthService(store, sessions, log),
		Users:    service.NewUserService(store, pol, listCache, log),
		Pets: service.NewPetService(store, files, listCache, pol, service.PetOptions{
			MaxBytes:   cfg.Upload.MaxBytes(),
			AllowedExt: cfg.Upload.AllowedExt,
			CacheTTL:   time.Duration(cfg.Cache.TTLSec) * time.Second,
		}, log),
		Reviews:      service.NewReviewService(store, pol, log),
		Applications: service.NewApplicationService(store, pol, log),
	})

	apiSrv := server.FromConfig(cfg.App.HTTP, r)
	opsSrv := server.BuildServer(server.Addr(cfg.App.Ops.Host, cfg.App.Ops.Port),
		router.NewOpsEngine(log, probes), 5*time.Second, 10*time.Second, 60*time.Second)

	errCh := make(chan error, 2)
	onErr := func(err error) { errCh <- err }
	server.Start(apiSrv, "api", log, onErr)
	server.Start(opsSrv, "ops", log, onErr)
	log.Info("furrylink started",
		zap.String("api", apiSrv.Addr),
		zap.String("ops", opsSrv.Addr),
		zap.String("db", cfg.DB.Driver),
		zap.String("upload", cfg.Upload.Driver),
		zap.Bool("strict_ownership", cfg.Security.StrictOwnership),
	)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("server start FAILED", zap.Error(err))
	}

	// 优雅关闭
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.Shutdown(shutCtx, log, apiSrv, opsSrv)
	log.Info("furrylink stopped gracefully")
}

func mustOpenStore(cfg *config.Config, l *zap.Logger, probes map[string]router.Probe) domain.Store {
	if cfg.DB.Driver == "memory" {
		l.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore()
	}
	db, err := database.NewGorm(cfg.DB, l)
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		l.Fatal("db handle", zap.Error(err))
	}
	probes["db"] = sqlDB.PingContext
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	st := repo.NewStore(db)
	if cfg.DB.AutoMigrate {
		if err := st.Migrate(); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}
	return st
}

func mustOpenStorage(ctx context.Context, cfg *config.Config, l *zap.Logger) storage.Storage {
	switch cfg.Upload.Driver {
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.Upload.CredentialsFile)
		if err != nil {
			l.Fatal("gcs client", zap.Error(err))
		}
		l.Info("photo storage", zap.String("driver", "gcs"), zap.String("bucket", cfg.Upload.Bucket))
		return &storage.GCS{Client: client, Bucket: cfg.Upload.Bucket, Prefix: cfg.Upload.Prefix}
	default:
		local, err := storage.NewLocal(cfg.Upload.Dir)
		if err != nil {
			l.Fatal("upload dir", zap.String("dir", cfg.Upload.Dir), zap.Error(err))
		}
		l.Info("photo storage", zap.String("driver", "local"), zap.String("dir", cfg.Upload.Dir))
		return local
	}
}
