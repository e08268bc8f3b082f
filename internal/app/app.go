// Package app собирает процессы из конфигурации: выбирает бэкенд
// хранения, строит клиентов AWS и отдаёт готовые к запуску серверы.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/auth/password"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/auth/resettoken"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/config"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/infra/awsx"
	redisx "github.com/AaronWhiteTX/PhotoSnap-Pro/internal/infra/cache/redis"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/infra/database/dynamo"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/infra/database/memory"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/infra/database/postgres"
	iamscope "github.com/AaronWhiteTX/PhotoSnap-Pro/internal/infra/identity/iam"
	stsbroker "github.com/AaronWhiteTX/PhotoSnap-Pro/internal/infra/identity/sts"
	s3storage "github.com/AaronWhiteTX/PhotoSnap-Pro/internal/infra/storage/s3"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/shortlink"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/redirect"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web"
)

// store — хранилище, закрывающее оба репозитория разом. Все три
// бэкенда (dynamo, postgres, memory) реализуют его целиком.
type store interface {
	domain.UsersRepo
	domain.ShortLinksRepo
}

type runnable interface {
	Run()
	Close(ctx context.Context)
}

type App struct {
	config *config.Config
	server runnable
	log    *log.Logger
	repo   store
	cache  domain.Cache // nil = кеш выключен

	// фоновая выметалка просроченных коротких ссылок (только redirector)
	sweepEvery time.Duration
}

func buildStore(ctx context.Context, base *log.Logger, cfg *config.Config) (store, error) {
	switch cfg.DBBackend {
	case config.BackendPostgres:
		base.Println("init PostgreSQL")
		pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
		repo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
		if err != nil {
			return nil, fmt.Errorf("failed init postgres: %w", err)
		}
		base.Println("PostgreSQL is initialized")
		return repo, nil

	case config.BackendMemory:
		base.Println("init in-memory store")
		return memory.NewRepo(), nil

	default: // config.BackendDynamo, провалидировано при загрузке конфига
		base.Println("init DynamoDB")
		dynLog := log.New(base.Writer(), base.Prefix()+"[dynamo] ", base.Flags())
		awsCfg, err := awsx.Load(ctx, awsx.Options{
			Region:    cfg.AWSRegion,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed load aws config: %w", err)
		}
		repo := dynamo.NewRepo(dynLog, dynamodb.NewFromConfig(awsCfg), cfg.UsersTable, cfg.LinksTable)
		if err := repo.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed init dynamo: %w", err)
		}
		base.Println("DynamoDB is initialized")
		return repo, nil
	}
}

func buildCache(ctx context.Context, base *log.Logger, cfg *config.Config) (domain.Cache, error) {
	if cfg.RedisAddr == "" {
		base.Println("Redis is not configured, cache disabled")
		return nil, nil
	}

	base.Println("init Redis")
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())
	rc := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Println("Redis is initialized")
	return rc, nil
}

// BuildAPI собирает основной API-процесс (учётки, креды, пресайн-ссылки).
func BuildAPI(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[api] ", log.LstdFlags)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	repo, err := buildStore(ctx, base, cfg)
	if err != nil {
		return nil, err
	}

	cache, err := buildCache(ctx, base, cfg)
	if err != nil {
		return nil, err
	}

	base.Println("init AWS clients")
	awsCfg, err := awsx.Load(ctx, awsx.Options{
		Region:    cfg.AWSRegion,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed load aws config: %w", err)
	}

	s3Log := log.New(base.Writer(), base.Prefix()+"[s3] ", base.Flags())
	iamLog := log.New(base.Writer(), base.Prefix()+"[iam] ", base.Flags())
	stsLog := log.New(base.Writer(), base.Prefix()+"[sts] ", base.Flags())

	storage := s3storage.New(awsCfg, s3storage.Config{
		Bucket:    cfg.S3Bucket,
		Endpoint:  cfg.S3Endpoint,
		PathStyle: cfg.S3PathStyle,
	}, s3Log)

	issuer := iamscope.New(iam.NewFromConfig(awsCfg), iamscope.Config{
		AccountID:       cfg.AWSAccountID,
		BackendRoleName: cfg.BackendRoleName,
		Bucket:          cfg.S3Bucket,
	}, iamLog)

	broker := stsbroker.New(sts.NewFromConfig(awsCfg), stsbroker.Config{
		Bucket: cfg.S3Bucket,
		Region: cfg.AWSRegion,
	}, stsLog)

	linksLog := log.New(base.Writer(), base.Prefix()+"[shortlink] ", base.Flags())
	linksSvc := shortlink.NewService(repo, cache, cfg.ShortBaseURL, linksLog)

	base.Println("init Server")
	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	server := web.New(serverLog, cfg, web.Deps{
		Users:   repo,
		Hasher:  password.NewDefault(),
		Scopes:  issuer,
		Broker:  broker,
		Resets:  resettoken.NewDefault(),
		Storage: storage,
		Links:   linksSvc,
		Cache:   pinger(cache),
	})
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{config: cfg, server: server, log: base, repo: repo, cache: cache}, nil
}

// BuildRedirector собирает сервис редиректов коротких ссылок.
func BuildRedirector(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[redirector] ", log.LstdFlags)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	repo, err := buildStore(ctx, base, cfg)
	if err != nil {
		return nil, err
	}

	cache, err := buildCache(ctx, base, cfg)
	if err != nil {
		return nil, err
	}

	linksLog := log.New(base.Writer(), base.Prefix()+"[shortlink] ", base.Flags())
	linksSvc := shortlink.NewService(repo, cache, cfg.ShortBaseURL, linksLog)

	base.Println("init Server")
	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	server := redirect.New(serverLog, cfg, linksSvc, repo, pinger(cache))
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config:     cfg,
		server:     server,
		log:        base,
		repo:       repo,
		cache:      cache,
		sweepEvery: time.Hour,
	}, nil
}

// pinger переупаковывает domain.Cache в health.Pinger, сохраняя nil.
func pinger(c domain.Cache) interface{ Ping(context.Context) error } {
	if c == nil {
		return nil
	}
	return c
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	if a.sweepEvery > 0 {
		go a.sweepExpired(ctx)
	}
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	if a.cache != nil {
		a.cache.Close()
	}

	return nil
}

// sweepExpired периодически выметает просроченные короткие ссылки.
// Для DynamoDB это no-op (за TTL отвечает сама таблица), для
// postgres и memory — единственный механизм очистки.
func (a *App) sweepExpired(ctx context.Context) {
	t := time.NewTicker(a.sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := a.repo.PurgeExpired(ctx, time.Now())
			if err != nil {
				a.log.Printf("purge expired links: %v", err)
				continue
			}
			if n > 0 {
				a.log.Printf("purged %d expired links", n)
			}
		}
	}
}
