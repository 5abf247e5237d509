package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devconnector/internal/auth"
	"devconnector/internal/config"
	"devconnector/internal/github"
	apphttp "devconnector/internal/http"
	"devconnector/internal/repository"
	"devconnector/internal/repository/mongodb"
	"devconnector/internal/repository/sqlite"
	"devconnector/internal/service"
	"devconnector/internal/storage"
	"devconnector/internal/validation"
)

type repositories struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	posts    repository.PostRepository
	closer   io.Closer
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer repos.closer.Close()

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	v := validation.New()
	userService := service.NewUserService(repos.users, v)
	profileService := service.NewProfileService(repos.profiles, repos.users, v)
	postService := service.NewPostService(repos.posts, repos.users, v)
	exportService := service.NewExportService(repos.users, repos.profiles, repos.posts, storageSvc, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)

	githubClient := github.NewClient(github.Options{
		BaseURL:      cfg.GitHub.BaseURL,
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.Secret,
		CacheTTL:     time.Duration(cfg.GitHub.CacheTTLMinutes) * time.Minute,
	}, buildCache(ctx, cfg, logger), logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.Options{
		Users:      userService,
		Profiles:   profileService,
		Posts:      postService,
		Exports:    exportService,
		Tokens:     auth.NewTokenService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute),
		GitHub:     githubClient,
		AuthHeader: cfg.Auth.Header,
		Logger:     logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*repositories, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(db, logger); err != nil {
			db.Close()
			return nil, err
		}
		logger.Infof("using sqlite database %s", cfg.Database.Path)
		return &repositories{
			users:    sqlite.NewUserRepository(db),
			profiles: sqlite.NewProfileRepository(db),
			posts:    sqlite.NewPostRepository(db),
			closer:   db,
		}, nil

	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		client, db, err := mongodb.Connect(connectCtx, cfg.Database.MongoURI, cfg.Database.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(connectCtx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Infof("using mongodb database %s", cfg.Database.MongoDB)
		return &repositories{
			users:    mongodb.NewUserRepository(client, db),
			profiles: mongodb.NewProfileRepository(db),
			posts:    mongodb.NewPostRepository(db),
			closer:   closerFunc(func() error { return client.Disconnect(context.Background()) }),
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// buildCache returns nil when redis is not configured or unreachable.
func buildCache(ctx context.Context, cfg config.Config, logger *logrus.Logger) github.Cache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rdb, err := github.NewRedisClient(pingCtx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		logger.Warnf("redis unavailable, github responses will not be cached: %v", err)
		return nil
	}
	logger.Infof("caching github responses in redis %s", cfg.Redis.Addr)
	return github.NewRedisCache(rdb)
}

// buildStorage returns a nil service when no bucket is configured; exports
// are then disabled.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("storage bucket not set, account exports disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
