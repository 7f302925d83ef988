package app

import (
	"context"
	"fmt"
	"strings"

	"storefront/config"
	"storefront/controllers"
	"storefront/libs"
	"storefront/middleware"
	"storefront/repositories"
	"storefront/routes"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const serviceName = "storefront"

// App holds the process-wide dependencies shared by the HTTP server and the workers.
type App struct {
	Config *config.Config
	Log    *libs.Logger
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Router *gin.Engine

	Users  *repositories.UserRepository
	Carts  *services.CartService
	Queue  *libs.RedisQueue
	Mailer services.Mailer

	shutdownTracer func(context.Context) error
}

// New connects to Postgres (required) and Redis (optional) and builds the router.
func New(ctx context.Context, cfg *config.Config, log *libs.Logger, serverless bool) (*App, error) {
	a := &App{Config: cfg, Log: log}

	if cfg.OTelEnabled {
		shutdown, err := libs.InitTracer(serviceName)
		if err != nil {
			log.Warn("tracing disabled", "error", err)
		} else {
			a.shutdownTracer = shutdown
		}
	}

	db, err := config.ConnectDB(ctx, cfg, serverless)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.DB = db

	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Warn("redis unavailable, running without cache and queue", "error", err)
	}
	a.Redis = rdb

	storage, err := NewImageStorage(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("image storage: %w", err)
	}

	if cfg.SMTPHost != "" {
		mailer, err := libs.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		if err != nil {
			log.Warn("mailer disabled", "error", err)
		} else {
			a.Mailer = mailer
		}
	}

	cache := libs.NewRedisCache(rdb, log)
	a.Queue = libs.NewRedisQueue(rdb, cfg.NotifyQueue)

	collectionRepo := repositories.NewCollectionRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	a.Users = repositories.NewUserRepository(db)

	collectionSvc := services.NewCollectionService(collectionRepo, cache, cfg.CacheTTL, log)
	productSvc := services.NewProductService(productRepo, collectionRepo, storage, cache, cfg.CacheTTL, log)
	imageSvc := services.NewImageService(productRepo, storage, cache, cfg.MaxImageSizeKB, log)
	a.Carts = services.NewCartService(cartRepo, productRepo, log)
	authSvc := services.NewAuthService(a.Users, cfg.JWTSecret, cfg.JWTExpiry)
	notifySvc := services.NewNotificationService(a.Queue)
	playgroundSvc := services.NewPlaygroundService(a.Mailer, libs.NewHTTPBinClient(cfg.HTTPBinURL), cache,
		services.PlaygroundConfig{
			Recipient:  cfg.HelloRecipient,
			Attachment: cfg.HelloAttachment,
			CacheTTL:   cfg.CacheTTL,
		}, log)

	if cfg.IsProduction() || serverless {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if !cfg.IsProduction() {
		router.Use(gin.Logger())
	}
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))

	uploadDir := ""
	if strings.EqualFold(cfg.ImageStorage, "local") {
		uploadDir = cfg.UploadDir
	}
	routes.SetupRoutes(router, routes.Controllers{
		Auth:          controllers.NewAuthController(authSvc, log),
		Collections:   controllers.NewCollectionController(collectionSvc, log),
		Products:      controllers.NewProductController(productSvc, imageSvc, cfg.TaxFactor, log),
		Carts:         controllers.NewCartController(a.Carts, log),
		Notifications: controllers.NewNotificationController(notifySvc, log),
		Playground:    controllers.NewPlaygroundController(playgroundSvc, log),
	}, routes.Options{
		ServiceName: serviceName,
		JWTSecret:   cfg.JWTSecret,
		UploadDir:   uploadDir,
		Swagger:     cfg.SwaggerEnabled,
		Tracing:     a.shutdownTracer != nil,
	})
	a.Router = router

	return a, nil
}

// NewImageStorage picks the backend named by IMAGE_STORAGE.
func NewImageStorage(ctx context.Context, cfg *config.Config) (services.ImageStorage, error) {
	switch strings.ToLower(cfg.ImageStorage) {
	case "", "local":
		return libs.NewLocalStorage(cfg.UploadDir, "/uploads")
	case "cloudinary":
		return libs.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	case "s3":
		return libs.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region)
	}
	return nil, fmt.Errorf("unknown IMAGE_STORAGE %q", cfg.ImageStorage)
}

func (a *App) Close(ctx context.Context) {
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(ctx); err != nil {
			a.Log.Warn("tracer shutdown failed", "error", err)
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
