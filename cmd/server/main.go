package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-share/internal/config"
	"github.com/iliyamo/photo-share/internal/database"
	"github.com/iliyamo/photo-share/internal/handler"
	"github.com/iliyamo/photo-share/internal/imagehost"
	"github.com/iliyamo/photo-share/internal/middleware"
	"github.com/iliyamo/photo-share/internal/queue"
	"github.com/iliyamo/photo-share/internal/repository"
	"github.com/iliyamo/photo-share/internal/router"
	"github.com/iliyamo/photo-share/internal/service"
	"github.com/iliyamo/photo-share/internal/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database open", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, rate limiting and caching disabled")
	}

	codec, err := utils.NewTokenCodec(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTTLMin)
	if err != nil {
		logger.Fatal("token codec", zap.Error(err))
	}

	users := &repository.UserRepo{DB: db}
	blacklist := &repository.TokenBlacklistRepo{DB: db}
	photos := &repository.PhotoRepo{DB: db}
	tags := &repository.TagRepo{DB: db}
	comments := &repository.CommentRepo{DB: db}
	ratings := &repository.RatingRepo{DB: db}
	shares := &repository.ShareRepo{DB: db}

	host := imagehost.New(cfg.ImageHost)
	events := queue.NewPublisher(logger)
	go queue.StartActivityConsumer(logger)

	authSvc := service.NewAuthService(users, blacklist, codec, cfg.BcryptCost)
	userSvc := service.NewUserService(users, photos)
	photoSvc := service.NewPhotoService(photos, tags, host, events)
	commentSvc := service.NewCommentService(comments, photos)
	ratingSvc := service.NewRatingService(ratings, photos)
	shareSvc := service.NewShareService(shares, photos, host, cfg.PublicBaseURL)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(logger))

	router.Register(e,
		router.Handlers{
			Auth:     handler.NewAuthHandler(authSvc, logger),
			Users:    handler.NewUserHandler(userSvc),
			Photos:   handler.NewPhotoHandler(photoSvc, userSvc, logger),
			Comments: handler.NewCommentHandler(commentSvc),
			Ratings:  handler.NewRatingHandler(ratingSvc),
			Shares:   handler.NewShareHandler(shareSvc),
			Public:   handler.NewPublicHandler(photoSvc, shareSvc),
			Admin:    handler.NewAdminHandler(userSvc, photoSvc, logger),
		},
		router.Guards{Codec: codec, Revoked: blacklist, Users: users},
		db, rdb,
		config.LoadRateLimitConfig(),
		config.LoadCacheConfig(),
	)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
