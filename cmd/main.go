package main

import (
	"context"
	"dcms/backend/internal/api/handler"
	"dcms/backend/internal/auth"
	"dcms/backend/internal/complaint"
	"dcms/backend/internal/config"
	"dcms/backend/internal/hub"
	"dcms/backend/internal/localization"
	"dcms/backend/internal/location"
	"dcms/backend/internal/notify"
	"dcms/backend/internal/queue"
	"dcms/backend/internal/storage"
	"dcms/backend/internal/telegram"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDev() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func setupDependencies(ctx context.Context, cfg config.Config, logger *zap.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to connect Redis", zap.Error(err))
	}

	if err := storage.AutoMigrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	logger.Info("database and redis connections established, migrations complete")
	return db, rdb
}

// setupNotifications builds the dispatcher. Channels without configuration are
// left out and their messages go to the log sender.
func setupNotifications(ctx context.Context, cfg config.Config, logger *zap.Logger) *notify.Dispatcher {
	d := notify.NewDispatcher(notify.NewLogSender(logger))
	if cfg.AWSRegion == "" {
		logger.Warn("AWS_REGION not set, email and SMS go to the log")
		return d
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("failed to load AWS config, email and SMS go to the log", zap.Error(err))
		return d
	}
	if cfg.SESFrom != "" {
		d.Register(notify.NewEmailSender(awsCfg, cfg.SESFrom))
	}
	if cfg.SMSEnabled {
		d.Register(notify.NewSMSSender(awsCfg))
	}
	return d
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logger := newLogger(cfg)
	defer logger.Sync()
	if envErr != nil {
		logger.Debug("no .env file loaded", zap.Error(envErr))
	}

	logger.Info("starting complaint service", zap.String("env", cfg.Env))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, rdb := setupDependencies(ctx, cfg, logger)
	s := storage.NewStorageService(db, rdb, logger)
	cache := storage.NewRedisCache(rdb)

	localizer, err := localization.NewLocalizer(cfg.LocaleDir)
	if err != nil {
		logger.Fatal("failed to load translations", zap.Error(err))
	}

	dispatcher := setupNotifications(ctx, cfg, logger)

	var (
		linker *telegram.Linker
		bot    *telegram.BotService
	)
	if cfg.TelegramToken != "" {
		api, err := telegram.NewBotAPI(cfg.TelegramToken, logger)
		if err != nil {
			logger.Fatal("failed to start telegram bot", zap.Error(err))
		}
		dispatcher.Register(notify.NewTelegramSender(api))
		linker = telegram.NewLinker(cache, s, logger)
		bot = telegram.NewBotService(api, linker, localizer, cfg.DefaultLocale, logger)
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN not set, telegram linking disabled")
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	authSvc := auth.NewService(s, cache, tokens, dispatcher, localizer, cfg.DefaultLocale, logger)

	statusNotifier := notify.NewStatusNotifier(s, dispatcher, localizer, cfg.DefaultLocale, logger)
	complaintSvc := complaint.NewService(s, location.Nepal, logger)
	complaintSvc.Listeners = append(complaintSvc.Listeners, statusNotifier)

	var forwarder *queue.StatusForwarder
	if cfg.RabbitURL != "" {
		publisher, err := queue.NewRabbitPublisher(cfg.RabbitURL, config.StatusEventsQueue)
		if err != nil {
			logger.Fatal("failed to connect RabbitMQ", zap.Error(err))
		}
		forwarder = queue.NewStatusForwarder(publisher, config.StatusEventsQueue, logger)
		complaintSvc.Listeners = append(complaintSvc.Listeners, forwarder)
	}

	statusHub := hub.NewManagerService(s, logger)

	go statusHub.Run(ctx)
	go statusNotifier.Run(ctx)
	if forwarder != nil {
		go forwarder.Run(ctx)
	}
	if bot != nil {
		go bot.Run(ctx)
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := handler.NewHandler(complaintSvc, authSvc, location.Nepal, nil, statusHub, logger)
	if linker != nil {
		h.Linker = linker
	}
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
}
