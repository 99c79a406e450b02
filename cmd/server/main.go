package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-scheduler/internal/delivery/http/handlers"
	"video-scheduler/internal/delivery/http/middleware"
	"video-scheduler/internal/delivery/http/routers"
	"video-scheduler/internal/infrastructure/db"
	"video-scheduler/internal/infrastructure/platform"
	"video-scheduler/internal/infrastructure/queue"
	infra_repo "video-scheduler/internal/infrastructure/repositories"
	"video-scheduler/internal/infrastructure/storage"
	"video-scheduler/internal/pkg/config"
	"video-scheduler/internal/usecases"
	consts "video-scheduler/pkg/constants"

	_ "video-scheduler/migrations"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}

	if os.Getenv("RUN_AUTO_MIGRATION") == "true" {
		sqlDB, err := database.DB()
		if err != nil {
			log.Fatalf("could not get sql.DB: %v", err)
		}
		goose.SetBaseFS(nil)
		if err := goose.Up(sqlDB, "."); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
	}

	// Transport: redis when configured, in-process channel otherwise. The
	// channel variant runs the workers inside this binary.
	var transport queue.Transport
	inProcess := cfg.Redis.Host == ""
	if inProcess {
		log.Println("No REDIS_HOST set, running workers in process")
		transport = queue.NewChannelTransport(100)
	} else {
		rdb := redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		})
		transport = queue.NewRedisTransport(rdb)
	}

	videoRepo := infra_repo.NewVideoRepository(database)
	channelRepo := infra_repo.NewChannelRepository(database)
	taskRepo := infra_repo.NewTaskRepository(database)

	dispatcher := queue.NewDispatcher(taskRepo, transport,
		cfg.Dispatcher.PollInterval, cfg.Dispatcher.RetryBackoff, cfg.Dispatcher.MaxAttempts)

	oauth := cfg.OAuthConfig()
	gateway := usecases.NewCredentialGateway(channelRepo, oauth)
	youtubeAdapter := platform.NewYouTubeAdapter(oauth)
	localStorage := &storage.LocalStorage{BasePath: cfg.Upload.UploadsDir}

	lifecycleService := usecases.NewLifecycleService(videoRepo, channelRepo, dispatcher, youtubeAdapter, gateway)
	lifecycleService.RegisterHandlers(dispatcher)

	videoService := usecases.NewVideoService(videoRepo, localStorage, gateway,
		cfg.Upload.MaxFileSize, cfg.Upload.AllowedTypes, true)
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(context.Background(), cfg.S3.Bucket, cfg.S3.Region)
		if err != nil {
			log.Fatalf("S3 init failed: %v", err)
		}
		videoService.SetArchive(s3Storage)
	}
	channelService := usecases.NewChannelService(channelRepo, oauth, youtubeAdapter, gateway, cfg.JWTSecret)
	dashboardService := usecases.NewDashboardService(videoRepo)
	sweeperService := usecases.NewSweeperService(videoRepo, dispatcher)

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Upload.MaxFileSize),
	})
	app.Use(logger.New())
	app.Use(cors.New())

	auth := middleware.NewAuth(cfg.JWTSecret)
	api := app.Group("/api/v1")
	routers.SetupChannelRoutes(api, auth, handlers.NewChannelHandler(channelService))
	routers.SetupVideoRoutes(api, auth,
		handlers.NewVideoHandler(videoService, lifecycleService),
		handlers.NewDashboardHandler(dashboardService))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": consts.StatusOK})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sweeper catches takedowns whose task got lost or exhausted.
	cronRunner := cron.New(cron.WithSeconds())
	cronRunner.AddFunc("0 */5 * * * *", func() {
		booked, err := sweeperService.SweepOverdueDeletes(ctx)
		if err != nil {
			log.Printf("Sweep failed: %v", err)
			return
		}
		if booked > 0 {
			log.Printf("Sweep booked %d takedowns", booked)
		}
	})
	cronRunner.Start()

	go dispatcher.RunProducer(ctx)

	var pool *queue.WorkerPool
	if inProcess {
		pool = queue.NewWorkerPool(cfg.Dispatcher.Workers, transport, dispatcher)
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Print("Shutdown signal received, stopping server...")

	cancel()
	cronRunner.Stop()
	if pool != nil {
		pool.Shutdown()
	}

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShut()
	if err := app.ShutdownWithContext(ctxShut); err != nil {
		log.Fatalf("Server did not shut down cleanly: %v", err)
	}
	log.Println("Server shut down cleanly")
}
