package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"video-scheduler/internal/infrastructure/db"
	"video-scheduler/internal/infrastructure/platform"
	"video-scheduler/internal/infrastructure/queue"
	infra_repo "video-scheduler/internal/infrastructure/repositories"
	"video-scheduler/internal/pkg/config"
	"video-scheduler/internal/usecases"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

// Standalone worker binary. Pops jobs from the redis queue and runs them;
// requires REDIS_HOST, there is no in-process fallback here.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()
	if cfg.Redis.Host == "" {
		log.Fatal("REDIS_HOST is required for the worker binary")
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})
	transport := queue.NewRedisTransport(rdb)

	videoRepo := infra_repo.NewVideoRepository(database)
	channelRepo := infra_repo.NewChannelRepository(database)
	taskRepo := infra_repo.NewTaskRepository(database)

	dispatcher := queue.NewDispatcher(taskRepo, transport,
		cfg.Dispatcher.PollInterval, cfg.Dispatcher.RetryBackoff, cfg.Dispatcher.MaxAttempts)

	oauth := cfg.OAuthConfig()
	gateway := usecases.NewCredentialGateway(channelRepo, oauth)
	youtubeAdapter := platform.NewYouTubeAdapter(oauth)

	lifecycleService := usecases.NewLifecycleService(videoRepo, channelRepo, dispatcher, youtubeAdapter, gateway)
	lifecycleService.RegisterHandlers(dispatcher)

	pool := queue.NewWorkerPool(cfg.Dispatcher.Workers, transport, dispatcher)
	log.Printf("Worker started with %d workers", cfg.Dispatcher.Workers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Print("Shutdown signal received, stopping workers...")

	pool.Shutdown()
	log.Println("Worker shut down cleanly")
}
