package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type Config struct {
	Server     ServerConfig
	Upload     UploadConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	S3         S3Config
	Google     GoogleConfig
	Dispatcher DispatcherConfig
	JWTSecret  string
}

type ServerConfig struct {
	Port string
	Host string
}

type UploadConfig struct {
	UploadsDir   string
	MaxFileSize  int64 // bytes
	AllowedTypes []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host string
	Port string
}

// S3Config enables the archival copy when Bucket is set.
type S3Config struct {
	Bucket string
	Region string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

type DispatcherConfig struct {
	PollInterval time.Duration
	RetryBackoff time.Duration
	MaxAttempts  int
	Workers      int
}

func LoadConfig() *Config {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "3000"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Upload: UploadConfig{
			UploadsDir:  getEnv("UPLOAD_DIR", "uploads"),
			MaxFileSize: getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", 100*1024*1024), // 100MB
			AllowedTypes: splitCSV(getEnv("ALLOWED_VIDEO_TYPES",
				"video/mp4,video/avi,video/mov,video/wmv,video/flv,video/webm")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "video_scheduler"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", ""),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		S3: S3Config{
			Bucket: getEnv("S3_BUCKET", ""),
			Region: getEnv("S3_REGION", "us-east-1"),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/api/v1/youtube/callback"),
			Scopes: splitCSV(getEnv("GOOGLE_SCOPES",
				"https://www.googleapis.com/auth/youtube.upload,"+
					"https://www.googleapis.com/auth/youtube,"+
					"https://www.googleapis.com/auth/drive.file")),
		},
		Dispatcher: DispatcherConfig{
			PollInterval: getEnvAsDuration("DISPATCHER_POLL_INTERVAL", 5*time.Second),
			RetryBackoff: getEnvAsDuration("DISPATCHER_RETRY_BACKOFF", 60*time.Second),
			MaxAttempts:  int(getEnvAsInt64("DISPATCHER_MAX_ATTEMPTS", 3)),
			Workers:      int(getEnvAsInt64("DISPATCHER_WORKERS", 4)),
		},
		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
	}

	if err := os.MkdirAll(config.Upload.UploadsDir, 0755); err != nil {
		panic(err)
	}

	return config
}

// OAuthConfig builds the oauth2 config for the Google connect flow.
func (c *Config) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.Google.ClientID,
		ClientSecret: c.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  c.Google.RedirectURL,
		Scopes:       c.Google.Scopes,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
