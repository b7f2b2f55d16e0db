package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string
	BaseURL        string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	JWTSecret      string
	SwaggerHost    string
	UploadDir      string
	MailOutboxPath string
	RecentPosts    int

	DefaultAuthor DefaultAuthor
}

// DefaultAuthor is the seed-time administrator account. The password is a
// default one: the account is created with DefaultPasswordChanged=false and
// the UI forces a change on first login.
type DefaultAuthor struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	AboutAuthor     string
	GithubProfile   string
	LinkedinProfile string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		MySQLDSN:       getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/myblog?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		SwaggerHost:    os.Getenv("SWAGGER_HOST"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MailOutboxPath: getEnv("MAIL_OUTBOX_PATH", "verificationEmails.txt"),
		RecentPosts:    getEnvInt("RECENT_POSTS", 5),
		DefaultAuthor: DefaultAuthor{
			FirstName:       getEnv("AUTHOR_FIRST_NAME", "Default"),
			LastName:        getEnv("AUTHOR_LAST_NAME", "Author"),
			Email:           getEnv("AUTHOR_EMAIL", "author@example.com"),
			Password:        getEnv("AUTHOR_PASSWORD", "ChangeMe123!"),
			AboutAuthor:     getEnv("AUTHOR_ABOUT", "This author has not written a bio yet."),
			GithubProfile:   os.Getenv("AUTHOR_GITHUB"),
			LinkedinProfile: os.Getenv("AUTHOR_LINKEDIN"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
