package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Бэкенды хранения учёток и коротких ссылок.
const (
	BackendDynamo   = "dynamo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	AppPort      string `mapstructure:"APP_PORT"`
	RedirectPort string `mapstructure:"REDIRECT_PORT"`
	ShortBaseURL string `mapstructure:"SHORT_BASE_URL"` // например https://photosnap.pro
	CORSOrigin   string `mapstructure:"CORS_ORIGIN"`

	DBBackend string `mapstructure:"DB_BACKEND"` // dynamo | postgres | memory

	// --- Postgres ---
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBScheme   string `mapstructure:"DB_SCHEME"`

	// --- DynamoDB ---
	UsersTable string `mapstructure:"DYNAMO_USERS_TABLE"`
	LinksTable string `mapstructure:"DYNAMO_LINKS_TABLE"`

	// --- AWS / S3 ---
	AWSRegion       string `mapstructure:"AWS_REGION"`
	AWSAccountID    string `mapstructure:"AWS_ACCOUNT_ID"`
	BackendRoleName string `mapstructure:"BACKEND_ROLE_NAME"` // роль бэкенда, которой доверяют user-роли
	S3Bucket        string `mapstructure:"S3_BUCKET"`
	S3Endpoint      string `mapstructure:"S3_ENDPOINT"` // пусто = реальный AWS; для MinIO/LocalStack — адрес
	S3AccessKey     string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey     string `mapstructure:"S3_SECRET_KEY"`
	S3PathStyle     bool   `mapstructure:"S3_PATH_STYLE"`

	// --- Redis (опционален: пустой адрес = кеш выключен) ---
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
}

// String реализует интерфейс Stringer
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  AppPort: %s\n", c.AppPort))
	sb.WriteString(fmt.Sprintf("  RedirectPort: %s\n", c.RedirectPort))
	sb.WriteString(fmt.Sprintf("  ShortBaseURL: %s\n", c.ShortBaseURL))
	sb.WriteString(fmt.Sprintf("  CORSOrigin: %s\n", c.CORSOrigin))
	sb.WriteString(fmt.Sprintf("  DBBackend: %s\n", c.DBBackend))

	sb.WriteString(fmt.Sprintf("  DBHost: %s\n", c.DBHost))
	sb.WriteString(fmt.Sprintf("  DBPort: %d\n", c.DBPort))
	sb.WriteString(fmt.Sprintf("  DBUser: %s\n", c.DBUser))
	sb.WriteString(fmt.Sprintf("  DBName: %s\n", c.DBName))
	sb.WriteString(fmt.Sprintf("  DBScheme: %s\n", c.DBScheme))
	// пароль маскируем
	if c.DBPassword != "" {
		sb.WriteString("  DBPassword: ********\n")
	} else {
		sb.WriteString("  DBPassword: (empty)\n")
	}

	sb.WriteString(fmt.Sprintf("  UsersTable: %s\n", c.UsersTable))
	sb.WriteString(fmt.Sprintf("  LinksTable: %s\n", c.LinksTable))

	sb.WriteString(fmt.Sprintf("  AWSRegion: %s\n", c.AWSRegion))
	sb.WriteString(fmt.Sprintf("  AWSAccountID: %s\n", c.AWSAccountID))
	sb.WriteString(fmt.Sprintf("  BackendRoleName: %s\n", c.BackendRoleName))
	sb.WriteString(fmt.Sprintf("  S3Bucket: %s\n", c.S3Bucket))
	sb.WriteString(fmt.Sprintf("  S3Endpoint: %s\n", c.S3Endpoint))
	if c.S3AccessKey != "" {
		sb.WriteString("  S3AccessKey: ********\n")
	} else {
		sb.WriteString("  S3AccessKey: (empty)\n")
	}
	if c.S3SecretKey != "" {
		sb.WriteString("  S3SecretKey: ********\n")
	} else {
		sb.WriteString("  S3SecretKey: (empty)\n")
	}
	sb.WriteString(fmt.Sprintf("  S3PathStyle: %v\n", c.S3PathStyle))

	sb.WriteString(fmt.Sprintf("  RedisAddr: %s\n", c.RedisAddr))
	sb.WriteString(fmt.Sprintf("  RedisDB: %d\n", c.RedisDB))
	if c.RedisPassword != "" {
		sb.WriteString("  RedisPassword: ********\n")
	} else {
		sb.WriteString("  RedisPassword: (empty)\n")
	}

	return sb.String()
}

// LoadFromEnv загружает конфигурацию из переменных окружения
func LoadFromEnv() (*Config, error) {
	// .env — только для локальной разработки
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	// Регистрируем интересующие ключи окружения
	keys := []string{
		"APP_PORT", "REDIRECT_PORT", "SHORT_BASE_URL", "CORS_ORIGIN",
		"DB_BACKEND",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SCHEME",
		"DYNAMO_USERS_TABLE", "DYNAMO_LINKS_TABLE",
		"AWS_REGION", "AWS_ACCOUNT_ID", "BACKEND_ROLE_NAME",
		"S3_BUCKET", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_PATH_STYLE",
		"REDIS_ADDR", "REDIS_DB", "REDIS_PASSWORD",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("REDIRECT_PORT", ":8081")
	v.SetDefault("SHORT_BASE_URL", "http://localhost:8081")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("DB_BACKEND", BackendDynamo)
	v.SetDefault("DB_SCHEME", "public")
	v.SetDefault("DYNAMO_USERS_TABLE", "PhotoSnapUsers")
	v.SetDefault("DYNAMO_LINKS_TABLE", "PhotoSnapShortLinks")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	switch cfg.DBBackend {
	case BackendDynamo, BackendPostgres, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown DB_BACKEND %q", cfg.DBBackend)
	}

	return &cfg, nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
