package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Бэкенды хранилища
const (
	BackendPostgres  = "postgres"
	BackendMongo     = "mongo"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

type Config struct {
	Environment   string
	LogLevel      string // пусто: debug в development, info в production
	TelegramToken string
	AdminIDs      []int64

	StoreBackend   string
	DBDSN          string
	MigrationsPath string

	MongoURI      string
	MongoDatabase string

	FirebaseCredentials string
	FirebaseProjectID   string

	RedisAddr     string
	RedisPassword string

	HTTPAddr string // пусто: HTTP API выключен

	Location       *time.Location
	WorkStartHour  int
	WorkEndHour    int
	SlotMinutes    int
	ConflictPolicy string
	DigestHour     int // -1: дайджест выключен
}

// Load читает .env (если есть) и переменные окружения.
// Возвращает признак того, что .env был найден, чтобы main залогировал это после создания логгера.
func Load() (*Config, bool, error) {
	envLoaded := godotenv.Load(".env") == nil

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, envLoaded, err
	}
	return cfg, envLoaded, nil
}

// FromEnv собирает конфиг из функции чтения переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Environment:         get("ENV", "development"),
		LogLevel:            strings.ToLower(get("LOG_LEVEL", "")),
		TelegramToken:       get("TELEGRAM_TOKEN", ""),
		StoreBackend:        strings.ToLower(get("STORE_BACKEND", BackendPostgres)),
		DBDSN:               get("DB_DSN", ""),
		MigrationsPath:      get("MIGRATIONS_PATH", "migrations"),
		MongoURI:            get("MONGO_URI", ""),
		MongoDatabase:       get("MONGO_DATABASE", "salon"),
		FirebaseCredentials: get("FIREBASE_CREDENTIALS", ""),
		FirebaseProjectID:   get("FIREBASE_PROJECT_ID", ""),
		RedisAddr:           get("REDIS_ADDR", ""),
		RedisPassword:       get("REDIS_PASSWORD", ""),
		HTTPAddr:            get("HTTP_ADDR", ""),
		ConflictPolicy:      strings.ToLower(get("CONFLICT_POLICY", "block")),
	}

	var errs []error

	ids, err := parseIDs(get("ADMIN_IDS", ""))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.AdminIDs = ids

	cfg.Location, err = time.LoadLocation(get("TIMEZONE", "Europe/Istanbul"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}

	intVar := func(key string, fallback int, dst *int) {
		raw := get(key, "")
		if raw == "" {
			*dst = fallback
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s must be an integer, got %q", key, raw))
			return
		}
		*dst = v
	}
	intVar("WORK_START_HOUR", 9, &cfg.WorkStartHour)
	intVar("WORK_END_HOUR", 18, &cfg.WorkEndHour)
	intVar("SLOT_MINUTES", 30, &cfg.SlotMinutes)
	intVar("DIGEST_HOUR", 20, &cfg.DigestHour)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные поля для выбранного бэкенда
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendPostgres:
		if c.DBDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for postgres backend"))
		}
	case BackendMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for mongo backend"))
		}
	case BackendFirestore:
		if c.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for firestore backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if c.TelegramToken == "" && c.HTTPAddr == "" {
		errs = append(errs, errors.New("either TELEGRAM_TOKEN or HTTP_ADDR must be set"))
	}
	if c.TelegramToken != "" && len(c.AdminIDs) == 0 {
		errs = append(errs, errors.New("ADMIN_IDS is required when the bot is enabled"))
	}
	if c.ConflictPolicy != "block" && c.ConflictPolicy != "warn" {
		errs = append(errs, fmt.Errorf("CONFLICT_POLICY must be block or warn, got %q", c.ConflictPolicy))
	}
	if c.DigestHour < -1 || c.DigestHour > 23 {
		errs = append(errs, fmt.Errorf("DIGEST_HOUR must be -1..23, got %d", c.DigestHour))
	}

	return errors.Join(errs...)
}

// IsProduction для выбора формата логов
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS: invalid telegram id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
