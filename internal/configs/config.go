package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RabbitMQConfig struct {
	URL string
}

type PostgresConfig struct {
	URL string
}

type RESTConfig struct {
	Port           string
	AllowedOrigins []string
}

// CianConfig - параметры обращения к площадке объявлений
type CianConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RandomDelay    time.Duration

	// Значения параметров комнатности в URL выдачи
	StudioRoomParam string
	MaxRoomParam    string
}

type ModelServiceConfig struct {
	URL            string
	RequestTimeout time.Duration
}

type LocationsConfig struct {
	RegionsPath     string // пусто - встроенный справочник
	LocationIDsPath string
}

type AuthConfig struct {
	JWTSigningKey string
	TokenTTL      time.Duration
}

type ValuationsConfig struct {
	Workers int
}

type StdoutLogConfig struct {
	Level  string
	IsJSON bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	RabbitMQ     RabbitMQConfig
	Postgres     PostgresConfig
	Rest         RESTConfig
	Cian         CianConfig
	ModelService ModelServiceConfig
	Locations    LocationsConfig
	Valuations   ValuationsConfig
	Auth         AuthConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig читает конфигурацию из переменных окружения.
// Файл .env необязателен: без него используется окружение процесса.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: .env file not loaded (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}
	cfg.AppName = getEnvAsString("APP_NAME", "price-estimator-service")

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	cfg.Postgres.URL = os.Getenv("DATABASE_URL")
	if cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.Rest.Port = getEnvAsString("HTTP_PORT", "8080")
	cfg.Rest.AllowedOrigins = getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"})

	cfg.Cian.BaseURL = getEnvAsString("CIAN_BASE_URL", "https://www.cian.ru")
	cfg.Cian.RequestTimeout = getEnvAsDuration("CIAN_REQUEST_TIMEOUT", 15*time.Second)
	cfg.Cian.RandomDelay = getEnvAsDuration("CIAN_RANDOM_DELAY", 2*time.Second)
	cfg.Cian.StudioRoomParam = getEnvAsString("CIAN_STUDIO_ROOM_PARAM", "room9")
	cfg.Cian.MaxRoomParam = getEnvAsString("CIAN_MAX_ROOM_PARAM", "room4")

	cfg.ModelService.URL = os.Getenv("MODEL_SERVICE_URL")
	if cfg.ModelService.URL == "" {
		return nil, fmt.Errorf("MODEL_SERVICE_URL environment variable is required")
	}
	cfg.ModelService.RequestTimeout = getEnvAsDuration("MODEL_REQUEST_TIMEOUT", 10*time.Second)

	cfg.Locations.RegionsPath = os.Getenv("REGIONS_PATH")
	cfg.Locations.LocationIDsPath = os.Getenv("LOCATION_IDS_PATH")

	cfg.Valuations.Workers = getEnvAsInt("VALUATION_WORKERS", 2)

	cfg.Auth.JWTSigningKey = os.Getenv("JWT_SIGNING_KEY")
	if cfg.Auth.JWTSigningKey == "" {
		return nil, fmt.Errorf("JWT_SIGNING_KEY environment variable is required")
	}
	cfg.Auth.TokenTTL = getEnvAsDuration("TOKEN_TTL", time.Hour)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.IsJSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную как int; при ошибке разбора - значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsSlice разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsSlice(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

// getEnvAsDuration принимает "15s", "500ms" и т.п.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil || d < 0 {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}
