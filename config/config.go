package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort         string
	MetricsPort         string
	Environment         string
	LogLevel            string
	ClientOrigin        string
	TaxRate             float64
	MongoDBConfig       MongoDBConfig
	RedisConfig         RedisConfig
	KafkaConfig         KafkaConfig
	ElasticsearchConfig ElasticsearchConfig
	JWTConfig           JWTConfig
	MidtransConfig      MidtransConfig
	SMTPConfig          SMTPConfig
	TracingConfig       TracingConfig
	UploadConfig        UploadConfig
}

type MongoDBConfig struct {
	URI    string
	DBName string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
	GroupID       string
}

type ElasticsearchConfig struct {
	DBHost string
}

type JWTConfig struct {
	Secret       string
	Expire       time.Duration
	CookieExpire time.Duration
}

type MidtransConfig struct {
	ServerKey         string
	ClientKey         string
	ReconcileInterval time.Duration
}

type SMTPConfig struct {
	Server   string
	Port     int
	Sender   string
	Password string
}

type TracingConfig struct {
	CollectorHost string
}

type UploadConfig struct {
	Dir     string
	MaxSize int64
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort:  getEnv("SERVICE_PORT", "5000"),
		MetricsPort:  getEnv("METRICS_PORT", "9100"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		TaxRate:      getEnvFloat("TAX_RATE", 0.02),
		MongoDBConfig: MongoDBConfig{
			URI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getEnv("MONGODB_NAME", "whitecart"),
		},
		RedisConfig: RedisConfig{
			Address:  os.Getenv("REDIS_ADDRESS"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", "whitecart-events"),
			GroupID:       getEnv("BROKER_GROUP_ID", "whitecart-notifier"),
		},
		ElasticsearchConfig: ElasticsearchConfig{
			DBHost: os.Getenv("ELASTICSEARCH_HOST"),
		},
		JWTConfig: JWTConfig{
			Secret:       os.Getenv("JWT_SECRET"),
			Expire:       ParseDuration(os.Getenv("JWT_EXPIRE"), 30*24*time.Hour),
			CookieExpire: time.Duration(getEnvInt("JWT_COOKIE_EXPIRE", 30)) * 24 * time.Hour,
		},
		MidtransConfig: MidtransConfig{
			ServerKey:         os.Getenv("MIDTRANS_SERVER_KEY"),
			ClientKey:         os.Getenv("MIDTRANS_CLIENT_KEY"),
			ReconcileInterval: ParseDuration(os.Getenv("PAYMENT_RECONCILE_INTERVAL"), time.Minute),
		},
		SMTPConfig: SMTPConfig{
			Server:   os.Getenv("SMTP_SERVER"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Sender:   os.Getenv("SMTP_SENDER"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("TRACING_COLLECTOR_HOST"),
		},
		UploadConfig: UploadConfig{
			Dir:     getEnv("UPLOAD_DIR", "uploads"),
			MaxSize: int64(getEnvInt("UPLOAD_MAX_SIZE", 5*1024*1024)),
		},
	}

	return &conf
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ParseDuration accepts Go durations plus a day suffix ("30d").
func ParseDuration(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return fallback
		}
		return time.Duration(n) * 24 * time.Hour
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return value
}
