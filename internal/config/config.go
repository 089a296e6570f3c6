package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type ContractConfig struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer     `yaml:"http_server"`
	GRPCServer     `yaml:"grpc_server"`
	ContractDB     `yaml:"contract_db"`
	LogConfig      `yaml:"log_config"`
	KafkaService   `yaml:"kafka-service"`
	RedisService   `yaml:"redis-service"`
	PaymentGateway `yaml:"payment-gateway"`
	Auth           `yaml:"auth"`
	ContractParams `yaml:"contract_params"`
	RateLimit      `yaml:"rate_limit"`
	Background     `yaml:"background"`
}

type HTTPServer struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	PublicURL    string        `yaml:"public_url" env:"HTTP_PUBLIC_URL"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"15s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type ContractDB struct {
	// postgres | memory
	Driver         string `yaml:"driver" env:"CONTRACT_DB_DRIVER" env-default:"postgres"`
	Dsn            string `yaml:"dsn" env:"CONTRACT_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"CONTRACT_DB_MIGRATIONS"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type KafkaService struct {
	Host          string `yaml:"host" env:"KAFKA_HOST"`
	Port          string `yaml:"port" env:"KAFKA_PORT"`
	ContractTopic string `yaml:"contract_topic" env-default:"contract-events"`
	DisputeTopic  string `yaml:"dispute_topic" env-default:"dispute-events"`
}

func (k KafkaService) Enabled() bool {
	return k.Host != ""
}

type RedisService struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	DedupTTL time.Duration `yaml:"dedup_ttl" env-default:"24h"`
}

type PaymentGateway struct {
	BaseURL     string        `yaml:"base_url" env:"PAYSTACK_BASE_URL" env-default:"https://api.paystack.co"`
	SecretKey   string        `yaml:"secret_key" env:"PAYSTACK_SECRET_KEY"`
	CallbackURL string        `yaml:"callback_url" env:"PAYSTACK_CALLBACK_URL"`
	Timeout     time.Duration `yaml:"timeout" env-default:"15s"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	Issuer    string `yaml:"issuer" env:"JWT_ISSUER"`
}

type ContractParams struct {
	PendingTTL time.Duration `yaml:"pending_ttl" env-default:"168h"`
	PageSize   int           `yaml:"page_size" env-default:"10"`
	MaxPage    int           `yaml:"max_page_size" env-default:"100"`
}

type RateLimit struct {
	RPS     float64       `yaml:"rps" env-default:"10"`
	Burst   int           `yaml:"burst" env-default:"20"`
	IdleTTL time.Duration `yaml:"idle_ttl" env-default:"10m"`
}

type Background struct {
	ExpireContractsSpec string        `yaml:"expire_contracts_spec" env-default:"@every 1m"`
	StaleDepositsSpec   string        `yaml:"stale_deposits_spec" env-default:"@every 5m"`
	StaleDepositAge     time.Duration `yaml:"stale_deposit_age" env-default:"30m"`
	StaleDepositBatch   int           `yaml:"stale_deposit_batch" env-default:"50"`
}

func Load(configPath string) (*ContractConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg ContractConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if cfg.ContractDB.Driver == "postgres" && cfg.ContractDB.Dsn == "" {
		return nil, fmt.Errorf("contract_db.dsn is required for postgres driver")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	return &cfg, nil
}

func MustLoad() *ContractConfig {

	// Processing env config variable and file
	configPath := os.Getenv("CONTRACT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("CONTRACT_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	return cfg
}
