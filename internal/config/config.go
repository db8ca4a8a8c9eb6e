package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type ServerCfg struct {
	Port string `mapstructure:"port"`
}

type TopicsCfg struct {
	Results string `mapstructure:"results"`
	Log     string `mapstructure:"log"`
}

type KafkaCfg struct {
	Brokers  []string  `mapstructure:"brokers"`
	ClientID string    `mapstructure:"client_id"`
	Topics   TopicsCfg `mapstructure:"topics"`
}

type RedisCfg struct {
	Addr string `mapstructure:"addr"`
}

// ProviderCfg is one configured backend: its environment-scoped credentials,
// keyed by field name. Which fields matter is up to the adapter.
type ProviderCfg struct {
	Credentials map[string]string `mapstructure:"credentials"`
}

type Cfg struct {
	Environment string                 `mapstructure:"environment"`
	LogLevel    string                 `mapstructure:"log_level"`
	Server      ServerCfg              `mapstructure:"server"`
	Kafka       KafkaCfg               `mapstructure:"kafka"`
	Redis       RedisCfg               `mapstructure:"redis"`
	Providers   map[string]ProviderCfg `mapstructure:"providers"`
}

// Load reads config.yaml plus environment overrides. Provider credentials
// come from the file; a provider with broken credentials is skipped at
// registry construction, never here.
func Load() Cfg {
	// Load .env into the process env first (ignored if absent).
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/paygate")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", "sandbox")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.port", "8080")
	v.SetDefault("kafka.client_id", "paygate")
	v.SetDefault("kafka.topics.results", "payment-results")
	v.SetDefault("kafka.topics.log", "payment-log")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			log.Fatal().Err(err).Msg("failed to read config file")
		}
	}

	var cfg Cfg
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to unmarshal config")
	}

	if len(cfg.Kafka.Brokers) == 0 {
		if brokers := v.GetString("kafka.brokers"); brokers != "" {
			cfg.Kafka.Brokers = strings.Split(brokers, ",")
		}
	}
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatal().Msg("kafka.brokers is required")
	}
	if cfg.Environment != "sandbox" && cfg.Environment != "production" {
		log.Fatal().Str("environment", cfg.Environment).Msg("environment must be sandbox or production")
	}

	return cfg
}
