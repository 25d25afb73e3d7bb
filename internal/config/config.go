package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	LLM        LLMConfig
	Redis      RedisConfig
	Generation GenerationConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type LLMConfig struct {
	Provider        string
	Model           string
	GeminiAPIKey    string
	OllamaServerURL string
	Temperature     float64
	RequestTimeout  time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// GenerationConfig tunes the recovery ladder. BulkPromptTemplates is the
// ordered list of bulk top-up prompt headers, one per round; when empty the
// compiled-in defaults are used. CacheTTL bounds how long a completed sync
// batch stays reusable.
type GenerationConfig struct {
	BulkPromptTemplates []string
	CacheTTL            time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 120)
	viper.SetDefault("server.idle_timeout", 20)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("llm.provider", "gemini")
	viper.SetDefault("llm.model", "gemini-1.5-flash")
	viper.SetDefault("llm.ollama_server_url", "http://localhost:11434")
	viper.SetDefault("llm.temperature", 0.9)
	viper.SetDefault("llm.request_timeout", 60)
	viper.SetDefault("generation.cache_ttl", 600)

	viper.AutomaticEnv()
	_ = viper.BindEnv("llm.gemini_api_key", "GEMINI_API_KEY")
	_ = viper.BindEnv("llm.provider", "LLM_PROVIDER")
	_ = viper.BindEnv("redis.address", "REDIS_ADDRESS")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("server.port", "SERVER_PORT")

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional; defaults plus env cover a dev setup.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  time.Duration(viper.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("server.write_timeout")) * time.Second,
			IdleTimeout:  time.Duration(viper.GetInt("server.idle_timeout")) * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider:        viper.GetString("llm.provider"),
			Model:           viper.GetString("llm.model"),
			GeminiAPIKey:    viper.GetString("llm.gemini_api_key"),
			OllamaServerURL: viper.GetString("llm.ollama_server_url"),
			Temperature:     viper.GetFloat64("llm.temperature"),
			RequestTimeout:  time.Duration(viper.GetInt("llm.request_timeout")) * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Generation: GenerationConfig{
			BulkPromptTemplates: viper.GetStringSlice("generation.bulk_prompt_templates"),
			CacheTTL:            time.Duration(viper.GetInt("generation.cache_ttl")) * time.Second,
		},
	}

	return config, nil
}
