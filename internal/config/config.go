package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env               string        `mapstructure:"ENV"`
	Port              string        `mapstructure:"PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	AdminKey          string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed       string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	TicketFetchLimit  int           `mapstructure:"TICKET_FETCH_LIMIT"`
	RefreshSpec       string        `mapstructure:"REFRESH_SPEC"`
	WarnRearmOnChange bool          `mapstructure:"WARN_REARM_ON_CHANGE"`
	SummarizerBaseURL string        `mapstructure:"SUMMARIZER_BASE_URL"`
	SummarizerModel   string        `mapstructure:"SUMMARIZER_MODEL"`
	SummarizerKey     string        `mapstructure:"SUMMARIZER_API_KEY"`
	SummarizerTokens  int           `mapstructure:"SUMMARIZER_MAX_TOKENS"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TICKET_FETCH_LIMIT", 200)
	v.SetDefault("REFRESH_SPEC", "* * * * *")
	v.SetDefault("WARN_REARM_ON_CHANGE", true)
	v.SetDefault("SUMMARIZER_MAX_TOKENS", 1024)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
