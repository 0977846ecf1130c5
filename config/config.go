package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	Telegram TelegramConfig
	LogLevel string
}

type ServerConfig struct {
	Host           string
	Port           string
	MaxUploadSize  int64
	AllowedOrigins []string
}

// AnalysisConfig параметры конвейера, неизменные после старта.
type AnalysisConfig struct {
	PixelToCM     float64 // на пиксель исходного снимка
	Workers       int     // 0: по числу ядер
	JitterEnabled bool
	JitterSeed    uint64 // 0: случайное зерно на каждый анализ
	MaxPixels     int    // больше отклоняется до декодирования
	MaxImageSide  int    // 0: анализ на исходном разрешении
}

type TelegramConfig struct {
	Token string // бот запускается, только если токен задан
}

// Addr адрес HTTP-сервера.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8001")
	v.SetDefault("MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TELEGRAM_TOKEN", "")
	v.SetDefault("PIXEL_TO_CM", 0.05)
	v.SetDefault("ANALYSIS_WORKERS", 0)
	v.SetDefault("JITTER_ENABLED", true)
	v.SetDefault("JITTER_SEED", 0)
	v.SetDefault("MAX_PIXELS", 50_000_000)
	v.SetDefault("MAX_IMAGE_SIDE", 1024)
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetString("SERVER_PORT"),
			MaxUploadSize:  v.GetInt64("MAX_UPLOAD_SIZE"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Analysis: AnalysisConfig{
			PixelToCM:     v.GetFloat64("PIXEL_TO_CM"),
			Workers:       v.GetInt("ANALYSIS_WORKERS"),
			JitterEnabled: v.GetBool("JITTER_ENABLED"),
			JitterSeed:    v.GetUint64("JITTER_SEED"),
			MaxPixels:     v.GetInt("MAX_PIXELS"),
			MaxImageSide:  v.GetInt("MAX_IMAGE_SIDE"),
		},
		Telegram: TelegramConfig{
			Token: v.GetString("TELEGRAM_TOKEN"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate проверяет значения, от которых зависит корректность анализа.
func (c *Config) Validate() error {
	var errs []error
	if c.Analysis.PixelToCM <= 0 {
		errs = append(errs, fmt.Errorf("PIXEL_TO_CM must be positive, got %v", c.Analysis.PixelToCM))
	}
	if c.Analysis.Workers < 0 {
		errs = append(errs, fmt.Errorf("ANALYSIS_WORKERS must not be negative, got %d", c.Analysis.Workers))
	}
	if c.Analysis.MaxPixels <= 0 {
		errs = append(errs, fmt.Errorf("MAX_PIXELS must be positive, got %d", c.Analysis.MaxPixels))
	}
	if c.Analysis.MaxImageSide < 0 {
		errs = append(errs, fmt.Errorf("MAX_IMAGE_SIDE must not be negative, got %d", c.Analysis.MaxImageSide))
	}
	if c.Server.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.Server.MaxUploadSize))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
