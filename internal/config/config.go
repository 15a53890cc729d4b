package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Addr       string
	FormSecret string

	Translation TranslationConfig
	Quotes      QuoteConfig
	Exercises   ExerciseConfig
	Nutrition   NutritionConfig
}

type TranslationConfig struct {
	Provider   string
	Endpoint   string
	SourceLang string
	TargetLang string
	Timeout    time.Duration
}

type QuoteConfig struct {
	URL     string
	Timeout time.Duration
}

type ExerciseConfig struct {
	BaseURL string
	Host    string
	APIKey  string
	Limit   int
	Timeout time.Duration
}

type NutritionConfig struct {
	BaseURL string
	AppID   string
	AppKey  string
	Timeout time.Duration
}

// Load reads configuration once at startup. Order of precedence: environment
// (including values from envFiles, default ".env"), then the optional config
// file, then defaults. Upstream credentials are not validated.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("FITPAGES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Credential names predate the FITPAGES_ prefix.
	_ = v.BindEnv("exercises.api_key", "RAPIDAPI_KEY")
	_ = v.BindEnv("nutrition.app_id", "EDAMAM_APP_ID")
	_ = v.BindEnv("nutrition.app_key", "EDAMAM_APP_KEY")
	_ = v.BindEnv("addr", "FITPAGES_ADDR", "PORT")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("fitpages")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/fitpages")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Addr:       normalizeAddr(v.GetString("addr")),
		FormSecret: v.GetString("form_secret"),
		Translation: TranslationConfig{
			Provider:   strings.ToLower(v.GetString("translate.provider")),
			Endpoint:   v.GetString("translate.endpoint"),
			SourceLang: v.GetString("translate.source_lang"),
			TargetLang: v.GetString("translate.target_lang"),
			Timeout:    seconds(v, "translate.timeout_seconds"),
		},
		Quotes: QuoteConfig{
			URL:     v.GetString("quotes.url"),
			Timeout: seconds(v, "quotes.timeout_seconds"),
		},
		Exercises: ExerciseConfig{
			BaseURL: v.GetString("exercises.base_url"),
			Host:    v.GetString("exercises.host"),
			APIKey:  v.GetString("exercises.api_key"),
			Limit:   v.GetInt("exercises.limit"),
			Timeout: seconds(v, "exercises.timeout_seconds"),
		},
		Nutrition: NutritionConfig{
			BaseURL: v.GetString("nutrition.base_url"),
			AppID:   v.GetString("nutrition.app_id"),
			AppKey:  v.GetString("nutrition.app_key"),
			Timeout: seconds(v, "nutrition.timeout_seconds"),
		},
	}
	if cfg.Exercises.Limit <= 0 {
		return nil, fmt.Errorf("exercises.limit must be positive, got %d", cfg.Exercises.Limit)
	}
	for key, d := range map[string]time.Duration{
		"translate.timeout_seconds": cfg.Translation.Timeout,
		"quotes.timeout_seconds":    cfg.Quotes.Timeout,
		"exercises.timeout_seconds": cfg.Exercises.Timeout,
		"nutrition.timeout_seconds": cfg.Nutrition.Timeout,
	} {
		if d <= 0 {
			return nil, fmt.Errorf("%s must be a positive whole number of seconds, got %q", key, v.GetString(key))
		}
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("form_secret", "")

	v.SetDefault("translate.provider", "google")
	v.SetDefault("translate.endpoint", "")
	v.SetDefault("translate.source_lang", "en")
	v.SetDefault("translate.target_lang", "es")
	v.SetDefault("translate.timeout_seconds", 10)

	v.SetDefault("quotes.url", "https://zenquotes.io/api/random")
	v.SetDefault("quotes.timeout_seconds", 5)

	v.SetDefault("exercises.base_url", "https://exercisedb.p.rapidapi.com")
	v.SetDefault("exercises.host", "exercisedb.p.rapidapi.com")
	v.SetDefault("exercises.api_key", "")
	v.SetDefault("exercises.limit", 30)
	v.SetDefault("exercises.timeout_seconds", 8)

	v.SetDefault("nutrition.base_url", "https://api.edamam.com/api/nutrition-data")
	v.SetDefault("nutrition.app_id", "")
	v.SetDefault("nutrition.app_key", "")
	v.SetDefault("nutrition.timeout_seconds", 6)
}

// seconds reads an integer number of seconds. Non-numeric values read as zero.
func seconds(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Second
}

// normalizeAddr accepts a bare port ("8000") as well as host:port.
func normalizeAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ":8080"
	}
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}
