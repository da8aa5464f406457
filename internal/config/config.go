package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	// Embedding backend for theme clustering. Empty key means the
	// clusterer runs keyword-only.
	GeminiAPIKey string
	EmbedModel   string

	// Phrase -> concept dictionary file. Missing file is not fatal.
	KeywordDictPath string

	// Insight engine tunables. Defaults match observed production
	// behavior; kept env-overridable on purpose.
	MinRecords     int
	StreakMinDays  int
	DropThreshold  int
	RetentionWeeks int
	MaxThemes      int
	ClusterTimeout time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",

		GeminiAPIKey:    getenv("GEMINI_API_KEY", ""),
		EmbedModel:      getenv("EMBED_MODEL", "text-embedding-004"),
		KeywordDictPath: getenv("KEYWORD_DICT_PATH", "keywords.json"),

		MinRecords:     getenvInt("INSIGHT_MIN_RECORDS", 3),
		StreakMinDays:  getenvInt("INSIGHT_STREAK_MIN_DAYS", 3),
		DropThreshold:  getenvInt("INSIGHT_DROP_THRESHOLD", 20),
		RetentionWeeks: getenvInt("INSIGHT_RETENTION_WEEKS", 3),
		MaxThemes:      getenvInt("INSIGHT_MAX_THEMES", 5),
		ClusterTimeout: getenvDuration("CLUSTER_TIMEOUT", 10*time.Second),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
