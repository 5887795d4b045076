package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr   string
	CORSOrigin string

	DocStoreHost string
	DocStorePort int
	PoolSize     int
	MemoryStore  bool

	JWTSecret  string
	RedisURL   string
	AdminEmail string
	AdminPass  string

	GelfAddr string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MediaBaseURL   string

	DebounceInterval time.Duration
	FormsTTL         time.Duration
	WorkspacesTTL    time.Duration

	PreviewSample bool
}

func Load() *Config {
	return &Config{
		HTTPAddr:   getEnv("FORGE_ADDR", ":8080"),
		CORSOrigin: getEnv("FORGE_CORS_ORIGIN", "*"),

		DocStoreHost: getEnv("FORGE_DOCSTORE_HOST", "127.0.0.1"),
		DocStorePort: getEnvInt("FORGE_DOCSTORE_PORT", 4444),
		PoolSize:     getEnvInt("FORGE_POOL_SIZE", 3),
		MemoryStore:  getEnvBool("FORGE_MEMORY_STORE", false),

		JWTSecret:  getEnv("FORGE_JWT_SECRET", "formforge-dev-secret-change-me"),
		RedisURL:   getEnv("FORGE_REDIS_URL", "redis://127.0.0.1:6379"),
		AdminEmail: getEnv("FORGE_ADMIN_EMAIL", "admin@formforge.local"),
		AdminPass:  getEnv("FORGE_ADMIN_PASS", "admin123"),

		GelfAddr: getEnv("FORGE_GELF_ADDR", ""),

		MinioEndpoint:  getEnv("FORGE_MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("FORGE_MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("FORGE_MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("FORGE_MINIO_BUCKET", "formforge-media"),
		MinioUseSSL:    getEnvBool("FORGE_MINIO_SSL", false),
		MediaBaseURL:   getEnv("FORGE_MEDIA_BASE_URL", ""),

		DebounceInterval: getEnvDuration("FORGE_DEBOUNCE_INTERVAL", 500*time.Millisecond),
		FormsTTL:         getEnvDuration("FORGE_FORMS_TTL", time.Minute),
		WorkspacesTTL:    getEnvDuration("FORGE_WORKSPACES_TTL", 5*time.Minute),

		PreviewSample: getEnvBool("FORGE_PREVIEW_SAMPLE", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
