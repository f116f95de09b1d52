package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ListenAddr string

	RatingsCSV string
	NoxiousCSV string

	MaxItems       int
	PerSiteResults int
	ThrottleMs     int
	HTTPTimeoutS   int

	EnableEbay   bool
	EnableEtsy   bool
	EnableAmazon bool
	ChromeBin    string

	CSVExportPath     string
	ArchiveToPostgres bool

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		RatingsCSV: getEnv("RATINGS_CSV", "Rating.csv"),
		NoxiousCSV: getEnv("NOXIOUS_CSV", "CCR4500.csv"),

		MaxItems:       getEnvInt("MAX_ITEMS", 10),
		PerSiteResults: getEnvInt("PER_SITE_RESULTS", 3),
		ThrottleMs:     getEnvInt("THROTTLE_MS", 800),
		HTTPTimeoutS:   getEnvInt("HTTP_TIMEOUT_S", 20),

		EnableEbay:   getEnvBool("ENABLE_EBAY", true),
		EnableEtsy:   getEnvBool("ENABLE_ETSY", false),
		EnableAmazon: getEnvBool("ENABLE_AMAZON", false),
		ChromeBin:    getEnv("CHROME_BIN", ""),

		CSVExportPath:     getEnv("CSV_EXPORT_PATH", "./output/scan_results.csv"),
		ArchiveToPostgres: getEnvBool("ARCHIVE_TO_POSTGRES", false),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "weedwatch"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "weedwatch"),
		PostgresDB:       getEnv("POSTGRES_DB", "weedwatch_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return fallback
}
