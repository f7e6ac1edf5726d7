// Package config provides centralized default values for the Camali server
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%g (default: %g)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Document Store
	SQLitePath               string
	LibSQLURL                string
	LibSQLToken              string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int

	// Identity
	JWTSecret     string
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	AdvisorDomain string
	BcryptCost    int

	// Journal Engine
	JournalTimezone       string
	JarCapacity           int
	JarWidth              float64
	JarHeight             float64
	JarPadHorizontalRatio float64
	JarPadTopRatio        float64
	JarPadBottomRatio     float64
	JarDropletSize        float64

	// SSE Configuration
	MaxSSEConnections           int64
	SSEHeartbeatIntervalSeconds int

	// Blob Store
	BlobRoot    string
	BlobBaseURL string
	AvatarSize  int

	// Email
	EmailFrom     string
	EmailFromName string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Document Store
	SQLitePath = getEnvString("CAMALI_SQLITE_PATH", "data/camali.db")
	LibSQLURL = getEnvString("CAMALI_LIBSQL_URL", "")
	LibSQLToken = getEnvString("CAMALI_LIBSQL_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)

	// Identity
	JWTSecret = getEnvString("CAMALI_JWT_SECRET", "")
	SessionTTL = getEnvDuration("SESSION_TTL", 24*time.Hour)
	ResetTokenTTL = getEnvDuration("RESET_TOKEN_TTL", 1*time.Hour)
	AdvisorDomain = getEnvString("CAMALI_ADVISOR_DOMAIN", "@orientacao.camali.app")
	BcryptCost = getEnvInt("BCRYPT_COST", 10)

	// Journal Engine
	JournalTimezone = getEnvString("CAMALI_TIMEZONE", "America/Sao_Paulo")
	JarCapacity = getEnvInt("JAR_CAPACITY", 50)
	JarWidth = getEnvFloat("JAR_WIDTH", 280)
	JarHeight = getEnvFloat("JAR_HEIGHT", 280)
	JarPadHorizontalRatio = getEnvFloat("JAR_PAD_HORIZONTAL_RATIO", 0.28)
	JarPadTopRatio = getEnvFloat("JAR_PAD_TOP_RATIO", 0.40)
	JarPadBottomRatio = getEnvFloat("JAR_PAD_BOTTOM_RATIO", 0.25)
	JarDropletSize = getEnvFloat("JAR_DROPLET_SIZE", 25)

	// SSE Configuration
	MaxSSEConnections = int64(getEnvInt("MAX_SSE_CONNECTIONS", 1000))
	SSEHeartbeatIntervalSeconds = getEnvInt("SSE_HEARTBEAT_INTERVAL_SECONDS", 30)

	// Blob Store
	BlobRoot = getEnvString("CAMALI_BLOB_ROOT", "data/blobs")
	BlobBaseURL = getEnvString("CAMALI_BLOB_BASE_URL", "/media")
	AvatarSize = getEnvInt("AVATAR_SIZE", 256)

	// Email
	EmailFrom = getEnvString("CAMALI_EMAIL_FROM", "noreply@camali.app")
	EmailFromName = getEnvString("CAMALI_EMAIL_FROM_NAME", "Camali")
}
