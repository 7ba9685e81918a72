package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI          string
	DBName            string
	JWTSecret         string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	WompiEventsSecret string
	DeliveryFee       int64
	MonthlyGoal       int64
	ReportDir         string
	LogFile           string
	Timezone          *time.Location
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:          getEnvOrDefault("MONGO_URI", ""),
		DBName:            getEnvOrDefault("DB_NAME", "elbuensabor"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:    getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RefreshTokenTTL:   getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),
		WompiEventsSecret: getEnvOrDefault("WOMPI_EVENTS_SECRET", ""),
		DeliveryFee:       getInt64Env("DELIVERY_FEE", 3000),
		MonthlyGoal:       getInt64Env("MONTHLY_GOAL", 15000000),
		ReportDir:         getEnvOrDefault("REPORT_DIR", "./reports"),
		LogFile:           getEnvOrDefault("LOG_FILE", "./logs/app.log"),
		Timezone:          getLocationEnv("TIMEZONE", "America/Bogota"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}

// getLocationEnv resolves the branch timezone; analytics buckets orders by
// local calendar day, so a bad value falls back to UTC rather than failing
// startup.
func getLocationEnv(key, defaultValue string) *time.Location {
	name := getEnvOrDefault(key, defaultValue)
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid %s %q, using UTC: %v", key, name, err)
		return time.UTC
	}
	return loc
}
