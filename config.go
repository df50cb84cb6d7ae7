package main

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings. Everything is env-driven with defaults
// matching the original deployment; a .env file is honored when present.
type Config struct {
	Port           string
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	AllowedOrigins []string

	RoomTTL         time.Duration
	SweepInterval   time.Duration
	MaxRoomMessages int
	MaxMessageChars int

	S3Region string
	S3Bucket string

	Environment string
}

func (c *Config) development() bool {
	return c.Environment == "development"
}

func loadConfig() *Config {
	// .env is optional; deployments usually set real env vars.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "wasteless")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ALLOWED_ORIGINS", "http://127.0.0.1:5500,http://localhost:5500")
	v.SetDefault("ROOM_TTL", "1h")
	v.SetDefault("SWEEP_INTERVAL", "5m")
	v.SetDefault("MAX_ROOM_MESSAGES", 50)
	v.SetDefault("MAX_MESSAGE_CHARS", 1000)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("ENVIRONMENT", "development")

	cfg := &Config{
		Port:            v.GetString("PORT"),
		MongoURI:        v.GetString("MONGO_URI"),
		MongoDB:         v.GetString("MONGO_DB"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		AllowedOrigins:  splitOrigins(v.GetString("ALLOWED_ORIGINS")),
		RoomTTL:         v.GetDuration("ROOM_TTL"),
		SweepInterval:   v.GetDuration("SWEEP_INTERVAL"),
		MaxRoomMessages: v.GetInt("MAX_ROOM_MESSAGES"),
		MaxMessageChars: v.GetInt("MAX_MESSAGE_CHARS"),
		S3Region:        v.GetString("S3_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		Environment:     v.GetString("ENVIRONMENT"),
	}

	if cfg.RoomTTL <= 0 {
		cfg.RoomTTL = time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	if cfg.MaxRoomMessages <= 0 {
		cfg.MaxRoomMessages = 50
	}
	if cfg.MaxMessageChars <= 0 {
		cfg.MaxMessageChars = 1000
	}
	return cfg
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
