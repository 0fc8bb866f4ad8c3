package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Motion pipeline
	CooldownWindow time.Duration
	// Last fetched snapshot is written here for diagnostics; empty disables
	SnapshotPath string

	// Snapshot fetching
	FetchTimeout time.Duration

	// Gemini classification
	GeminiAPIKey    string
	GeminiModel     string
	ClassifyTimeout time.Duration
	PromptFile      string

	// Home Assistant
	HAURL            string
	HAToken          string
	AnnounceEntities []string
	AnnounceTimeout  time.Duration
	StateTimeout     time.Duration
	CounterEntity    string
	LastSeenEntity   string

	// Voice channel (Home Assistant assist satellites)
	VoiceEnabled      bool
	VoiceToggleEntity string

	// WhatsApp channel (CallMeBot gateway)
	WhatsAppEnabled      bool
	WhatsAppToggleEntity string
	CallMeBotURL         string
	CallMeBotPhone       string
	CallMeBotAPIKey      string
	NotifyTimeout        time.Duration

	// MQTT channel (empty broker disables)
	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string
	MQTTTopic    string
	MQTTTimeout  time.Duration

	// NATS (detection event bus)
	// Default: nats://localhost:4222 (works with Docker Compose setup)
	// Docker: Use nats://nats:4222 if running the server in Docker
	NatsEnabled        bool
	NatsURL            string
	NatsSubject        string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	NatsDrainTimeout   time.Duration // For graceful shutdown

	// GCS detection archive (empty bucket disables)
	GCSBucket          string
	GCSCredentialsFile string
	ArchiveTimeout     time.Duration

	// Swagger Configuration
	SwaggerHost string
	SwaggerPort int

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnvInt("PORT", 5427),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy (lightweight web log viewer)
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Motion pipeline
		CooldownWindow: getEnvDuration("COOLDOWN_WINDOW", 30*time.Second),
		SnapshotPath:   getEnv("SNAPSHOT_PATH", "tmp.jpg"),

		// Snapshot fetching
		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 10*time.Second),

		// Gemini classification
		GeminiAPIKey:    getGeminiAPIKey(),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		ClassifyTimeout: getEnvDuration("CLASSIFY_TIMEOUT", 30*time.Second),
		PromptFile:      getEnv("PROMPT_FILE", ""),

		// Home Assistant
		HAURL:            getEnv("HA_URL", "http://homeassistant.local:8123"),
		HAToken:          getEnv("HA_TOKEN", ""),
		AnnounceEntities: getEnvSlice("ANNOUNCE_ENTITIES", nil),
		AnnounceTimeout:  getEnvDuration("ANNOUNCE_TIMEOUT", 30*time.Second),
		StateTimeout:     getEnvDuration("STATE_TIMEOUT", 5*time.Second),
		CounterEntity:    getEnv("COUNTER_ENTITY", ""),
		LastSeenEntity:   getEnv("LAST_SEEN_ENTITY", ""),

		// Voice channel
		VoiceEnabled:      getEnvBool("VOICE_ENABLED", true),
		VoiceToggleEntity: getEnv("VOICE_TOGGLE_ENTITY", ""),

		// WhatsApp channel
		WhatsAppEnabled:      getEnvBool("WHATSAPP_ENABLED", false),
		WhatsAppToggleEntity: getEnv("WHATSAPP_TOGGLE_ENTITY", ""),
		CallMeBotURL:         getEnv("CALLMEBOT_URL", "https://api.callmebot.com/whatsapp.php"),
		CallMeBotPhone:       getEnv("CALLMEBOT_PHONE", ""),
		CallMeBotAPIKey:      getEnv("CALLMEBOT_APIKEY", ""),
		NotifyTimeout:        getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),

		// MQTT channel
		MQTTBroker:   getEnv("MQTT_BROKER", ""),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "camsentry"),
		MQTTUsername: getEnv("MQTT_USERNAME", ""),
		MQTTPassword: getEnv("MQTT_PASSWORD", ""),
		MQTTTopic:    getEnv("MQTT_TOPIC", "camsentry/detections"),
		MQTTTimeout:  getEnvDuration("MQTT_TIMEOUT", 5*time.Second),

		// NATS detection event bus
		NatsEnabled:        getEnvBool("NATS_ENABLED", false),
		NatsURL:            getNatsURL(),
		NatsSubject:        getEnv("NATS_SUBJECT", "detections"),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		NatsDrainTimeout:   getEnvDuration("NATS_DRAIN_TIMEOUT", 5*time.Second),

		// GCS detection archive
		GCSBucket:          getEnv("GCS_BUCKET", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		ArchiveTimeout:     getEnvDuration("ARCHIVE_TIMEOUT", 30*time.Second),

		// Swagger Configuration
		SwaggerHost: getEnv("SWAGGER_HOST", "localhost"),
		SwaggerPort: getEnvInt("SWAGGER_PORT", 5427),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvSlice parses a comma-separated list, dropping empty entries.
func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// getGeminiAPIKey checks GOOGLE_API_KEY first, then GEMINI_API_KEY.
func getGeminiAPIKey() string {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GEMINI_API_KEY")
}

// Helper functions for Docker environment detection
func isRunningInDocker() bool {
	// Check for Docker-specific environment indicators
	if os.Getenv("DOCKER_CONTAINER") == "true" {
		return true
	}

	// Check for .dockerenv file
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}

// getNatsURL returns the appropriate NATS URL based on environment
func getNatsURL() string {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}

	// If running in Docker, use service name; otherwise use localhost
	if isRunningInDocker() {
		return "nats://nats:4222"
	}

	return "nats://localhost:4222"
}
