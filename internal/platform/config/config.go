package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	// InitialOwnerID seeds the stewardship record on first boot.
	InitialOwnerID string

	// ElectionLockWait bounds how long a command waits for an election's
	// critical section before giving up.
	ElectionLockWait time.Duration

	AuditRelayInterval time.Duration
}

func Load() (Config, error) {
	// Missing .env is fine, the environment wins either way.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "electorate"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		InitialOwnerID:     strings.TrimSpace(os.Getenv("INITIAL_OWNER_ID")),
		ElectionLockWait:   envDuration("ELECTION_LOCK_WAIT_SECONDS", 5*time.Second),
		AuditRelayInterval: envDuration("AUDIT_RELAY_INTERVAL_SECONDS", 2*time.Second),
	}, nil
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
