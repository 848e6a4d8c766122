// Package config loads the paneld daemon configuration from PANELMESH_*
// environment variables with typed parse helpers.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Known model providers.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Config aggregates the daemon's configuration.
type Config struct {
	Server   ServerConfig
	Engine   EngineConfig
	Model    ModelConfig
	Registry RegistryConfig
	Logging  LoggingConfig
}

// Load reads configuration from the environment. Callers that want .env
// support load it beforehand; paneld does so via godotenv.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	eng, err := loadEngineConfig()
	if err != nil {
		return nil, err
	}

	mdl, err := loadModelConfig()
	if err != nil {
		return nil, err
	}

	registry, err := loadRegistryConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Engine:   eng,
		Model:    mdl,
		Registry: registry,
		Logging:  loadLoggingConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	addr := strings.TrimSpace(os.Getenv("PANELMESH_ADDR"))
	if addr == "" {
		addr = ":8080"
	}

	if strings.Contains(addr, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PANELMESH_ADDR value: %q", addr)
	}

	// A bare port like "8080" is accepted as ":8080".
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return ServerConfig{Addr: addr}, nil
}

// EngineConfig carries the engine tuning knobs. Zero values mean the
// engine's own defaults.
type EngineConfig struct {
	SessionTTL       time.Duration
	TurnTimeout      time.Duration
	ContextWindow    int
	SummaryThreshold int
	SummaryWindow    int
}

func loadEngineConfig() (EngineConfig, error) {
	ttl, err := parseDurationEnv("PANELMESH_SESSION_TTL", 0)
	if err != nil {
		return EngineConfig{}, err
	}

	turnTimeout, err := parseDurationEnv("PANELMESH_TURN_TIMEOUT", 0)
	if err != nil {
		return EngineConfig{}, err
	}

	window, err := parseIntEnv("PANELMESH_CONTEXT_WINDOW", 0)
	if err != nil {
		return EngineConfig{}, err
	}

	threshold, err := parseIntEnv("PANELMESH_SUMMARY_THRESHOLD", 0)
	if err != nil {
		return EngineConfig{}, err
	}

	summaryWindow, err := parseIntEnv("PANELMESH_SUMMARY_WINDOW", 0)
	if err != nil {
		return EngineConfig{}, err
	}

	return EngineConfig{
		SessionTTL:       ttl,
		TurnTimeout:      turnTimeout,
		ContextWindow:    window,
		SummaryThreshold: threshold,
		SummaryWindow:    summaryWindow,
	}, nil
}

// ModelConfig selects and tunes the generation provider.
type ModelConfig struct {
	// Provider is one of gemini, openai, anthropic or mock.
	Provider string

	// Model overrides the provider's default model name.
	Model string

	// APIKey overrides the provider SDK's own environment lookup
	// (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY).
	APIKey string

	Temperature *float64
}

func loadModelConfig() (ModelConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("PANELMESH_PROVIDER", ProviderGemini))
	switch provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderMock:
	default:
		return ModelConfig{}, fmt.Errorf("invalid PANELMESH_PROVIDER value %q (want gemini, openai, anthropic or mock)", provider)
	}

	temperature, err := parseOptionalFloatEnv("PANELMESH_TEMPERATURE")
	if err != nil {
		return ModelConfig{}, err
	}

	return ModelConfig{
		Provider:    provider,
		Model:       strings.TrimSpace(os.Getenv("PANELMESH_MODEL")),
		APIKey:      strings.TrimSpace(os.Getenv("PANELMESH_API_KEY")),
		Temperature: temperature,
	}, nil
}

// RegistryConfig points at optional YAML persona/panel definitions.
type RegistryConfig struct {
	// PersonasDir holds .yaml/.yml files merged over the built-in seed set.
	PersonasDir string

	// Watch reloads PersonasDir on file changes.
	Watch bool
}

func loadRegistryConfig() (RegistryConfig, error) {
	watch, err := parseBoolEnv("PANELMESH_WATCH", false)
	if err != nil {
		return RegistryConfig{}, err
	}

	return RegistryConfig{
		PersonasDir: strings.TrimSpace(os.Getenv("PANELMESH_PERSONAS_DIR")),
		Watch:       watch,
	}, nil
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  getEnvOrDefault("PANELMESH_LOG_LEVEL", "info"),
		Format: getEnvOrDefault("PANELMESH_LOG_FORMAT", "json"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
