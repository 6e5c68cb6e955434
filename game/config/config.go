package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

const (
	DefaultStoreBackend       = "memory"
	DefaultBotVisibilityDelay = time.Second
	DefaultMaxRetries         = 3
	DefaultMaxSeats           = 4

	MinMaxSeats = 2
	MaxMaxSeats = 4
)

// ServerConfig holds the process-wide knobs §4.7/§5's Game Store contract
// and Turn Coordinator leave to the deployment: which Store backend to
// construct, how long the bot visibility gate holds, how many times an
// UpdateGame conflict retries before surfacing as `conflict`, and a default
// maxSeats. DefaultMaxSeats is validated and logged at startup; no request
// path reads it, and a `host` request without maxSeats is rejected.
type ServerConfig struct {
	StoreBackend       string        `json:"storeBackend"`
	BotVisibilityDelay time.Duration `json:"botVisibilityDelayNs"`
	MaxRetries         int           `json:"maxRetries"`
	DefaultMaxSeats    int           `json:"defaultMaxSeats"`
}

// ValidateServerConfig checks required fields and bounds, mirroring
// game/engine's ValidateGameConfig in shape: one check per field, each
// error prefixed "config validation: ".
func ValidateServerConfig(c *ServerConfig) error {
	if c.StoreBackend == "" {
		return fmt.Errorf("config validation: storeBackend is required")
	}
	if c.StoreBackend != "memory" {
		return fmt.Errorf("config validation: unknown storeBackend %q", c.StoreBackend)
	}
	if c.BotVisibilityDelay <= 0 {
		return fmt.Errorf("config validation: botVisibilityDelayNs must be positive, got %s", c.BotVisibilityDelay)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("config validation: maxRetries must be at least 1, got %d", c.MaxRetries)
	}
	if c.DefaultMaxSeats < MinMaxSeats || c.DefaultMaxSeats > MaxMaxSeats {
		return fmt.Errorf("config validation: defaultMaxSeats must be between %d and %d, got %d",
			MinMaxSeats, MaxMaxSeats, c.DefaultMaxSeats)
	}
	return nil
}

// Lookup matches os.LookupEnv's signature, taken as a parameter so tests
// don't have to mutate real process environment variables.
type Lookup func(key string) (string, bool)

// FromEnv builds a ServerConfig from environment variables, falling back to
// the Default* constants for anything unset, and validates the result.
func FromEnv(lookup Lookup) (*ServerConfig, error) {
	c := &ServerConfig{
		StoreBackend:       DefaultStoreBackend,
		BotVisibilityDelay: DefaultBotVisibilityDelay,
		MaxRetries:         DefaultMaxRetries,
		DefaultMaxSeats:    DefaultMaxSeats,
	}

	if v, ok := lookup("LOSIENTO_STORE_BACKEND"); ok && v != "" {
		c.StoreBackend = v
	}
	if v, ok := lookup("LOSIENTO_BOT_VISIBILITY_DELAY_MS"); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config validation: LOSIENTO_BOT_VISIBILITY_DELAY_MS: %w", err)
		}
		c.BotVisibilityDelay = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup("LOSIENTO_MAX_RETRIES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config validation: LOSIENTO_MAX_RETRIES: %w", err)
		}
		c.MaxRetries = n
	}
	if v, ok := lookup("LOSIENTO_DEFAULT_MAX_SEATS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config validation: LOSIENTO_DEFAULT_MAX_SEATS: %w", err)
		}
		c.DefaultMaxSeats = n
	}

	if err := ValidateServerConfig(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Manager loads the process default config from the environment once, and
// additionally caches named JSON override profiles read from configDir —
// e.g. a "staging.json" with a shorter bot visibility delay for faster
// integration tests.
type Manager struct {
	configDir     string
	defaultConfig *ServerConfig
	configs       map[string]*ServerConfig
	mu            sync.RWMutex
}

// NewManager builds a Manager whose default config comes from the real
// process environment. configDir may be empty, in which case LoadConfig
// always returns ErrConfigNotFound.
func NewManager(configDir string) (*Manager, error) {
	def, err := FromEnv(os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}
	return &Manager{configDir: configDir, defaultConfig: def, configs: make(map[string]*ServerConfig)}, nil
}

// Default returns the environment-derived ServerConfig.
func (m *Manager) Default() *ServerConfig {
	return m.defaultConfig
}

// LoadConfig loads and caches a named override profile from configDir.
func (m *Manager) LoadConfig(name string) (*ServerConfig, error) {
	m.mu.RLock()
	if c, ok := m.configs[name]; ok {
		m.mu.RUnlock()
		return c, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.configs[name]; ok {
		return c, nil
	}
	if m.configDir == "" {
		return nil, ErrConfigNotFound
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}
	data, err := os.ReadFile(filepath.Join(m.configDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := *m.defaultConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := ValidateServerConfig(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = &c
	return &c, nil
}
