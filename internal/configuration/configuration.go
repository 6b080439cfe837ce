package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

var defaultConfig = Config{
	APIURL:         "http://localhost:8000",
	RequestTimeout: 30,
	PollInterval:   30,

	Chat: &ChatConfig{
		ConversationLimit: 50,
		MessageLimit:      100,
	},
}

// Config holds configuration for the taskflow tool.
type Config struct {
	// Base URL of the taskflow backend.
	APIURL string `json:"api_url"`
	// Timeout, in seconds, applied to task and auth requests.
	// Chat requests are exempt: agent responses can take arbitrarily long.
	RequestTimeout int `json:"request_timeout"`
	// Interval, in seconds, at which the dashboard refetches tasks.
	PollInterval int `json:"poll_interval"`

	Chat *ChatConfig `json:"chat"`
}

// ChatConfig holds configuration for taskflow chat.
type ChatConfig struct {
	// Maximum number of conversations fetched for the sidebar.
	ConversationLimit int `json:"conversation_limit"`
	// Maximum number of messages fetched per conversation.
	MessageLimit int `json:"message_limit"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if err := mergo.Merge(config, defaultConfig); err != nil {
		return nil, errors.Wrap(err, "merging defaults")
	}

	applyEnvironmentOverrides(config)
	config.APIURL = strings.TrimSuffix(config.APIURL, "/")
	return config, nil
}

// applyEnvironmentOverrides lets the environment take precedence over the
// file, so scripts and tests can point at a different backend.
func applyEnvironmentOverrides(config *Config) {
	_ = godotenv.Load(".env")

	if url := os.Getenv("TASKFLOW_API_URL"); url != "" {
		config.APIURL = url
	}
	if value := os.Getenv("TASKFLOW_POLL_INTERVAL"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			config.PollInterval = parsed
		}
	}
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}

// ExpandPath expands a leading "~/" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "getting user home dir")
	}
	return filepath.Join(home, path[2:]), nil
}
