package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/wansatya/x.com/internal/localstate"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	StateFile string
	LogFile   string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("WASTEGAME_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("WASTEGAME_TOKEN"),
		TokenFile: getEnvOrDefault("WASTEGAME_TOKEN_FILE", defaultPath("token")),
		StateFile: getEnvOrDefault("WASTEGAME_STATE_FILE", localstate.DefaultPath()),
		LogFile:   getEnvOrDefault("WASTEGAME_LOG_FILE", defaultPath("wastegame.log")),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken saves the token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token

	dir := filepath.Dir(c.TokenFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

// ClearToken forgets the token and removes the token file
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".wastegame", name)
	}
	return filepath.Join(home, ".wastegame", name)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
