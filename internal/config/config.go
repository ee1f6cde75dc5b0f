package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all copyforge configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Browser BrowserConfig `yaml:"browser"`
	Wait    WaitConfig    `yaml:"wait"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port          int      `yaml:"port"`
	ReadTimeout   string   `yaml:"read_timeout"`
	WriteTimeout  string   `yaml:"write_timeout"`
	IdleTimeout   string   `yaml:"idle_timeout"`
	AllowOrigins  []string `yaml:"allow_origins"`
	DashboardPath string   `yaml:"dashboard_path"`
}

// BrowserConfig configures the Chrome session.
type BrowserConfig struct {
	ChatURL    string `yaml:"chat_url"`
	ProfileDir string `yaml:"profile_dir"`
	Headless   bool   `yaml:"headless"`

	// NavTimeout bounds page navigation.
	NavTimeout string `yaml:"nav_timeout"`
}

// WaitConfig configures reply-acquisition timing. Durations are strings so
// operators can write "45s" or "2m" in the YAML file.
type WaitConfig struct {
	SignInGrace     string `yaml:"sign_in_grace"`
	PostLoginSettle string `yaml:"post_login_settle"`
	InputWait       string `yaml:"input_wait"`

	InitialGrace           string `yaml:"initial_grace"`
	ReplyPollInterval      string `yaml:"reply_poll_interval"`
	ReplyPollAttempts      int    `yaml:"reply_poll_attempts"`
	CompletionPollInterval string `yaml:"completion_poll_interval"`
	CompletionPollAttempts int    `yaml:"completion_poll_attempts"`
	SettleDelay            string `yaml:"settle_delay"`
	MinReplyChars          int    `yaml:"min_reply_chars"`
}

// OutputConfig configures debug artifacts.
type OutputConfig struct {
	// Dir receives last_prompt.txt and last_response.txt. Empty disables them.
	Dir string `yaml:"dir"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          5000,
			ReadTimeout:   "30s",
			WriteTimeout:  "15m",
			IdleTimeout:   "2m",
			AllowOrigins:  []string{"*"},
			DashboardPath: "web/dashboard.html",
		},
		Browser: BrowserConfig{
			ChatURL:    "https://gemini.google.com/app",
			ProfileDir: "data/chrome-profile",
			Headless:   false,
			NavTimeout: "60s",
		},
		Wait: WaitConfig{
			SignInGrace:            "60s",
			PostLoginSettle:        "3s",
			InputWait:              "30s",
			InitialGrace:           "10s",
			ReplyPollInterval:      "2s",
			ReplyPollAttempts:      60,
			CompletionPollInterval: "2s",
			CompletionPollAttempts: 30,
			SettleDelay:            "3s",
			MinReplyChars:          50,
		},
		Output: OutputConfig{
			Dir: "data/output",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load loads configuration from a YAML file over the defaults, then applies
// environment overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies COPYFORGE_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("COPYFORGE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("COPYFORGE_CHAT_URL"); v != "" {
		c.Browser.ChatURL = v
	}
	if v := os.Getenv("COPYFORGE_PROFILE_DIR"); v != "" {
		c.Browser.ProfileDir = v
	}
	if v := os.Getenv("COPYFORGE_HEADLESS"); v != "" {
		c.Browser.Headless = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("COPYFORGE_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("COPYFORGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Browser.ChatURL == "" {
		return fmt.Errorf("browser chat_url must not be empty")
	}
	if c.Wait.ReplyPollAttempts <= 0 {
		return fmt.Errorf("wait reply_poll_attempts must be positive")
	}
	if c.Wait.CompletionPollAttempts <= 0 {
		return fmt.Errorf("wait completion_poll_attempts must be positive")
	}
	return nil
}

func duration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// GetReadTimeout returns the HTTP read timeout as a duration.
func (c *Config) GetReadTimeout() time.Duration {
	return duration(c.Server.ReadTimeout, 30*time.Second)
}

// GetWriteTimeout returns the HTTP write timeout as a duration. Generation
// runs can take minutes, so the default is generous.
func (c *Config) GetWriteTimeout() time.Duration {
	return duration(c.Server.WriteTimeout, 15*time.Minute)
}

// GetIdleTimeout returns the HTTP idle timeout as a duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return duration(c.Server.IdleTimeout, 2*time.Minute)
}

// GetNavTimeout returns the page navigation timeout as a duration.
func (c *Config) GetNavTimeout() time.Duration {
	return duration(c.Browser.NavTimeout, 60*time.Second)
}

// GetSignInGrace returns the manual sign-in grace period as a duration.
func (c *Config) GetSignInGrace() time.Duration {
	return duration(c.Wait.SignInGrace, 60*time.Second)
}

// GetPostLoginSettle returns the settle delay taken when the input field is
// already present after navigation.
func (c *Config) GetPostLoginSettle() time.Duration {
	return duration(c.Wait.PostLoginSettle, 3*time.Second)
}

// GetInputWait returns the bound on waiting for the input field.
func (c *Config) GetInputWait() time.Duration {
	return duration(c.Wait.InputWait, 30*time.Second)
}

// GetInitialGrace returns the post-submission grace sleep.
func (c *Config) GetInitialGrace() time.Duration {
	return duration(c.Wait.InitialGrace, 10*time.Second)
}

// GetReplyPollInterval returns the reply poll interval.
func (c *Config) GetReplyPollInterval() time.Duration {
	return duration(c.Wait.ReplyPollInterval, 2*time.Second)
}

// GetCompletionPollInterval returns the completion poll interval.
func (c *Config) GetCompletionPollInterval() time.Duration {
	return duration(c.Wait.CompletionPollInterval, 2*time.Second)
}

// GetSettleDelay returns the pre-extraction settle delay.
func (c *Config) GetSettleDelay() time.Duration {
	return duration(c.Wait.SettleDelay, 3*time.Second)
}
