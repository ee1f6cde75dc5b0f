package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "https://gemini.google.com/app", cfg.Browser.ChatURL)
	assert.Equal(t, 60, cfg.Wait.ReplyPollAttempts)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copyforge.yaml")
	body := `
server:
  port: 8080
wait:
  reply_poll_interval: 500ms
  reply_poll_attempts: 10
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Wait.ReplyPollAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.GetReplyPollInterval())
	// Untouched sections keep their defaults.
	assert.Equal(t, "data/output", cfg.Output.Dir)
	assert.Equal(t, 30, cfg.Wait.CompletionPollAttempts)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copyforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COPYFORGE_PORT", "9090")
	t.Setenv("COPYFORGE_CHAT_URL", "https://chat.example/app")
	t.Setenv("COPYFORGE_HEADLESS", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://chat.example/app", cfg.Browser.ChatURL)
	assert.True(t, cfg.Browser.Headless)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, false},
		{"huge port", func(c *Config) { c.Server.Port = 70000 }, false},
		{"empty chat url", func(c *Config) { c.Browser.ChatURL = "" }, false},
		{"no reply attempts", func(c *Config) { c.Wait.ReplyPollAttempts = 0 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDurationGettersFallBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Wait.InitialGrace = "not-a-duration"
	cfg.Server.ReadTimeout = ""

	assert.Equal(t, 10*time.Second, cfg.GetInitialGrace())
	assert.Equal(t, 30*time.Second, cfg.GetReadTimeout())
	assert.Equal(t, 60*time.Second, cfg.GetSignInGrace())
}

func TestWatchDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "copyforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 5000\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Watch(ctx, path, zap.NewNop(), func(c *Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 6001\n"), 0o644))

	select {
	case cfg := <-got:
		assert.Equal(t, 6001, cfg.Server.Port)
	case <-time.After(5 * time.Second):
		t.Fatal("reload never delivered")
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}
