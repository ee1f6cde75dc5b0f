package generate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSnapshotsWriteAndOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := NewSnapshots(dir, zap.NewNop())

	s.SavePrompt("first prompt")
	s.SavePrompt("second prompt")
	s.SaveResponse("the reply")

	prompt, err := os.ReadFile(filepath.Join(dir, "last_prompt.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second prompt", string(prompt))

	resp, err := os.ReadFile(filepath.Join(dir, "last_response.txt"))
	require.NoError(t, err)
	assert.Equal(t, "the reply", string(resp))
}

func TestSnapshotsCreateMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	s := NewSnapshots(dir, zap.NewNop())

	s.SavePrompt("hello")

	_, err := os.Stat(filepath.Join(dir, "last_prompt.txt"))
	assert.NoError(t, err)
}

func TestSnapshotsDisabledByEmptyDir(t *testing.T) {
	s := NewSnapshots("", zap.NewNop())

	// Must be a no-op, not a panic or a file in the working directory.
	s.SavePrompt("ignored")
	s.SaveResponse("ignored")
}
