package generate

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Snapshot filenames, overwritten on every run. Operator troubleshooting
// artifacts, not an API contract.
const (
	promptSnapshotFile   = "last_prompt.txt"
	responseSnapshotFile = "last_response.txt"
)

// Snapshots writes the last built prompt and last cleaned response to disk.
// Failures are logged and swallowed: debug artifacts must never fail a run.
type Snapshots struct {
	dir string
	log *zap.Logger
}

// NewSnapshots returns a snapshot writer rooted at dir. An empty dir disables
// writing.
func NewSnapshots(dir string, log *zap.Logger) *Snapshots {
	return &Snapshots{dir: dir, log: log}
}

// SavePrompt records the instruction text sent to the surface.
func (s *Snapshots) SavePrompt(text string) {
	s.write(promptSnapshotFile, text)
}

// SaveResponse records the cleaned reply text.
func (s *Snapshots) SaveResponse(text string) {
	s.write(responseSnapshotFile, text)
}

func (s *Snapshots) write(name, text string) {
	if s == nil || s.dir == "" {
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Warn("snapshot dir not writable", zap.String("dir", s.dir), zap.Error(err))
		return
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		s.log.Warn("snapshot write failed", zap.String("path", path), zap.Error(err))
		return
	}
	s.log.Debug("snapshot written", zap.String("path", path), zap.Int("bytes", len(text)))
}
