// Package filesink provides a directory-backed frame sink.
package filesink

import (
	"fmt"
	"path/filepath"

	"github.com/user/stillcut/pkg/ports"
)

// Sink writes encoded frames into a base directory. The directory is
// expected to exist; the sink never creates it, so a missing directory
// surfaces as an error from the first save.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new FileSink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// Save writes data under the base directory and returns the full path.
func (s *Sink) Save(name string, data []byte) (string, error) {
	path := filepath.Join(s.baseDir, name)
	if err := s.fs.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return path, nil
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
