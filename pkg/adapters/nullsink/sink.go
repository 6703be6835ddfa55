// Package nullsink provides a no-op frame sink implementation.
package nullsink

import (
	"path/filepath"

	"github.com/user/stillcut/pkg/ports"
)

// Sink is a no-op implementation of ports.FrameSink.
// It discards all frames, which makes dry runs exercise the full
// decode path without touching the filesystem.
type Sink struct {
	baseDir string
}

// New creates a new NullSink. baseDir is only used to report the path
// a real sink would have written.
func New(baseDir string) *Sink {
	return &Sink{baseDir: baseDir}
}

// Save discards the data and returns the path a file sink would use.
func (s *Sink) Save(name string, data []byte) (string, error) {
	return filepath.Join(s.baseDir, name), nil
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
