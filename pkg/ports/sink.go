package ports

// FrameSink stores encoded frame images.
//
// Save returns the destination it wrote (a path for file sinks) so the
// caller can report it. The sink never creates its target directory:
// pointing it at a missing one is an I/O error.
type FrameSink interface {
	Save(name string, data []byte) (string, error)
}
