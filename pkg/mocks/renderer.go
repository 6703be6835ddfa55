package mocks

import "github.com/user/stillcut/pkg/ports"

// SheetRenderer is a mock implementation of ports.SheetRenderer.
type SheetRenderer struct {
	RenderFunc func(cells []ports.SheetCell, opts ports.SheetOptions) ([]byte, error)

	// Recorded calls for verification
	RenderCalls []RenderCall
}

// RenderCall records a call to Render.
type RenderCall struct {
	Cells int
	Opts  ports.SheetOptions
}

func (m *SheetRenderer) Render(cells []ports.SheetCell, opts ports.SheetOptions) ([]byte, error) {
	m.RenderCalls = append(m.RenderCalls, RenderCall{Cells: len(cells), Opts: opts})
	if m.RenderFunc != nil {
		return m.RenderFunc(cells, opts)
	}
	// Minimal PNG signature
	return []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, nil
}

var _ ports.SheetRenderer = (*SheetRenderer)(nil)
