// Package sheetrenderer composes extracted frames into a contact sheet
// using the gg library.
package sheetrenderer

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/user/stillcut/pkg/ports"
)

const (
	defaultColumns   = 4
	defaultCellWidth = 320
	defaultPadding   = 8
	defaultFontSize  = 13
)

var (
	defaultBackground = color.RGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xFF}
	defaultLabelColor = color.RGBA{R: 0xE8, G: 0xE8, B: 0xE8, A: 0xFF}
)

// Renderer implements ports.SheetRenderer using the gg library.
type Renderer struct {
	background color.Color
	labelColor color.Color
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBackground sets the sheet background color.
func WithBackground(c color.Color) Option {
	return func(r *Renderer) {
		if c != nil {
			r.background = c
		}
	}
}

// WithLabelColor sets the label text color.
func WithLabelColor(c color.Color) Option {
	return func(r *Renderer) {
		if c != nil {
			r.labelColor = c
		}
	}
}

// New creates a new Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		background: defaultBackground,
		labelColor: defaultLabelColor,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render lays the cells out on a grid, left to right, top to bottom,
// and returns the sheet encoded as PNG. Cell images are scaled to the
// cell width; the row height follows the tallest scaled image.
func (r *Renderer) Render(cells []ports.SheetCell, opts ports.SheetOptions) ([]byte, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("sheetrenderer: no cells to render")
	}

	cols := opts.Columns
	if cols <= 0 {
		cols = defaultColumns
	}
	if cols > len(cells) {
		cols = len(cells)
	}
	cellW := opts.CellWidth
	if cellW <= 0 {
		cellW = defaultCellWidth
	}
	pad := opts.Padding
	if pad <= 0 {
		pad = defaultPadding
	}
	fontSize := opts.FontSize
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	labelH := int(fontSize * 1.8)

	cellH, err := maxCellHeight(cells, cellW)
	if err != nil {
		return nil, err
	}

	rows := (len(cells) + cols - 1) / cols
	width := pad + cols*(cellW+pad)
	height := pad + rows*(cellH+labelH+pad)

	dc := gg.NewContext(width, height)
	dc.SetColor(r.background)
	dc.Clear()

	for i, cell := range cells {
		x := pad + (i%cols)*(cellW+pad)
		y := pad + (i/cols)*(cellH+labelH+pad)

		drawScaled(dc, cell, x, y, cellW)

		if cell.Label != "" {
			dc.SetColor(r.labelColor)
			dc.DrawStringAnchored(cell.Label, float64(x+cellW/2), float64(y+cellH)+float64(labelH)/2, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("sheetrenderer: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// maxCellHeight returns the tallest cell image height after scaling
// every image to the cell width.
func maxCellHeight(cells []ports.SheetCell, cellW int) (int, error) {
	max := 0
	for i, cell := range cells {
		if cell.Image == nil {
			return 0, fmt.Errorf("sheetrenderer: cell %d has no image", i)
		}
		b := cell.Image.Bounds()
		if b.Dx() <= 0 || b.Dy() <= 0 {
			return 0, fmt.Errorf("sheetrenderer: cell %d image is empty", i)
		}
		h := cellW * b.Dy() / b.Dx()
		if h > max {
			max = h
		}
	}
	return max, nil
}

// drawScaled draws the cell image scaled to the cell width at (x, y).
func drawScaled(dc *gg.Context, cell ports.SheetCell, x, y, cellW int) {
	b := cell.Image.Bounds()
	scale := float64(cellW) / float64(b.Dx())

	dc.Push()
	defer dc.Pop()

	dc.Translate(float64(x), float64(y))
	dc.Scale(scale, scale)
	dc.DrawImage(cell.Image, 0, 0)
}

// Ensure Renderer implements ports.SheetRenderer
var _ ports.SheetRenderer = (*Renderer)(nil)
