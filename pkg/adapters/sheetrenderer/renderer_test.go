package sheetrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/user/stillcut/pkg/ports"
)

func solidCell(w, h int, c color.RGBA, label string) ports.SheetCell {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = 255
	}
	return ports.SheetCell{Image: img, Label: label}
}

func TestRender_Grid(t *testing.T) {
	cells := []ports.SheetCell{
		solidCell(64, 36, color.RGBA{R: 255}, "#0"),
		solidCell(64, 36, color.RGBA{G: 255}, "#1"),
		solidCell(64, 36, color.RGBA{B: 255}, "#2"),
	}
	opts := ports.SheetOptions{Columns: 2, CellWidth: 64, Padding: 4, FontSize: 10}

	data, err := New().Render(cells, opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("sheet is not a decodable PNG: %v", err)
	}

	// Two columns, two rows: width = pad + 2*(cell+pad).
	wantW := 4 + 2*(64+4)
	if img.Bounds().Dx() != wantW {
		t.Errorf("sheet width = %d, want %d", img.Bounds().Dx(), wantW)
	}
	if img.Bounds().Dy() <= 2*36 {
		t.Errorf("sheet height = %d, too small for two rows", img.Bounds().Dy())
	}

	// The first cell's area holds the first image's color.
	r, g, b, _ := img.At(6, 6).RGBA()
	if r>>8 < 200 || g>>8 > 50 || b>>8 > 50 {
		t.Errorf("first cell pixel = %d,%d,%d, want red", r>>8, g>>8, b>>8)
	}
}

func TestRender_ColumnsClampedToCellCount(t *testing.T) {
	cells := []ports.SheetCell{solidCell(32, 32, color.RGBA{R: 255}, "")}
	data, err := New().Render(cells, ports.SheetOptions{Columns: 8, CellWidth: 32})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	// One cell means one column, not eight empty ones.
	wantW := defaultPadding + 1*(32+defaultPadding)
	if img.Bounds().Dx() != wantW {
		t.Errorf("sheet width = %d, want %d", img.Bounds().Dx(), wantW)
	}
}

func TestRender_NoCells(t *testing.T) {
	if _, err := New().Render(nil, ports.SheetOptions{}); err == nil {
		t.Error("expected an error for an empty sheet")
	}
}

func TestRender_NilCellImage(t *testing.T) {
	cells := []ports.SheetCell{{Label: "#0"}}
	if _, err := New().Render(cells, ports.SheetOptions{}); err == nil {
		t.Error("expected an error for a cell without an image")
	}
}
