package ports

import "image"

// SheetCell is one tile of a contact sheet.
type SheetCell struct {
	Image image.Image
	Label string
}

// SheetOptions controls contact sheet composition.
type SheetOptions struct {
	Columns   int
	CellWidth int
	Padding   int
	FontSize  float64
}

// SheetRenderer composes extracted stills into a single labeled grid
// image and returns it PNG-encoded.
type SheetRenderer interface {
	Render(cells []SheetCell, opts SheetOptions) ([]byte, error)
}
