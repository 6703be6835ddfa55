// Package sheet implements the contact sheet stage. It loads the
// extracted stills back from the sink, scales them to thumbnails in
// parallel and composes them into a single labeled grid.
package sheet

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"runtime"
	"sort"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/user/stillcut/pkg/pipeline"
	"github.com/user/stillcut/pkg/ports"
)

// Stage composes extracted stills into a contact sheet.
type Stage struct {
	fs       ports.FileSystem
	renderer ports.SheetRenderer
	logger   ports.Logger
}

// NewStage creates a new sheet stage.
func NewStage(fs ports.FileSystem, renderer ports.SheetRenderer, logger ports.Logger) *Stage {
	return &Stage{
		fs:       fs,
		renderer: renderer,
		logger:   logger.WithComponent("sheet"),
	}
}

// Execute builds the contact sheet from the frames saved by the
// extraction loop.
func (s *Stage) Execute(ctx context.Context, input pipeline.SheetInput) (pipeline.SheetResult, error) {
	if len(input.Frames) == 0 {
		return pipeline.SheetResult{}, nil
	}

	numWorkers := input.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(input.Frames) {
		numWorkers = len(input.Frames)
	}
	cellWidth := input.CellWidth
	if cellWidth <= 0 {
		cellWidth = pipeline.DefaultSheetInput().CellWidth
	}

	s.logger.Debug("Scaling %d thumbnails with %d workers", len(input.Frames), numWorkers)

	cells, err := s.scaleParallel(ctx, input.Frames, cellWidth, numWorkers)
	if err != nil {
		return pipeline.SheetResult{}, err
	}

	s.logger.Info("Composing contact sheet (%d frames, %d columns)", len(cells), input.Columns)

	data, err := s.renderer.Render(cells, ports.SheetOptions{
		Columns:   input.Columns,
		CellWidth: cellWidth,
		Padding:   input.Padding,
		FontSize:  input.FontSize,
	})
	if err != nil {
		return pipeline.SheetResult{}, fmt.Errorf("render sheet: %w", err)
	}

	return pipeline.SheetResult{Data: data, Cells: len(cells)}, nil
}

// indexedCell holds a scaled cell with its original index for sorting.
type indexedCell struct {
	index int
	cell  ports.SheetCell
}

// scaleParallel loads and scales thumbnails using a worker pool.
func (s *Stage) scaleParallel(ctx context.Context, frames []pipeline.SavedFrame, cellWidth, numWorkers int) ([]ports.SheetCell, error) {
	jobs := make(chan int, len(frames))
	results := make(chan indexedCell, len(frames))
	errChan := make(chan error, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go s.worker(ctx, &wg, frames, cellWidth, jobs, results, errChan)
	}

	for i := range frames {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
		close(errChan)
	}()

	scaled := make([]indexedCell, 0, len(frames))
	for result := range results {
		scaled = append(scaled, result)
	}

	if err := <-errChan; err != nil {
		return nil, err
	}

	sort.Slice(scaled, func(i, j int) bool {
		return scaled[i].index < scaled[j].index
	})

	cells := make([]ports.SheetCell, len(scaled))
	for i, c := range scaled {
		cells[i] = c.cell
	}
	return cells, nil
}

// worker scales thumbnails from the jobs channel.
func (s *Stage) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	frames []pipeline.SavedFrame,
	cellWidth int,
	jobs <-chan int,
	results chan<- indexedCell,
	errChan chan<- error,
) {
	defer wg.Done()

	for idx := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		cell, err := s.loadCell(frames[idx], cellWidth)
		if err != nil {
			select {
			case errChan <- fmt.Errorf("thumbnail %d: %w", idx, err):
			default:
			}
			return
		}

		results <- indexedCell{index: idx, cell: cell}
	}
}

// loadCell reads one saved still and scales it to the cell width.
func (s *Stage) loadCell(frame pipeline.SavedFrame, cellWidth int) (ports.SheetCell, error) {
	data, err := s.fs.ReadFile(frame.Path)
	if err != nil {
		return ports.SheetCell{}, fmt.Errorf("read still: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return ports.SheetCell{}, fmt.Errorf("decode still: %w", err)
	}

	b := img.Bounds()
	if b.Dx() != cellWidth && b.Dx() > 0 {
		h := b.Dy() * cellWidth / b.Dx()
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, cellWidth, h))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		img = dst
	}

	return ports.SheetCell{Image: img, Label: cellLabel(frame)}, nil
}

// cellLabel formats the label drawn under a thumbnail.
func cellLabel(frame pipeline.SavedFrame) string {
	if frame.PTSMS < 0 {
		return fmt.Sprintf("#%d", frame.Index)
	}
	return fmt.Sprintf("#%d %.2fs", frame.Index, float64(frame.PTSMS)/1000.0)
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.SheetInput, pipeline.SheetResult] = (*Stage)(nil)
