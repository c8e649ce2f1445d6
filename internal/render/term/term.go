// Package term presents a raster canvas on a terminal. Each cell shows two
// vertically stacked pixels using the upper half block: the foreground is
// the top pixel and the background the bottom one.
package term

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/particle-field/internal/render/raster"
)

const upperHalf = '▀'

// Presenter owns a raster canvas sized to the terminal, one logical pixel
// per column and two per row.
type Presenter struct {
	screen     tcell.Screen
	canvas     *raster.Canvas
	cols, rows int
}

// New sizes a presenter to screen.
func New(screen tcell.Screen) (*Presenter, error) {
	cols, rows := screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("term: empty screen %dx%d", cols, rows)
	}
	c, err := raster.New(float64(cols), float64(rows*2), 1)
	if err != nil {
		return nil, err
	}
	return &Presenter{screen: screen, canvas: c, cols: cols, rows: rows}, nil
}

// Canvas is the surface frames are painted on.
func (p *Presenter) Canvas() *raster.Canvas { return p.canvas }

// Sync follows a terminal resize and reports whether the size changed.
func (p *Presenter) Sync() (bool, error) {
	cols, rows := p.screen.Size()
	if cols == p.cols && rows == p.rows {
		return false, nil
	}
	if cols <= 0 || rows <= 0 {
		return false, nil
	}
	if err := p.canvas.Resize(float64(cols), float64(rows*2), 1); err != nil {
		return false, err
	}
	p.cols, p.rows = cols, rows
	return true, nil
}

// PointerAt maps a cell to the logical pixel at its centre.
func (p *Presenter) PointerAt(col, row int) (float64, float64) {
	return float64(col) + 0.5, float64(row*2) + 1
}

// Present copies the canvas to the screen and shows it.
func (p *Presenter) Present() {
	Blit(p.screen, p.canvas.Image(), p.cols, p.rows)
	p.screen.Show()
}

// Blit writes img onto a cols by rows region of screen. img is expected to
// be cols by 2*rows pixels; other sizes are sampled nearest-neighbour.
func Blit(screen tcell.Screen, img *image.RGBA, cols, rows int) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := b.Min.X + col*b.Dx()/cols
			top := b.Min.Y + (2*row)*b.Dy()/(2*rows)
			bottom := b.Min.Y + (2*row+1)*b.Dy()/(2*rows)
			st := tcell.StyleDefault.
				Foreground(cellColor(img, x, top)).
				Background(cellColor(img, x, bottom))
			screen.SetContent(col, row, upperHalf, nil, st)
		}
	}
}

// cellColor drops alpha: the canvas background is opaque, so the stored
// premultiplied channels are the colour on screen.
func cellColor(img *image.RGBA, x, y int) tcell.Color {
	c := img.RGBAAt(x, y)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
