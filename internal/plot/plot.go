// Package plot renders the analysis charts as PNG images with fogleman/gg.
// A Figure lays its panels out on a grid and every panel draws into its own
// cell.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	defaultWidth       = 1000
	defaultPanelHeight = 420
	figureTitleHeight  = 36

	marginLeft   = 64
	marginRight  = 20
	marginTop    = 32
	marginBottom = 48
)

var ErrNoPanels = errors.New("figure has no panels")

var (
	ColorBar       = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	ColorHigh      = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	ColorLow       = color.RGBA{R: 205, G: 55, B: 55, A: 255}
	ColorReference = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	ColorAccent    = color.RGBA{R: 255, G: 140, B: 0, A: 255}

	colorText = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	colorAxis = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	colorGrid = color.RGBA{R: 225, G: 225, B: 225, A: 255}
)

// Palette is cycled through by line charts whose series carry no color.
var Palette = []color.Color{
	ColorBar,
	ColorAccent,
	ColorHigh,
	ColorLow,
	color.RGBA{R: 128, G: 0, B: 128, A: 255},
	color.RGBA{R: 112, G: 128, B: 144, A: 255},
}

// Panel is one chart inside a Figure.
type Panel interface {
	draw(dc *gg.Context, area Rect, faces *faceSet)
}

type Rect struct {
	X, Y, W, H float64
}

type Figure struct {
	Title       string
	Width       int
	PanelHeight int
	Columns     int
	Panels      []Panel
}

// Render draws the figure and returns it PNG encoded.
func (f Figure) Render() ([]byte, error) {
	if len(f.Panels) == 0 {
		return nil, ErrNoPanels
	}
	width := f.Width
	if width <= 0 {
		width = defaultWidth
	}
	panelHeight := f.PanelHeight
	if panelHeight <= 0 {
		panelHeight = defaultPanelHeight
	}
	cols := max(f.Columns, 1)
	rows := (len(f.Panels) + cols - 1) / cols
	titleHeight := 0
	if f.Title != "" {
		titleHeight = figureTitleHeight
	}

	faces, err := newFaceSet()
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}

	dc := gg.NewContext(width, titleHeight+rows*panelHeight)
	dc.SetColor(color.White)
	dc.Clear()

	if f.Title != "" {
		dc.SetFontFace(faces.title)
		dc.SetColor(colorText)
		dc.DrawStringAnchored(f.Title, float64(width)/2, float64(titleHeight)/2, 0.5, 0.5)
	}

	cellW := float64(width) / float64(cols)
	for i, p := range f.Panels {
		row, col := i/cols, i%cols
		area := Rect{
			X: float64(col) * cellW,
			Y: float64(titleHeight + row*panelHeight),
			W: cellW,
			H: float64(panelHeight),
		}
		dc.Push()
		p.draw(dc, area, faces)
		dc.Pop()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Save renders the figure to path, creating parent directories.
func (f Figure) Save(path string) error {
	data, err := f.Render()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write plot %s: %w", path, err)
	}
	return nil
}

type faceSet struct {
	title font.Face
	label font.Face
	tick  font.Face
}

func newFaceSet() (*faceSet, error) {
	title, err := loadFont(gobold.TTF, 15)
	if err != nil {
		return nil, err
	}
	label, err := loadFont(goregular.TTF, 12)
	if err != nil {
		return nil, err
	}
	tick, err := loadFont(goregular.TTF, 10)
	if err != nil {
		return nil, err
	}
	return &faceSet{title: title, label: label, tick: tick}, nil
}

func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// axes maps data coordinates into the inner plot area of a panel.
type axes struct {
	plot       Rect
	xMin, xMax float64
	yMin, yMax float64
}

func (a axes) x(v float64) float64 {
	return a.plot.X + (v-a.xMin)/(a.xMax-a.xMin)*a.plot.W
}

func (a axes) y(v float64) float64 {
	return a.plot.Y + a.plot.H - (v-a.yMin)/(a.yMax-a.yMin)*a.plot.H
}

type frame struct {
	title, xLabel, yLabel string
}

// drawFrame draws title, axis labels, horizontal grid and y ticks, and
// returns the axes for the inner area.
func drawFrame(dc *gg.Context, area Rect, faces *faceSet, fr frame, xMin, xMax, yMin, yMax float64) axes {
	if xMax <= xMin {
		xMax = xMin + 1
	}
	if yMax <= yMin {
		yMax = yMin + 1
	}
	a := axes{
		plot: Rect{
			X: area.X + marginLeft,
			Y: area.Y + marginTop,
			W: area.W - marginLeft - marginRight,
			H: area.H - marginTop - marginBottom,
		},
		xMin: xMin, xMax: xMax,
		yMin: yMin, yMax: yMax,
	}

	dc.SetColor(colorText)
	if fr.title != "" {
		dc.SetFontFace(faces.title)
		dc.DrawStringAnchored(fr.title, area.X+area.W/2, area.Y+marginTop/2, 0.5, 0.5)
	}
	dc.SetFontFace(faces.label)
	if fr.xLabel != "" {
		dc.DrawStringAnchored(fr.xLabel, a.plot.X+a.plot.W/2, area.Y+area.H-10, 0.5, 0.5)
	}
	if fr.yLabel != "" {
		cx, cy := area.X+14, a.plot.Y+a.plot.H/2
		dc.Push()
		dc.RotateAbout(-math.Pi/2, cx, cy)
		dc.DrawStringAnchored(fr.yLabel, cx, cy, 0.5, 0.5)
		dc.Pop()
	}

	dc.SetFontFace(faces.tick)
	dc.SetLineWidth(1)
	for _, t := range ticks(yMin, yMax, 5) {
		y := a.y(t)
		dc.SetColor(colorGrid)
		dc.DrawLine(a.plot.X, y, a.plot.X+a.plot.W, y)
		dc.Stroke()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(formatTick(t), a.plot.X-6, y, 1, 0.5)
	}

	dc.SetColor(colorAxis)
	dc.DrawLine(a.plot.X, a.plot.Y, a.plot.X, a.plot.Y+a.plot.H)
	dc.DrawLine(a.plot.X, a.plot.Y+a.plot.H, a.plot.X+a.plot.W, a.plot.Y+a.plot.H)
	dc.Stroke()
	return a
}

// drawReference draws a dashed horizontal line at v with an optional label.
func drawReference(dc *gg.Context, a axes, faces *faceSet, v float64, label string) {
	y := a.y(v)
	dc.SetColor(ColorReference)
	dc.SetLineWidth(1.5)
	dc.SetDash(6, 4)
	dc.DrawLine(a.plot.X, y, a.plot.X+a.plot.W, y)
	dc.Stroke()
	dc.SetDash()
	if label != "" {
		dc.SetFontFace(faces.tick)
		dc.DrawStringAnchored(label, a.plot.X+a.plot.W-4, y-4, 1, 0)
	}
}

// ticks returns round tick values covering [lo, hi].
func ticks(lo, hi float64, n int) []float64 {
	if hi <= lo || n <= 0 {
		return []float64{lo}
	}
	step := niceStep((hi - lo) / float64(n))
	var out []float64
	for v := math.Ceil(lo/step) * step; v <= hi+step*1e-9; v += step {
		out = append(out, v)
	}
	return out
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / exp; {
	case f <= 1:
		return exp
	case f <= 2:
		return 2 * exp
	case f <= 5:
		return 5 * exp
	default:
		return 10 * exp
	}
}

func formatTick(v float64) string {
	if math.Abs(v) < 1e-12 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// labelStride is how many labels to skip so that text of width w fits in
// slots of the given width.
func labelStride(n int, slot, w float64) int {
	if n == 0 || slot <= 0 {
		return 1
	}
	return max(1, int(math.Ceil((w+6)/slot)))
}

func extent(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 1
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo, hi = min(lo, v), max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return lo, hi
}
