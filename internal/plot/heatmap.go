package plot

import (
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"
)

// Heatmap draws a square matrix with a blue-white-red scale. When Min and
// Max are both zero the scale is symmetric around zero.
type Heatmap struct {
	Title     string
	Matrix    [][]float64
	Min, Max  float64
	TickEvery int
}

func (h Heatmap) draw(dc *gg.Context, area Rect, faces *faceSet) {
	n := len(h.Matrix)
	lo, hi := h.Min, h.Max
	if lo == 0 && hi == 0 {
		for _, row := range h.Matrix {
			for _, v := range row {
				if !math.IsNaN(v) {
					hi = max(hi, math.Abs(v))
				}
			}
		}
		lo = -hi
	}
	if hi <= lo {
		hi = lo + 1
	}

	dc.SetColor(colorText)
	dc.SetFontFace(faces.title)
	dc.DrawStringAnchored(h.Title, area.X+area.W/2, area.Y+marginTop/2, 0.5, 0.5)
	if n == 0 {
		return
	}

	const colorbarW = 16.0
	side := math.Min(area.W-marginLeft-marginRight-colorbarW-50, area.H-marginTop-marginBottom)
	cell := side / float64(n)
	ox := area.X + marginLeft + (area.W-marginLeft-marginRight-colorbarW-50-side)/2
	oy := area.Y + marginTop

	for i, row := range h.Matrix {
		for j, v := range row {
			if j >= n {
				break
			}
			dc.SetColor(diverging((v - lo) / (hi - lo)))
			dc.DrawRectangle(ox+float64(j)*cell, oy+float64(i)*cell, math.Ceil(cell), math.Ceil(cell))
			dc.Fill()
		}
	}

	every := h.TickEvery
	if every <= 0 {
		every = 1
		if n > 20 {
			every = 10
		}
	}
	dc.SetFontFace(faces.tick)
	dc.SetColor(colorText)
	for i := every - 1; i < n; i += every {
		label := strconv.Itoa(i + 1)
		c := (float64(i) + 0.5) * cell
		dc.DrawStringAnchored(label, ox+c, oy+side+10, 0.5, 0.5)
		dc.DrawStringAnchored(label, ox-6, oy+c, 1, 0.5)
	}

	bx := ox + side + 24
	const steps = 64
	for s := range steps {
		t := 1 - float64(s)/steps
		dc.SetColor(diverging(t))
		dc.DrawRectangle(bx, oy+float64(s)*side/steps, colorbarW, math.Ceil(side/steps))
		dc.Fill()
	}
	dc.SetColor(colorText)
	dc.DrawStringAnchored(formatTick(hi), bx+colorbarW+4, oy, 0, 0.5)
	dc.DrawStringAnchored(formatTick(lo), bx+colorbarW+4, oy+side, 0, 0.5)
}

// diverging maps t in [0,1] onto blue, white, red.
func diverging(t float64) color.Color {
	if math.IsNaN(t) {
		t = 0.5
	}
	t = math.Max(0, math.Min(1, t))
	blue := [3]float64{59, 76, 192}
	red := [3]float64{180, 4, 38}
	white := [3]float64{245, 245, 245}
	from, to, f := blue, white, t*2
	if t > 0.5 {
		from, to, f = white, red, (t-0.5)*2
	}
	mix := func(k int) uint8 {
		return uint8(math.Round(from[k] + (to[k]-from[k])*f))
	}
	return color.RGBA{R: mix(0), G: mix(1), B: mix(2), A: 255}
}
