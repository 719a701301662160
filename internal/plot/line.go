package plot

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

type Series struct {
	Name   string
	Values []float64
	Color  color.Color
	Width  float64
}

// LineChart plots every series against its index.
type LineChart struct {
	Title     string
	XLabel    string
	YLabel    string
	Series    []Series
	Reference *Reference
}

func (l LineChart) draw(dc *gg.Context, area Rect, faces *faceSet) {
	var (
		all    []float64
		length int
	)
	for _, s := range l.Series {
		all = append(all, s.Values...)
		length = max(length, len(s.Values))
	}
	lo, hi := extent(all)
	if l.Reference != nil {
		lo, hi = min(lo, l.Reference.Value), max(hi, l.Reference.Value)
	}
	pad := (hi - lo) * 0.05
	a := drawFrame(dc, area, faces, frame{l.Title, l.XLabel, l.YLabel}, 0, float64(max(length-1, 1)), lo-pad, hi+pad)

	dc.SetFontFace(faces.tick)
	dc.SetColor(colorText)
	for _, t := range ticks(0, float64(max(length-1, 1)), 6) {
		dc.DrawStringAnchored(formatTick(t), a.x(t), a.plot.Y+a.plot.H+12, 0.5, 0.5)
	}

	for i, s := range l.Series {
		c := s.Color
		if c == nil {
			c = Palette[i%len(Palette)]
		}
		width := s.Width
		if width <= 0 {
			width = 1.2
		}
		dc.SetColor(c)
		dc.SetLineWidth(width)
		started := false
		for j, v := range s.Values {
			if math.IsNaN(v) {
				started = false
				continue
			}
			if !started {
				dc.MoveTo(a.x(float64(j)), a.y(v))
				started = true
				continue
			}
			dc.LineTo(a.x(float64(j)), a.y(v))
		}
		dc.Stroke()
	}

	if l.Reference != nil {
		drawReference(dc, a, faces, l.Reference.Value, l.Reference.Label)
	}
	l.drawLegend(dc, a, faces)
}

func (l LineChart) drawLegend(dc *gg.Context, a axes, faces *faceSet) {
	if len(l.Series) < 2 {
		return
	}
	dc.SetFontFace(faces.tick)
	y := a.plot.Y + 10
	for i, s := range l.Series {
		if s.Name == "" {
			continue
		}
		c := s.Color
		if c == nil {
			c = Palette[i%len(Palette)]
		}
		w, _ := dc.MeasureString(s.Name)
		x := a.plot.X + a.plot.W - w - 30
		dc.SetColor(c)
		dc.SetLineWidth(2)
		dc.DrawLine(x, y, x+18, y)
		dc.Stroke()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(s.Name, x+22, y, 0, 0.5)
		y += 14
	}
}
