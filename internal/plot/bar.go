package plot

import (
	"image/color"
	"math"
	"slices"
	"strconv"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reference is a horizontal guide line, e.g. an expected value.
type Reference struct {
	Value float64
	Label string
}

type BarChart struct {
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Values []float64
	// Colors overrides the bar color by index.
	Colors    map[int]color.Color
	Color     color.Color
	Reference *Reference
}

func (b BarChart) draw(dc *gg.Context, area Rect, faces *faceSet) {
	lo, hi := extent(b.Values)
	lo = min(lo, 0)
	if b.Reference != nil {
		hi = max(hi, b.Reference.Value)
	}
	hi += (hi - lo) * 0.05

	n := len(b.Values)
	a := drawFrame(dc, area, faces, frame{b.Title, b.XLabel, b.YLabel}, 0, float64(max(n, 1)), lo, hi)
	if n == 0 {
		return
	}

	slot := a.plot.W / float64(n)
	barW := slot * 0.8
	base := a.y(0)
	for i, v := range b.Values {
		c := b.Color
		if c == nil {
			c = ColorBar
		}
		if override, ok := b.Colors[i]; ok {
			c = override
		}
		x := a.plot.X + float64(i)*slot + (slot-barW)/2
		y := a.y(v)
		dc.SetColor(c)
		dc.DrawRectangle(x, math.Min(y, base), barW, math.Abs(base-y))
		dc.Fill()
	}

	if len(b.Labels) > 0 {
		dc.SetFontFace(faces.tick)
		dc.SetColor(colorText)
		widest := 0.0
		for _, l := range b.Labels {
			w, _ := dc.MeasureString(l)
			widest = max(widest, w)
		}
		stride := labelStride(n, slot, widest)
		for i := 0; i < n && i < len(b.Labels); i += stride {
			dc.DrawStringAnchored(b.Labels[i], a.plot.X+(float64(i)+0.5)*slot, a.plot.Y+a.plot.H+12, 0.5, 0.5)
		}
	}

	if b.Reference != nil {
		drawReference(dc, a, faces, b.Reference.Value, b.Reference.Label)
	}
}

// Histogram bins Values into Bins equal-width buckets and draws them as bars.
type Histogram struct {
	Title  string
	XLabel string
	YLabel string
	Values []float64
	Bins   int
	Color  color.Color
}

func (h Histogram) draw(dc *gg.Context, area Rect, faces *faceSet) {
	edges, counts := BinCounts(h.Values, h.Bins)
	labels := make([]string, len(counts))
	for i := range counts {
		labels[i] = strconv.FormatFloat(edges[i], 'f', 0, 64)
	}
	BarChart{
		Title:  h.Title,
		XLabel: h.XLabel,
		YLabel: h.YLabel,
		Labels: labels,
		Values: counts,
		Color:  h.Color,
	}.draw(dc, area, faces)
}

// BinCounts splits the range of values into bins equal-width buckets and
// returns the bucket edges (bins+1) and counts (bins).
func BinCounts(values []float64, bins int) ([]float64, []float64) {
	if bins <= 0 {
		bins = 10
	}
	counts := make([]float64, bins)
	if len(values) == 0 {
		return floats.Span(make([]float64, bins+1), 0, 1), counts
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		hi = lo + 1
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	// The top value belongs to the last bucket.
	dividers := slices.Clone(edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	return edges, stat.Histogram(counts, dividers, sorted, nil)
}
