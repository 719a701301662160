package timeseries

import (
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

var (
	low  = []int{1, 2, 3, 4, 5, 6}
	high = []int{55, 56, 57, 58, 59, 60}
)

func undated(history ...[]int) []lottery.Draw {
	return FromNumbers(history)
}

func TestPrepare(t *testing.T) {
	draws := []lottery.Draw{
		lottery.NewDraw(1, "11/03/1996", []int{52, 4, 30, 33, 41, 5}),
		lottery.NewDraw(2, "", low),
		lottery.NewDraw(3, "not a date", high),
	}
	s, err := Prepare(draws)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	p := s.Points[0]
	assert.Equal(t, 165, p.Sum)
	assert.Equal(t, 52, p.Max)
	assert.Equal(t, 4, p.Min)
	assert.Equal(t, 48, p.Range)
	assert.Equal(t, 3, p.Even)
	assert.Equal(t, 3, p.Odd)
	assert.Equal(t, [6]int{2, 0, 1, 1, 1, 1}, p.Decades)
	assert.Equal(t, 1996, p.Year)
	assert.Equal(t, 3, p.Month)
	assert.Equal(t, 1, p.Quarter)
	assert.Equal(t, 71, p.DayOfYear)

	assert.Equal(t, time.Date(1996, time.March, 18, 0, 0, 0, 0, time.UTC), s.Points[1].Date)
	assert.Equal(t, time.Date(1996, time.March, 25, 0, 0, 0, 0, time.UTC), s.Points[2].Date)
	assert.Equal(t, 6, s.Points[2].Decades[5])

	_, err = Prepare(nil)
	assert.ErrorIs(t, err, lottery.ErrInsufficientData)
}

func TestCenteredMean(t *testing.T) {
	trend, first := centeredMean([]float64{1, 2, 3, 4, 5, 6}, 4)
	assert.Equal(t, 2, first)
	assert.Equal(t, []float64{2.5, 3.5, 4.5}, trend)

	trend, first = centeredMean([]float64{1, 2, 3, 4, 5}, 3)
	assert.Equal(t, 1, first)
	assert.Equal(t, []float64{2, 3, 4}, trend)

	trend, _ = centeredMean([]float64{1, 2}, 3)
	assert.Nil(t, trend)
}

func TestDecomposeIdentity(t *testing.T) {
	var history [][]int
	for i := range 80 {
		if i%3 == 0 {
			history = append(history, high)
		} else {
			history = append(history, []int{1, 2, 3, 4, 5, 7 + i%50})
		}
	}
	s, err := Prepare(undated(history...))
	require.NoError(t, err)

	d := s.Decompose(MetricSum)
	assert.Equal(t, 20, d.Window)
	assert.Equal(t, 40, d.Period)
	assert.Len(t, d.Trend, 80-20+1)
	for i, v := range d.Original {
		trend := d.TrendAt(i)
		if math.IsNaN(trend) {
			trend = 0
		}
		assert.InDelta(t, v, trend+d.Seasonal[i]+d.Residual[i], 1e-9)
	}
	assert.GreaterOrEqual(t, d.SeasonalStrength, 0.0)
	assert.LessOrEqual(t, d.Quality, 1.0)
}

func TestDecomposeConstant(t *testing.T) {
	var history [][]int
	for range 20 {
		history = append(history, low)
	}
	s, err := Prepare(undated(history...))
	require.NoError(t, err)

	d := s.Decompose(MetricSum)
	assert.Equal(t, 5, d.Window)
	assert.Equal(t, 10, d.Period)
	assert.Equal(t, 2, d.TrendOffset)
	assert.Zero(t, d.TrendSlope)
	assert.Zero(t, d.Quality)
	assert.Zero(t, d.SeasonalStrength)
	assert.True(t, math.IsNaN(d.TrendAt(1)))
	assert.InDelta(t, 21, d.TrendAt(2), 1e-9)
	assert.True(t, math.IsNaN(d.TrendAt(18)))
}

func TestCyclesFindPeriod(t *testing.T) {
	var history [][]int
	for i := range 64 {
		if i%4 < 2 {
			history = append(history, low)
		} else {
			history = append(history, high)
		}
	}
	s, err := Prepare(undated(history...))
	require.NoError(t, err)

	cycles := s.Cycles()
	require.Len(t, cycles, len(CycleMetrics))
	sum := cycles[0]
	assert.Equal(t, MetricSum, sum.Metric)
	require.NotEmpty(t, sum.DominantPeriods)
	assert.InDelta(t, 4.0, sum.DominantPeriods[0], 1e-9)
	assert.InDelta(t, 0.25, sum.Peaks[0].Frequency, 1e-9)

	short, err := Prepare(undated(low, high))
	require.NoError(t, err)
	assert.Empty(t, short.Cycles()[0].Peaks)
}

func TestPeriodsLongestFirst(t *testing.T) {
	peaks := []SpectralPeak{
		{Frequency: 0.25, Power: 90},
		{Frequency: 0.1, Power: 40},
		{Frequency: 0.02, Power: 30},
		{Frequency: 0.5, Power: 20},
		{Frequency: 0.125, Power: 10},
		{Frequency: 1.0 / 16, Power: 1e-12},
	}
	// Period 50 is above n/2 and the period 16 peak is noise.
	got := periodsOf(peaks, 64)
	require.Len(t, got, 3)
	assert.InDelta(t, 10, got[0], 1e-9)
	assert.InDelta(t, 8, got[1], 1e-9)
	assert.InDelta(t, 4, got[2], 1e-9)

	assert.Empty(t, periodsOf(nil, 64))
}

func TestSeasonal(t *testing.T) {
	var draws []lottery.Draw
	contest := 1
	for month := 1; month <= 12; month++ {
		for _, day := range []int{5, 20} {
			nums := []int{1, 2, 3, 4, 5, month + 5}
			draws = append(draws, lottery.NewDraw(contest, fmt.Sprintf("%02d/%02d/2020", day, month), nums))
			contest++
		}
	}
	s, err := Prepare(draws)
	require.NoError(t, err)

	a := s.Seasonal()
	require.Len(t, a.Monthly, 12)
	require.Len(t, a.Quarterly, 4)
	require.Len(t, a.Yearly, 1)
	assert.Equal(t, 2020, a.Yearly[0].Key)
	assert.Equal(t, 6, a.Quarterly[0].Count)
	assert.InDelta(t, 21.0, a.Monthly[0].Sum.Mean, 1e-9)
	assert.Zero(t, a.Monthly[0].Sum.StdDev)

	require.Len(t, a.Tests, len(SeasonalMetrics))
	assert.True(t, a.Tests[0].Seasonal)
	assert.True(t, a.Detected())
	assert.Equal(t, 12, a.Summary.HighestSumMonth)
	assert.Equal(t, 1, a.Summary.LowestSumMonth)
}

func TestTrends(t *testing.T) {
	var history [][]int
	for i := range 30 {
		history = append(history, []int{1, 2, 3, 4, 5, 6 + i})
	}
	s, err := Prepare(undated(history...))
	require.NoError(t, err)

	trends := s.Trends()
	require.Len(t, trends, len(TrendMetrics))
	sum := trends[0]
	assert.Equal(t, MetricSum, sum.Metric)
	assert.Equal(t, DirectionUp, sum.Direction)
	assert.InDelta(t, 1.0, sum.Regression.Slope, 1e-9)
	assert.InDelta(t, 1.0, sum.Strength, 1e-9)
	assert.True(t, sum.Significant)

	even := trends[2]
	assert.Equal(t, MetricEven, even.Metric)
	assert.False(t, even.Significant)
}

func TestAnomalies(t *testing.T) {
	var history [][]int
	for range 30 {
		history = append(history, low)
	}
	history = append(history, high)
	s, err := Prepare(undated(history...))
	require.NoError(t, err)

	anomalies := s.Anomalies()
	require.Len(t, anomalies, len(AnomalyMetrics))
	sum := anomalies[0]
	assert.Equal(t, []int{30}, sum.Outliers)
	assert.Equal(t, []int{30}, sum.Extremes)
	assert.InDelta(t, 100.0/31, sum.OutlierPercentage, 1e-9)
	assert.Zero(t, sum.Bounds.IQR)
}

func TestReport(t *testing.T) {
	var history [][]int
	for i := range 60 {
		history = append(history, []int{1 + i%10, 12, 23, 34, 45, 56})
	}
	dir := t.TempDir()
	res, err := Report(undated(history...), dir)
	require.NoError(t, err)

	assert.Equal(t, 60, res.Summary.TotalDraws)
	assert.Equal(t, FirstDrawDate, res.Summary.Start)
	assert.Len(t, res.Plots, 2)
	assert.Equal(t, 2, res.Summary.Plots)
	for _, p := range res.Plots {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
	assert.InDelta(t, 1.0, res.DataQuality.Completeness, 1e-9)
	assert.Zero(t, res.DataQuality.Dated)
}
