package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinomial(t *testing.T) {
	assert.Equal(t, int64(TotalCombinations), BinomialInt(60, 6))
	assert.Equal(t, int64(5005), BinomialInt(15, 6))
	assert.Equal(t, int64(1), BinomialInt(6, 6))
	assert.Zero(t, BinomialInt(5, 6))
	assert.Zero(t, BinomialInt(-1, 0))
}

func TestMatchProbabilitySumsToOne(t *testing.T) {
	total := 0.0
	for k := 0; k <= NumbersPerDraw; k++ {
		total += MatchProbability(k)
	}
	assert.InDelta(t, 1.0, total, 1e-12)
	assert.InDelta(t, 1.0/TotalCombinations, MatchProbability(6), 1e-18)
	assert.Zero(t, MatchProbability(7))
}

func TestBetMatchProbability(t *testing.T) {
	assert.InDelta(t, MatchProbability(4), BetMatchProbability(6, 4), 1e-15)
	// a 7-number bet covers 7 sena combinations
	assert.InDelta(t, 7.0/TotalCombinations, BetMatchProbability(7, 6), 1e-15)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		draw    Draw
		wantErr bool
	}{
		{"valid", NewDraw(1, "11/03/1996", []int{41, 5, 4, 52, 30, 33}), false},
		{"zero contest", NewDraw(0, "", []int{1, 2, 3, 4, 5, 6}), true},
		{"five numbers", NewDraw(2, "", []int{1, 2, 3, 4, 5}), true},
		{"duplicate", NewDraw(3, "", []int{1, 1, 3, 4, 5, 6}), true},
		{"out of range", NewDraw(4, "", []int{0, 2, 3, 4, 5, 6}), true},
		{"above 60", NewDraw(5, "", []int{61, 2, 3, 4, 5, 6}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.draw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDraw)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewDrawKeepsDrawOrder(t *testing.T) {
	d := NewDraw(1, "11/03/1996", []int{41, 5, 4, 52, 30, 33})
	assert.Equal(t, []int{41, 5, 4, 52, 30, 33}, d.Numbers)
	assert.Equal(t, []int{4, 5, 30, 33, 41, 52}, d.Sorted())

	ts, ok := d.Time()
	require.True(t, ok)
	assert.Equal(t, 1996, ts.Year())
	assert.Equal(t, 3, int(ts.Month()))
}

func TestHistory(t *testing.T) {
	h := History{}
	assert.True(t, h.Add(NewDraw(2, "16/03/1996", []int{9, 39, 37, 49, 43, 41})))
	assert.True(t, h.Add(NewDraw(1, "11/03/1996", []int{41, 5, 4, 52, 30, 33})))
	assert.False(t, h.Add(NewDraw(1, "x", []int{1, 2, 3, 4, 5, 6})), "append-only")

	assert.Equal(t, []int{1, 2}, h.Contests())
	assert.Equal(t, 2, h.MaxContest())
	assert.Equal(t, [][]int{
		{4, 5, 30, 33, 41, 52},
		{9, 37, 39, 41, 43, 49},
	}, h.Numbers())

	s := h.Summary()
	assert.Equal(t, Summary{
		TotalDraws:    2,
		FirstContest:  1,
		LastContest:   2,
		TotalNumbers:  12,
		UniqueNumbers: 11,
		FirstDate:     "11/03/1996",
		LastDate:      "16/03/1996",
	}, s)
	assert.NoError(t, h.Validate())
	assert.Equal(t, Summary{}, History{}.Summary())
}

func TestHistoryValidateAggregates(t *testing.T) {
	h := History{
		1: NewDraw(1, "", []int{1, 2, 3, 4, 5, 6}),
		2: NewDraw(2, "", []int{1, 1, 3, 4, 5, 6}),
		3: NewDraw(3, "", []int{1, 2, 3}),
	}
	err := h.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDraw)
	assert.Contains(t, err.Error(), "contest 3")
}

func TestOverlap(t *testing.T) {
	assert.Equal(t, 2, Overlap([]int{1, 2, 3}, []int{3, 2, 60}))
	assert.Zero(t, Overlap(nil, []int{1}))
}

func TestFrequenciesAndDelays(t *testing.T) {
	draws := [][]int{
		{1, 2, 3, 4, 5, 6},
		{1, 7, 8, 9, 10, 11},
		{2, 7, 12, 13, 14, 15},
	}
	freq := Frequencies(draws)
	assert.Len(t, freq, TotalNumbers+1)
	assert.Equal(t, 2, freq[1])
	assert.Equal(t, 2, freq[7])
	assert.Equal(t, 1, freq[15])
	assert.Zero(t, freq[60])

	delay := CurrentDelays(draws)
	assert.Zero(t, delay[2])
	assert.Equal(t, 1, delay[1])
	assert.Equal(t, 2, delay[6])
	assert.Equal(t, 3, delay[60])
}

func TestRankByCount(t *testing.T) {
	counts := make([]int, TotalNumbers+1)
	counts[10] = 5
	counts[3] = 5
	counts[7] = 9
	assert.Equal(t, []int{7, 3, 10}, TopNumbers(counts, 3, true))

	counts = make([]int, TotalNumbers+1)
	for n := 1; n <= TotalNumbers; n++ {
		counts[n] = 1
	}
	counts[40] = 0
	assert.Equal(t, []int{40, 1, 2}, TopNumbers(counts, 3, false))
}
