package lottery

import (
	"maps"
	"slices"

	"github.com/fystack/megasena-analyzer/pkg/common/types"
)

// History maps contest number to draw.
type History map[int]Draw

// Add inserts d unless the contest is already present. It reports whether the
// draw was added.
func (h History) Add(d Draw) bool {
	if _, ok := h[d.Contest]; ok {
		return false
	}
	h[d.Contest] = d
	return true
}

// Validate collects every invalid draw into one error.
func (h History) Validate() error {
	errs := &types.MultiError{}
	for _, c := range h.Contests() {
		if err := Validate(h[c]); err != nil {
			errs.Add(err)
		}
	}
	return errs.ErrOrNil()
}

func (h History) Contests() []int {
	return slices.Sorted(maps.Keys(h))
}

func (h History) MaxContest() int {
	latest := 0
	for c := range h {
		latest = max(latest, c)
	}
	return latest
}

// Ordered returns draws by ascending contest.
func (h History) Ordered() []Draw {
	out := make([]Draw, 0, len(h))
	for _, c := range h.Contests() {
		out = append(out, h[c])
	}
	return out
}

// Numbers returns the sorted numbers of every draw, oldest first.
func (h History) Numbers() [][]int {
	out := make([][]int, 0, len(h))
	for _, d := range h.Ordered() {
		out = append(out, d.Sorted())
	}
	return out
}

type Summary struct {
	TotalDraws    int    `json:"total_draws"`
	FirstContest  int    `json:"first_contest"`
	LastContest   int    `json:"last_contest"`
	TotalNumbers  int    `json:"total_numbers"`
	UniqueNumbers int    `json:"unique_numbers"`
	FirstDate     string `json:"first_date"`
	LastDate      string `json:"last_date"`
}

func (h History) Summary() Summary {
	if len(h) == 0 {
		return Summary{}
	}
	ordered := h.Ordered()
	first, last := ordered[0], ordered[len(ordered)-1]

	unique := make(map[int]struct{}, TotalNumbers)
	total := 0
	for _, d := range ordered {
		for _, n := range d.Sorted() {
			unique[n] = struct{}{}
			total++
		}
	}
	return Summary{
		TotalDraws:    len(ordered),
		FirstContest:  first.Contest,
		LastContest:   last.Contest,
		TotalNumbers:  total,
		UniqueNumbers: len(unique),
		FirstDate:     first.Date,
		LastDate:      last.Date,
	}
}
