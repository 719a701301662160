package lottery

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TotalNumbers   = 60
	NumbersPerDraw = 6
	MinBetSize     = 6
	MaxBetSize     = 15

	DateLayout = "02/01/2006"
)

var (
	ErrInvalidDraw = errors.New("invalid draw")
	// ErrInsufficientData is returned by analyses that need more draws.
	ErrInsufficientData = errors.New("insufficient data")
)

// Draw is one published result.
type Draw struct {
	Contest          int             `json:"contest"`
	Date             string          `json:"date"`
	Numbers          []int           `json:"numbers"`
	NumbersSorted    []int           `json:"numbers_sorted"`
	Accumulated      bool            `json:"accumulated"`
	AccumulatedValue decimal.Decimal `json:"accumulated_value"`
	JackpotWinners   int             `json:"jackpot_winners"`
	JackpotPrize     decimal.Decimal `json:"jackpot_prize"`
	Location         string          `json:"location,omitempty"`
	Note             string          `json:"note,omitempty"`
}

// NewDraw builds a draw from numbers in draw order and fills the sorted copy.
func NewDraw(contest int, date string, numbers []int) Draw {
	sorted := slices.Clone(numbers)
	slices.Sort(sorted)
	return Draw{
		Contest:       contest,
		Date:          date,
		Numbers:       slices.Clone(numbers),
		NumbersSorted: sorted,
	}
}

// Validate reports whether d has a positive contest and exactly six distinct
// numbers in [1,60].
func Validate(d Draw) error {
	if d.Contest <= 0 {
		return fmt.Errorf("%w: contest %d must be positive", ErrInvalidDraw, d.Contest)
	}
	nums := d.NumbersSorted
	if len(nums) == 0 {
		nums = d.Numbers
	}
	if len(nums) != NumbersPerDraw {
		return fmt.Errorf("%w: contest %d has %d numbers", ErrInvalidDraw, d.Contest, len(nums))
	}
	if err := ValidateNumbers(nums, NumbersPerDraw); err != nil {
		return fmt.Errorf("contest %d: %w", d.Contest, err)
	}
	return nil
}

// ValidateNumbers checks a combination of size numbers.
func ValidateNumbers(nums []int, size int) error {
	if len(nums) != size {
		return fmt.Errorf("%w: want %d numbers, got %d", ErrInvalidDraw, size, len(nums))
	}
	var seen [TotalNumbers + 1]bool
	for _, n := range nums {
		if n < 1 || n > TotalNumbers {
			return fmt.Errorf("%w: number %d out of range [1,%d]", ErrInvalidDraw, n, TotalNumbers)
		}
		if seen[n] {
			return fmt.Errorf("%w: duplicate number %d", ErrInvalidDraw, n)
		}
		seen[n] = true
	}
	return nil
}

// Sorted returns the ascending numbers of d.
func (d Draw) Sorted() []int {
	if len(d.NumbersSorted) > 0 {
		return d.NumbersSorted
	}
	sorted := slices.Clone(d.Numbers)
	slices.Sort(sorted)
	return sorted
}

func (d Draw) Time() (time.Time, bool) {
	return ParseDate(d.Date)
}

func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
