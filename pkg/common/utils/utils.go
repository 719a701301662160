package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ChunkBySize splits slice into chunks with maximum size 'chunkSize'
func ChunkBySize[T any](slice []T, chunkSize int) [][]T {
	if len(slice) == 0 {
		return [][]T{}
	}
	if chunkSize <= 0 {
		return [][]T{slice}
	}

	chunks := make([][]T, 0, (len(slice)+chunkSize-1)/chunkSize)
	for i := 0; i < len(slice); i += chunkSize {
		end := min(i+chunkSize, len(slice))
		chunks = append(chunks, slice[i:end])
	}
	return chunks
}

// ContestRange returns from..to inclusive, or nil when to < from.
func ContestRange(from, to int) []int {
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, n)
	}
	return out
}

// FormatBRL renders a money value as "R$ 1.234.567,89".
func FormatBRL(v decimal.Decimal) string {
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	sign := ""
	if v.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}
