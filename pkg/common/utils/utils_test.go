package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestChunkBySize(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		size int
		want [][]int
	}{
		{"empty", nil, 3, [][]int{}},
		{"exact", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"remainder", []int{1, 2, 3, 4, 5}, 2, [][]int{{1, 2}, {3, 4}, {5}}},
		{"non-positive size", []int{1, 2}, 0, [][]int{{1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkBySize(tt.in, tt.size))
		})
	}
}

func TestContestRange(t *testing.T) {
	assert.Equal(t, []int{5, 6, 7}, ContestRange(5, 7))
	assert.Equal(t, []int{9}, ContestRange(9, 9))
	assert.Nil(t, ContestRange(10, 9))
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 6,00", FormatBRL(decimal.NewFromInt(6)))
	assert.Equal(t, "R$ 30.000.000,00", FormatBRL(decimal.NewFromInt(30_000_000)))
	assert.Equal(t, "R$ 1.234,50", FormatBRL(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "-R$ 999,99", FormatBRL(decimal.RequireFromString("-999.99")))
}
