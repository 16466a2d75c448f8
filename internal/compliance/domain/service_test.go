package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverallMaturity(t *testing.T) {
	tests := []struct {
		name   string
		levels []int
		want   int
	}{
		{"all zero", []int{0, 0, 0, 0, 0, 0, 0, 0}, 0},
		{"all fully implemented", []int{3, 3, 3, 3, 3, 3, 3, 3}, 100},
		{"one partially implemented", []int{1, 0, 0, 0, 0, 0, 0, 0}, 4},
		{"one fully implemented", []int{3, 0, 0, 0, 0, 0, 0, 0}, 13},
		{"mixed", []int{3, 2, 2, 1, 0, 3, 1, 2}, 58},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallMaturity(tt.levels))
		})
	}
}
