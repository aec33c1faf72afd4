package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/displayhop/internal/types"
)

func sum(moves []types.Delta) types.Delta {
	var total types.Delta
	for _, m := range moves {
		total.DX += m.DX
		total.DY += m.DY
	}
	return total
}

func TestSplitDelta_Zero(t *testing.T) {
	assert.Nil(t, SplitDelta(types.Delta{}, 20, 1))
}

func TestSplitDelta_Examples(t *testing.T) {
	tests := []struct {
		name     string
		delta    types.Delta
		maxSteps int
		minPx    int
		want     []types.Delta
	}{
		{
			name:     "single pixel",
			delta:    types.Delta{DX: 1},
			maxSteps: 20,
			minPx:    1,
			want:     []types.Delta{{DX: 1}, {}},
		},
		{
			name:     "fewer pixels than max steps",
			delta:    types.Delta{DX: 3, DY: -2},
			maxSteps: 20,
			minPx:    1,
			want:     []types.Delta{{DX: 1}, {DX: 1}, {DX: 1}, {DY: -2}},
		},
		{
			name:     "capped at max steps with remainder",
			delta:    types.Delta{DX: 7, DY: 0},
			maxSteps: 2,
			minPx:    1,
			want:     []types.Delta{{DX: 3}, {DX: 3}, {DX: 1}},
		},
		{
			name:     "min pixels per step reduces steps",
			delta:    types.Delta{DX: -10},
			maxSteps: 20,
			minPx:    4,
			want:     []types.Delta{{DX: -5}, {DX: -5}, {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitDelta(tt.delta, tt.maxSteps, tt.minPx))
		})
	}
}

func TestSplitDelta_SumIsExact(t *testing.T) {
	for _, maxSteps := range []int{1, 2, 3, 7, 20, 64} {
		for _, minPx := range []int{1, 2, 5} {
			for dx := -45; dx <= 45; dx += 7 {
				for dy := -31; dy <= 31; dy += 5 {
					delta := types.Delta{DX: dx, DY: dy}
					moves := SplitDelta(delta, maxSteps, minPx)
					if delta.IsZero() {
						assert.Empty(t, moves)
						continue
					}
					assert.Equal(t, delta, sum(moves), "delta %v maxSteps %d minPx %d", delta, maxSteps, minPx)
					assert.LessOrEqual(t, len(moves), maxSteps+1)
				}
			}
		}
	}
}
