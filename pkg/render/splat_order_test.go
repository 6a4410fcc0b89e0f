package render

import "testing"

func TestSortBackToFront(t *testing.T) {
	splats := []ProjectedSplat{
		{X: 1, Depth: 2},
		{X: 2, Depth: 10},
		{X: 3, Depth: 5},
		{X: 4, Depth: 10},
	}
	SortBackToFront(splats)

	wantX := []float64{2, 4, 3, 1}
	for i, s := range splats {
		if s.X != wantX[i] {
			t.Errorf("splats[%d].X = %v, want %v", i, s.X, wantX[i])
		}
	}
}

func TestScreenRadius(t *testing.T) {
	tests := []struct {
		name                            string
		worldRadius, depth, focal, minR float64
		want                            float64
	}{
		{"near splat", 0.1, 2, 500, 1, 25},
		{"far splat clamps to min", 0.01, 100, 500, 1, 1},
		{"behind camera", 0.1, 0, 500, 1.5, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScreenRadius(tt.worldRadius, tt.depth, tt.focal, tt.minR); got != tt.want {
				t.Errorf("ScreenRadius() = %v, want %v", got, tt.want)
			}
		})
	}
}
