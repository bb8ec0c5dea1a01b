package analytics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSparklinePointsMapping(t *testing.T) {
	pts := SparklinePoints([]float64{0, 0.5, 1}, 100, 30)
	if len(pts) != 3 {
		t.Fatalf("points = %d, want 3", len(pts))
	}

	wantX := []float64{0, 50, 100}
	wantY := []float64{30, 15, 0} // inverted: stronger draws higher
	for i := range pts {
		if !almostEqual(pts[i].X, wantX[i]) {
			t.Errorf("pts[%d].X = %v, want %v", i, pts[i].X, wantX[i])
		}
		if !almostEqual(pts[i].Y, wantY[i]) {
			t.Errorf("pts[%d].Y = %v, want %v", i, pts[i].Y, wantY[i])
		}
	}
}

func TestSparklinePointsSpansFullWidth(t *testing.T) {
	series := make([]float64, 20)
	pts := SparklinePoints(series, 120, 40)
	if !almostEqual(pts[0].X, 0) {
		t.Errorf("first x = %v, want 0", pts[0].X)
	}
	if !almostEqual(pts[len(pts)-1].X, 120) {
		t.Errorf("last x = %v, want 120", pts[len(pts)-1].X)
	}
}

func TestSparklinePointsDegenerate(t *testing.T) {
	if pts := SparklinePoints(nil, 100, 30); pts != nil {
		t.Errorf("nil series should yield nil, got %v", pts)
	}
	if pts := SparklinePoints([]float64{0.7}, 100, 30); pts != nil {
		t.Errorf("single sample should yield nil, got %v", pts)
	}
}
