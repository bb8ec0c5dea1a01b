package analytics

// Point is one sparkline vertex in screen coordinates (y grows down).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SparklinePoints maps an intensity series onto a width by height box.
// Sample index maps linearly to x; intensity maps to y inverted, so
// stronger signals draw higher. Fewer than two samples cannot form a
// line and yield nil.
func SparklinePoints(series []float64, width, height float64) []Point {
	if len(series) < 2 {
		return nil
	}
	step := width / float64(len(series)-1)
	pts := make([]Point, len(series))
	for i, v := range series {
		pts[i] = Point{X: float64(i) * step, Y: height * (1 - v)}
	}
	return pts
}
