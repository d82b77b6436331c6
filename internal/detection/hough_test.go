package detection

import (
	"image"
	"math"
	"testing"

	"github.com/docsmith/scanprep/internal/imaging"
)

// lineEdgeMap builds an edge map with an ideal line from (x1,y1) to
// (x2,y2), rasterized one pixel per column (or per row when steep)
func lineEdgeMap(width, height, x1, y1, x2, y2 int) *imaging.EdgeMap {
	edges := imaging.NewEdgeMap(width, height)
	dx := x2 - x1
	dy := y2 - y1
	steps := int(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))))
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		x := x1 + int(math.Round(f*float64(dx)))
		y := y1 + int(math.Round(f*float64(dy)))
		edges.Set(x, y)
	}
	return edges
}

func TestFindLines_Horizontal(t *testing.T) {
	edges := lineEdgeMap(120, 80, 10, 40, 110, 40)

	finder := NewHoughFinder()
	segments := finder.FindLines(edges, 50, 5)

	if len(segments) == 0 {
		t.Fatal("Expected at least one segment for a 100px horizontal line")
	}

	seg, ok := SelectHorizontal(segments, 20)
	if !ok {
		t.Fatal("Horizontal line not selected")
	}
	if math.Abs(seg.Angle) > 0.5 {
		t.Errorf("Expected angle ~0, got %.2f", seg.Angle)
	}
	if seg.Length < 90 {
		t.Errorf("Expected length ~100, got %.1f", seg.Length)
	}
}

func TestFindLines_TiltedAngleSign(t *testing.T) {
	// Line rising from left to right on screen: y decreases as x grows.
	// In the Y-up convention this is a positive angle near +5 degrees.
	const rise = 9 // over a 100px run: atan(9/100) ~ 5.1 degrees
	edges := lineEdgeMap(120, 80, 10, 45, 110, 45-rise)

	finder := NewHoughFinder()
	segments := finder.FindLines(edges, 50, 5)

	seg, ok := SelectHorizontal(segments, 20)
	if !ok {
		t.Fatal("Tilted line not selected")
	}

	want := math.Atan2(rise, 100) * 180 / math.Pi
	if math.Abs(seg.Angle-want) > 1.5 {
		t.Errorf("Expected angle ~%.2f, got %.2f", want, seg.Angle)
	}
	if seg.Angle <= 0 {
		t.Errorf("Rising line must have a positive angle, got %.2f", seg.Angle)
	}
}

func TestFindLines_MinLength(t *testing.T) {
	edges := lineEdgeMap(100, 60, 40, 30, 60, 30) // 20px line

	finder := NewHoughFinder()
	segments := finder.FindLines(edges, 50, 5)

	for _, seg := range segments {
		if seg.Length < 50 {
			t.Errorf("Segment shorter than min_line_length returned: %.1f", seg.Length)
		}
	}
}

func TestFindLines_GapMerging(t *testing.T) {
	// Dashed horizontal line: 20px dashes with 4px gaps.
	edges := imaging.NewEdgeMap(140, 60)
	for start := 10; start+20 <= 130; start += 24 {
		for x := start; x < start+20; x++ {
			edges.Set(x, 30)
		}
	}

	finder := NewHoughFinder()

	// Gaps of 4 missing pixels merge under max_line_gap=5.
	merged := finder.FindLines(edges, 80, 5)
	if len(merged) == 0 {
		t.Fatal("Dashes not merged into a single long segment")
	}
	if merged[0].Length < 100 {
		t.Errorf("Merged segment too short: %.1f", merged[0].Length)
	}

	// Under max_line_gap=1 the dashes stay separate and none reaches 80px.
	split := finder.FindLines(edges, 80, 1)
	if len(split) != 0 {
		t.Errorf("Expected no segments with max_line_gap=1, got %d (first %.1fpx)",
			len(split), split[0].Length)
	}
}

func TestFindLines_EmptyEdgeMap(t *testing.T) {
	edges := imaging.NewEdgeMap(80, 80)

	finder := NewHoughFinder()
	segments := finder.FindLines(edges, 50, 5)

	if len(segments) != 0 {
		t.Errorf("Expected no segments for an empty edge map, got %d", len(segments))
	}
}

func TestFindLines_Deterministic(t *testing.T) {
	edges := imaging.NewEdgeMap(120, 120)
	for x := 10; x < 110; x++ {
		edges.Set(x, 30)
		edges.Set(x, 90)
	}
	for y := 20; y < 100; y++ {
		edges.Set(60, y)
	}

	finder := NewHoughFinder()
	a := finder.FindLines(edges, 40, 3)
	b := finder.FindLines(edges, 40, 3)

	if len(a) != len(b) {
		t.Fatalf("Segment count differs between runs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Segment %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestFindLines_VerticalDetected(t *testing.T) {
	edges := lineEdgeMap(80, 120, 40, 10, 40, 110)

	finder := NewHoughFinder()
	segments := finder.FindLines(edges, 50, 5)

	if len(segments) == 0 {
		t.Fatal("Vertical line not detected")
	}
	found := false
	for _, seg := range segments {
		if math.Abs(seg.Angle) > 80 {
			found = true
		}
	}
	if !found {
		t.Error("Expected a segment with |angle| near 90 for a vertical line")
	}
}

func TestSegmentAngle_Normalization(t *testing.T) {
	cases := []struct {
		start, end image.Point
		want       float64
	}{
		{image.Point{X: 0, Y: 10}, image.Point{X: 100, Y: 10}, 0},
		{image.Point{X: 100, Y: 10}, image.Point{X: 0, Y: 10}, 0},
		{image.Point{X: 50, Y: 0}, image.Point{X: 50, Y: 100}, 90},
		{image.Point{X: 50, Y: 100}, image.Point{X: 50, Y: 0}, 90},
		{image.Point{X: 0, Y: 100}, image.Point{X: 100, Y: 0}, 45},
		{image.Point{X: 0, Y: 0}, image.Point{X: 100, Y: 100}, -45},
	}
	for _, tc := range cases {
		got := segmentAngle(tc.start, tc.end)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("segmentAngle(%v, %v) = %.2f, want %.2f", tc.start, tc.end, got, tc.want)
		}
		if got <= -90 || got > 90 {
			t.Errorf("Angle %.2f outside (-90, 90]", got)
		}
	}
}
