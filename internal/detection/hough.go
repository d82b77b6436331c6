package detection

import (
	"image"
	"math"
	"sort"

	"github.com/docsmith/scanprep/internal/imaging"
)

// Segment is a detected line segment in image pixel coordinates.
type Segment struct {
	Start  image.Point `json:"start"`
	End    image.Point `json:"end"`
	Length float64     `json:"length"`
	Angle  float64     `json:"angle"`
}

// LineFinder produces line segments from a binary edge map. Segments
// shorter than minLineLength are discarded; collinear pieces separated by
// at most maxLineGap pixels are merged into one segment. Implementations
// must be deterministic: a fixed edge map and parameters always yield the
// identical segment list. An empty result is a normal outcome.
type LineFinder interface {
	FindLines(edges *imaging.EdgeMap, minLineLength, maxLineGap float64) []Segment
}

// HoughFinder is the default LineFinder, an accumulator-based Hough
// transform with 1-pixel rho and 1-degree theta resolution.
type HoughFinder struct {
	// MaxSegments bounds the number of returned segments to keep
	// pathological inputs (dense grids, noise) from producing unbounded
	// output. Candidates are processed in accumulator scan order, so the
	// bound does not change which segments exist, only how many are kept.
	MaxSegments int
}

// NewHoughFinder returns a HoughFinder with the default segment cap.
func NewHoughFinder() *HoughFinder {
	return &HoughFinder{MaxSegments: 200}
}

// pointTolerance is the maximum normal distance, in pixels, for an edge
// pixel to count as supporting a candidate line.
const pointTolerance = 2.0

// FindLines implements LineFinder.
//
// Every edge pixel votes for the (rho, theta) cells of the lines through
// it; cells that are local maxima above the vote threshold become
// candidates; the supporting pixels of each candidate are projected along
// the line direction and split into runs wherever more than maxLineGap
// consecutive pixels are missing. Segments are returned in discovery order
// (accumulator scan order), not ranked by significance.
func (f *HoughFinder) FindLines(edges *imaging.EdgeMap, minLineLength, maxLineGap float64) []Segment {
	width := edges.Width
	height := edges.Height

	points := make([]image.Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges.At(x, y) {
				points = append(points, image.Point{X: x, Y: y})
			}
		}
	}
	if len(points) == 0 {
		return nil
	}

	// Vote in Hough space
	maxDist := int(math.Sqrt(float64(width*width + height*height)))
	const numAngles = 180
	accumulator := make([][]int, maxDist*2)
	for i := range accumulator {
		accumulator[i] = make([]int, numAngles)
	}

	sinTab := make([]float64, numAngles)
	cosTab := make([]float64, numAngles)
	for theta := 0; theta < numAngles; theta++ {
		rad := float64(theta) * math.Pi / 180.0
		sinTab[theta] = math.Sin(rad)
		cosTab[theta] = math.Cos(rad)
	}

	for _, p := range points {
		for theta := 0; theta < numAngles; theta++ {
			rho := float64(p.X)*cosTab[theta] + float64(p.Y)*sinTab[theta]
			rhoIdx := int(rho) + maxDist
			if rhoIdx >= 0 && rhoIdx < maxDist*2 {
				accumulator[rhoIdx][theta]++
			}
		}
	}

	voteThreshold := int(minLineLength / 2)
	if voteThreshold < 10 {
		voteThreshold = 10
	}

	maxSegments := f.MaxSegments
	if maxSegments <= 0 {
		maxSegments = 200
	}

	segments := make([]Segment, 0)
	for rhoIdx := 0; rhoIdx < maxDist*2 && len(segments) < maxSegments; rhoIdx++ {
		for theta := 0; theta < numAngles && len(segments) < maxSegments; theta++ {
			if accumulator[rhoIdx][theta] < voteThreshold {
				continue
			}
			if !isLocalMax(accumulator, rhoIdx, theta, maxDist*2, numAngles) {
				continue
			}
			segments = appendRuns(segments, points, float64(rhoIdx-maxDist),
				cosTab[theta], sinTab[theta], minLineLength, maxLineGap, maxSegments)
		}
	}
	return segments
}

// isLocalMax reports whether the accumulator cell dominates its 5x5
// neighborhood (theta wraps around).
func isLocalMax(acc [][]int, rhoIdx, theta, numRho, numAngles int) bool {
	for dr := -2; dr <= 2; dr++ {
		for dt := -2; dt <= 2; dt++ {
			if dr == 0 && dt == 0 {
				continue
			}
			nr := rhoIdx + dr
			nt := (theta + dt + numAngles) % numAngles
			if nr >= 0 && nr < numRho && acc[nr][nt] > acc[rhoIdx][theta] {
				return false
			}
		}
	}
	return true
}

// appendRuns traces the edge pixels supporting the line (rho, theta) and
// appends one segment per contiguous run that satisfies the length and gap
// constraints.
func appendRuns(segments []Segment, points []image.Point, rho, cosA, sinA,
	minLineLength, maxLineGap float64, maxSegments int) []Segment {

	type projected struct {
		p image.Point
		t float64
	}
	onLine := make([]projected, 0)
	for _, p := range points {
		dist := math.Abs(float64(p.X)*cosA + float64(p.Y)*sinA - rho)
		if dist < pointTolerance {
			// Position along the line direction (-sin, cos)
			t := -float64(p.X)*sinA + float64(p.Y)*cosA
			onLine = append(onLine, projected{p: p, t: t})
		}
	}
	if len(onLine) < 2 {
		return segments
	}

	sort.Slice(onLine, func(i, j int) bool {
		if onLine[i].t != onLine[j].t {
			return onLine[i].t < onLine[j].t
		}
		if onLine[i].p.X != onLine[j].p.X {
			return onLine[i].p.X < onLine[j].p.X
		}
		return onLine[i].p.Y < onLine[j].p.Y
	})

	runStart := 0
	for i := 1; i <= len(onLine); i++ {
		// A gap of g missing pixels between consecutive supporters shows up
		// as a projection step of g+1.
		if i < len(onLine) && onLine[i].t-onLine[i-1].t-1 <= maxLineGap {
			continue
		}
		if seg, ok := makeSegment(onLine[runStart].p, onLine[i-1].p, minLineLength); ok {
			segments = append(segments, seg)
			if len(segments) >= maxSegments {
				return segments
			}
		}
		runStart = i
	}
	return segments
}

// makeSegment builds a Segment from run endpoints, rejecting runs shorter
// than minLineLength.
func makeSegment(start, end image.Point, minLineLength float64) (Segment, bool) {
	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	length := math.Hypot(dx, dy)
	if length < minLineLength {
		return Segment{}, false
	}
	return Segment{
		Start:  start,
		End:    end,
		Length: length,
		Angle:  segmentAngle(start, end),
	}, true
}

// segmentAngle returns the angle in degrees from horizontal, Y-up
// convention, normalized to (-90, 90].
func segmentAngle(start, end image.Point) float64 {
	dx := float64(end.X - start.X)
	dy := -float64(end.Y - start.Y) // screen Y grows downward
	deg := math.Atan2(dy, dx) * 180 / math.Pi
	if deg <= -90 {
		deg += 180
	} else if deg > 90 {
		deg -= 180
	}
	return deg
}
