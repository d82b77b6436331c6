// Package detection finds straight line segments in edge maps and selects
// the reference line used for deskewing.
//
// # Line Finding
//
// HoughFinder implements a deterministic Hough transform over a binary edge
// map: every edge pixel votes for the (rho, theta) parameter cells of the
// lines passing through it, local maxima in the accumulator become line
// candidates, and the edge pixels supporting each candidate are traced into
// concrete segments. Collinear pieces separated by at most the configured
// gap are merged; segments shorter than the configured minimum are
// discarded. There is no randomized sampling, so a fixed image and
// configuration always produce the identical segment list.
//
// The finder sits behind the LineFinder interface so the detection backend
// can be swapped or tuned without touching the selector or the rotation
// stage.
//
// # Angle Convention
//
// Segment angles are measured in degrees from the horizontal with the
// screen Y axis negated (mathematical Y-up convention), normalized to
// (-90, 90]. A line that rises from left to right on screen has a positive
// angle; rotating the image by the negated angle makes it horizontal.
//
// # Selection
//
// SelectHorizontal applies the deskew policy: segments outside the
// near-horizontal tolerance window are not candidates, the longest
// remaining segment wins, and length ties go to the segment already
// closest to horizontal. Finding no candidate is a normal outcome reported
// through the boolean result, not an error.
package detection
