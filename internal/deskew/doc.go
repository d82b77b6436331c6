// Package deskew orchestrates the line-detection and rotation pipeline
// that straightens scanned pages.
//
// The engine finds the dominant near-horizontal line in a page (a ruled
// margin, table border, or text baseline), derives a signed rotation angle
// from it, and rotates the image by the negated angle so the line becomes
// exactly horizontal. Every invocation is a pure function of (image,
// Config): no state survives between calls and concurrent use needs no
// synchronization.
//
// # Sign Convention
//
// Angles are counter-clockwise positive. A line rising from left to right
// on screen has a positive detected angle and produces a negative
// RotationAngle (a clockwise correction), matching the invariant
// RotationAngle == -Line.Angle.
package deskew
