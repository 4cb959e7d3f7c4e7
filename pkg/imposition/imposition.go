// Package imposition computes how many identical pieces fit on a production
// sheet in a single uniform grid. It is not a general 2D nesting solver:
// pieces within one sheet share a single orientation.
package imposition

import "math"

// Orientation reports which piece orientation produced the winning layout.
type Orientation string

const (
	OrientationNone    Orientation = "none"
	OrientationNormal  Orientation = "normal"
	OrientationRotated Orientation = "rotated"
)

// Layout is the result of a sheet layout computation.
type Layout struct {
	PiecesPerSheet int
	Orientation    Orientation
}

const fitEpsilon = 1e-9

// Compute lays pieceW×pieceH pieces on a sheetW×sheetH sheet, shrinking the
// usable area by 2×bleed per axis and spacing pieces by gutter. Both the
// unrotated and the 90°-rotated piece are evaluated; rotation wins only when
// it yields strictly more pieces.
func Compute(pieceW, pieceH, sheetW, sheetH, bleed, gutter float64) Layout {
	if pieceW <= 0 || pieceH <= 0 || sheetW <= 0 || sheetH <= 0 {
		return Layout{PiecesPerSheet: 0, Orientation: OrientationNone}
	}

	usableW := sheetW - 2*bleed
	usableH := sheetH - 2*bleed
	if usableW <= 0 || usableH <= 0 {
		return Layout{PiecesPerSheet: 0, Orientation: OrientationNone}
	}

	normal := gridCount(usableW, pieceW, gutter) * gridCount(usableH, pieceH, gutter)
	rotated := gridCount(usableW, pieceH, gutter) * gridCount(usableH, pieceW, gutter)

	if rotated > normal {
		return Layout{PiecesPerSheet: rotated, Orientation: OrientationRotated}
	}
	if normal == 0 {
		return Layout{PiecesPerSheet: 0, Orientation: OrientationNone}
	}
	return Layout{PiecesPerSheet: normal, Orientation: OrientationNormal}
}

// gridCount returns the largest count such that
// count×piece + (count−1)×gutter ≤ usable. Candidates are walked downward
// from the upper estimate floor((usable+gutter)/(piece+gutter)).
func gridCount(usable, piece, gutter float64) int {
	if piece > usable {
		return 0
	}
	// The estimate can undershoot by one near exact float fits, so start one
	// above; the fit test rejects anything too large.
	estimate := int(math.Floor((usable+gutter)/(piece+gutter))) + 1
	for count := estimate; count > 0; count-- {
		needed := float64(count)*piece + float64(count-1)*gutter
		if needed <= usable+fitEpsilon {
			return count
		}
	}
	return 0
}
