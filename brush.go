package portal

import "image"

// BrushType selects the shape stamped at each rasterization step.
type BrushType uint8

const (
	// BrushSquare stamps a w×w axis-aligned block whose top-left pixel
	// is (x-⌊w/2⌋, y-⌊w/2⌋).
	BrushSquare BrushType = iota

	// BrushCircular stamps every integer offset (dx, dy) with
	// dx²+dy² ≤ (w/2)², centered on the anchor.
	BrushCircular
)

// String returns the brush type name.
func (b BrushType) String() string {
	switch b {
	case BrushSquare:
		return "Square"
	case BrushCircular:
		return "Circular"
	default:
		return "Unknown"
	}
}

// brushOffsets returns the set of offsets around the anchor covered by
// a brush of the given type and width. Width is clamped to a minimum
// of 1.
func brushOffsets(b BrushType, width int) []image.Point {
	if width < 1 {
		width = 1
	}
	switch b {
	case BrushCircular:
		r := float64(width) / 2
		r2 := r * r
		lo, hi := -width/2-1, width/2+1
		var offs []image.Point
		for dy := lo; dy <= hi; dy++ {
			for dx := lo; dx <= hi; dx++ {
				if float64(dx*dx+dy*dy) <= r2 {
					offs = append(offs, image.Pt(dx, dy))
				}
			}
		}
		return offs
	default: // BrushSquare
		off := width / 2
		offs := make([]image.Point, 0, width*width)
		for dy := 0; dy < width; dy++ {
			for dx := 0; dx < width; dx++ {
				offs = append(offs, image.Pt(dx-off, dy-off))
			}
		}
		return offs
	}
}
