package blend

// SourceOver composites a straight-alpha source pixel over a
// straight-alpha destination pixel.
//
// Alpha:  Ra = Sa + Da*(1-Sa)
// Color:  Rc = (Sc*Sa + Dc*Da*(1-Sa)) / Ra
//
// The division by the result alpha is what keeps the stored channels
// straight. A fully transparent result is canonicalized to zeroed
// channels so buffer comparisons stay bitwise-stable.
func SourceOver(sr, sg, sb, sa, dr, dg, db, da uint8) (r, g, b, a uint8) {
	if sa == 0 && da == 0 {
		return 0, 0, 0, 0
	}
	if sa == 255 || da == 0 {
		return sr, sg, sb, sa
	}
	if sa == 0 {
		return dr, dg, db, da
	}

	inv := uint32(255 - sa)
	// Contribution weights, each in [0, 255*255]; keeping the full
	// product avoids truncating small destination weights to zero.
	ws := uint32(sa) * 255
	wd := uint32(da) * inv

	ra := ws + wd
	if ra == 0 {
		return 0, 0, 0, 0
	}

	// Rounded division by the result alpha.
	r = uint8((uint32(sr)*ws + uint32(dr)*wd + ra/2) / ra)
	g = uint8((uint32(sg)*ws + uint32(dg)*wd + ra/2) / ra)
	b = uint8((uint32(sb)*ws + uint32(db)*wd + ra/2) / ra)
	a = uint8((ra + 127) / 255)
	return r, g, b, a
}

// DestinationOut removes source coverage from the destination: the
// destination keeps its color but loses alpha where the source is
// opaque. This is the erase operator.
//
// Alpha: Ra = Da*(1-Sa)
func DestinationOut(sa, dr, dg, db, da uint8) (r, g, b, a uint8) {
	ra := Mul255(da, 255-sa)
	if ra == 0 {
		return 0, 0, 0, 0
	}
	return dr, dg, db, ra
}

// ScaleAlpha applies a layer opacity in [0, 255] to a source alpha.
func ScaleAlpha(sa, opacity uint8) uint8 {
	if opacity == 255 {
		return sa
	}
	return Mul255(sa, opacity)
}
