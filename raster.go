package portal

import (
	"image"
	"math"
)

// StrokeParams carries the shared drawing parameters consumed by the
// rasterizer. A nil Clip means no restriction. MirrorX/MirrorY
// additionally apply every stamp at the document-mirrored positions.
//
// All rasterization is deterministic and nearest-neighbor: integer
// coordinates in, exact pixels out. No anti-aliasing anywhere.
type StrokeParams struct {
	Color   Color
	Width   int
	Brush   BrushType
	Erase   bool
	MirrorX bool
	MirrorY bool
	Clip    *Selection
}

// mirrorPoints returns the anchor together with its enabled mirror
// images across the pixmap axes, deduplicated so a stamp on the mirror
// line is not applied twice.
func mirrorPoints(p *Pixmap, pt image.Point, mirrorX, mirrorY bool) []image.Point {
	pts := []image.Point{pt}
	add := func(q image.Point) {
		for _, e := range pts {
			if e == q {
				return
			}
		}
		pts = append(pts, q)
	}
	if mirrorX {
		add(image.Pt(p.Width()-1-pt.X, pt.Y))
	}
	if mirrorY {
		add(image.Pt(pt.X, p.Height()-1-pt.Y))
	}
	if mirrorX && mirrorY {
		add(image.Pt(p.Width()-1-pt.X, p.Height()-1-pt.Y))
	}
	return pts
}

// stampOne writes the brush at a single anchor, without mirroring.
func stampOne(p *Pixmap, pt image.Point, sp StrokeParams) {
	for _, off := range brushOffsets(sp.Brush, sp.Width) {
		x, y := pt.X+off.X, pt.Y+off.Y
		if sp.Clip != nil && !sp.Clip.Contains(x, y) {
			continue
		}
		if sp.Erase {
			p.ErasePixel(x, y)
		} else {
			p.BlendPixel(x, y, sp.Color)
		}
	}
}

// DrawBrush stamps the brush at pt and, as enabled, at its mirrored
// positions. Writes outside the clip selection are suppressed at the
// pixel level.
func DrawBrush(p *Pixmap, pt image.Point, sp StrokeParams) {
	for _, q := range mirrorPoints(p, pt, sp.MirrorX, sp.MirrorY) {
		stampOne(p, q, sp)
	}
}

// DrawLine stamps the brush at every pixel of the DDA line from a to
// b, stepping max(|Δx|, |Δy|) times with both endpoints included. The
// degenerate case a == b stamps once.
func DrawLine(p *Pixmap, a, b image.Point, sp StrokeParams) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := maxInt(absInt(dx), absInt(dy))
	if steps == 0 {
		DrawBrush(p, a, sp)
		return
	}
	xInc := float64(dx) / float64(steps)
	yInc := float64(dy) / float64(steps)
	x, y := float64(a.X), float64(a.Y)
	for i := 0; i <= steps; i++ {
		DrawBrush(p, image.Pt(int(math.Round(x)), int(math.Round(y))), sp)
		x += xInc
		y += yInc
	}
}

// DrawPolyline stamps the brush along consecutive point pairs. A
// single point stamps once.
func DrawPolyline(p *Pixmap, pts []image.Point, sp StrokeParams) {
	switch len(pts) {
	case 0:
		return
	case 1:
		DrawBrush(p, pts[0], sp)
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		DrawLine(p, pts[i], pts[i+1], sp)
	}
}

// DrawRect strokes the axis-aligned rectangle outline spanned by the
// inclusive corners a and b, as four brushed line segments.
func DrawRect(p *Pixmap, a, b image.Point, sp StrokeParams) {
	x0, x1 := minmax(a.X, b.X)
	y0, y1 := minmax(a.Y, b.Y)
	tl := image.Pt(x0, y0)
	tr := image.Pt(x1, y0)
	br := image.Pt(x1, y1)
	bl := image.Pt(x0, y1)
	DrawLine(p, tl, tr, sp)
	DrawLine(p, tr, br, sp)
	DrawLine(p, br, bl, sp)
	DrawLine(p, bl, tl, sp)
}

// FillRect fills the interior of the rectangle spanned by the
// inclusive corners a and b as a solid block, honoring clip and
// mirrors per pixel.
func FillRect(p *Pixmap, a, b image.Point, sp StrokeParams) {
	x0, x1 := minmax(a.X, b.X)
	y0, y1 := minmax(a.Y, b.Y)
	one := sp
	one.Width = 1
	one.Brush = BrushSquare
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			DrawBrush(p, image.Pt(x, y), one)
		}
	}
}

// DrawEllipse strokes the ellipse inscribed in the inclusive bounds
// spanned by a and b, via a parametric scan over both axes. When the
// ellipse is degenerate (rx or ry is zero) it falls back to a line
// between the anchors.
func DrawEllipse(p *Pixmap, a, b image.Point, sp StrokeParams) {
	x0, x1 := minmax(a.X, b.X)
	y0, y1 := minmax(a.Y, b.Y)
	cx := float64(x0+x1) / 2
	cy := float64(y0+y1) / 2
	rx := float64(x1-x0) / 2
	ry := float64(y1-y0) / 2

	if rx == 0 || ry == 0 {
		DrawLine(p, a, b, sp)
		return
	}

	for x := x0; x <= x1; x++ {
		f := (float64(x) - cx) / rx
		h := ry * math.Sqrt(1-f*f)
		DrawBrush(p, image.Pt(x, int(math.Round(cy-h))), sp)
		DrawBrush(p, image.Pt(x, int(math.Round(cy+h))), sp)
	}
	for y := y0; y <= y1; y++ {
		f := (float64(y) - cy) / ry
		w := rx * math.Sqrt(1-f*f)
		DrawBrush(p, image.Pt(int(math.Round(cx-w)), y), sp)
		DrawBrush(p, image.Pt(int(math.Round(cx+w)), y), sp)
	}
}

// FloodFill runs a 4-connected BFS from seed, replacing the seed's
// color with fill inside the optional clip selection. Filling a color
// equal to the fill color is a no-op. Returns the modified pixels as
// row runs; an empty result means nothing changed.
func FloodFill(p *Pixmap, seed image.Point, fill Color, clip *Selection) []Run {
	if !p.Contains(seed.X, seed.Y) {
		return nil
	}
	if clip != nil && !clip.ContainsPoint(seed) {
		return nil
	}
	target := p.GetPixel(seed.X, seed.Y)
	if target == fill {
		return nil
	}

	w, h := p.Width(), p.Height()
	visited := make([]bool, w*h)
	queue := []image.Point{seed}
	touched := NewSelection(w, h)

	for len(queue) > 0 {
		pt := queue[0]
		queue = queue[1:]
		idx := pt.Y*w + pt.X
		if visited[idx] {
			continue
		}
		visited[idx] = true
		if clip != nil && !clip.ContainsPoint(pt) {
			continue
		}
		if p.GetPixel(pt.X, pt.Y) != target {
			continue
		}
		p.SetPixel(pt.X, pt.Y, fill)
		touched.mask[idx] = 1

		if pt.X > 0 {
			queue = append(queue, image.Pt(pt.X-1, pt.Y))
		}
		if pt.X+1 < w {
			queue = append(queue, image.Pt(pt.X+1, pt.Y))
		}
		if pt.Y > 0 {
			queue = append(queue, image.Pt(pt.X, pt.Y-1))
		}
		if pt.Y+1 < h {
			queue = append(queue, image.Pt(pt.X, pt.Y+1))
		}
	}
	return touched.Runs()
}

// StrokeBounds computes the bounding rectangle of a brushed poly-line:
// the AABB of the points and their enabled mirror images, inflated by
// the brush width plus a 1-pixel margin, clipped to the pixmap bounds.
// Commands use this to capture minimal undo snapshots.
func StrokeBounds(p *Pixmap, pts []image.Point, sp StrokeParams) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	bounds := image.Rectangle{Min: pts[0], Max: pts[0].Add(image.Pt(1, 1))}
	for _, pt := range pts {
		for _, q := range mirrorPoints(p, pt, sp.MirrorX, sp.MirrorY) {
			bounds = bounds.Union(image.Rectangle{Min: q, Max: q.Add(image.Pt(1, 1))})
		}
	}
	pad := sp.Width + 1
	bounds = bounds.Inset(-pad)
	return bounds.Intersect(p.Rect())
}
