package portal

import (
	"image"
	"math"
	"sort"
)

// Selection is a region of pixels eligible for mutation, stored as a
// 1-bit mask over the document grid. An empty selection means "no
// restriction" at the tool level; the mask itself covers no pixel.
//
// Authoring happens through AddRect, AddEllipse, and AddPolygon, which
// rasterize shapes into the mask; composition happens through Union,
// Subtract, Intersect, and Invert. Every operation is inherently
// clipped to [0,W)×[0,H): the mask has no storage outside the grid.
//
// The mask is the single source of truth for "inside"; the row runs
// produced by Runs are derived from it and used for serialization.
type Selection struct {
	width  int
	height int
	mask   []uint8 // 0 or 1 per pixel
}

// Run is a horizontal span of selected pixels: y row, x in [X0, X1).
type Run struct {
	Y, X0, X1 int
}

// NewSelection creates an empty selection over a W×H grid.
func NewSelection(width, height int) *Selection {
	if width <= 0 || height <= 0 {
		panic("portal: selection dimensions must be positive")
	}
	return &Selection{
		width:  width,
		height: height,
		mask:   make([]uint8, width*height),
	}
}

// Width returns the grid width.
func (s *Selection) Width() int { return s.width }

// Height returns the grid height.
func (s *Selection) Height() int { return s.height }

// Empty reports whether the selection covers no pixel.
func (s *Selection) Empty() bool {
	if s == nil {
		return true
	}
	for _, v := range s.mask {
		if v != 0 {
			return false
		}
	}
	return true
}

// Contains reports whether the pixel (x, y) is selected.
// Out-of-grid coordinates are never selected.
func (s *Selection) Contains(x, y int) bool {
	if s == nil || x < 0 || x >= s.width || y < 0 || y >= s.height {
		return false
	}
	return s.mask[y*s.width+x] != 0
}

// ContainsPoint reports whether pt is selected.
func (s *Selection) ContainsPoint(pt image.Point) bool {
	return s.Contains(pt.X, pt.Y)
}

// Count returns the number of selected pixels.
func (s *Selection) Count() int {
	n := 0
	for _, v := range s.mask {
		if v != 0 {
			n++
		}
	}
	return n
}

// BoundingRect returns the tight bounds of the selected pixels, or the
// zero rectangle when empty.
func (s *Selection) BoundingRect() image.Rectangle {
	minX, minY := s.width, s.height
	maxX, maxY := -1, -1
	for y := 0; y < s.height; y++ {
		row := s.mask[y*s.width : (y+1)*s.width]
		for x, v := range row {
			if v == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			maxY = y
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Clone returns a deep copy.
func (s *Selection) Clone() *Selection {
	if s == nil {
		return nil
	}
	out := NewSelection(s.width, s.height)
	copy(out.mask, s.mask)
	return out
}

// Simplified returns the canonical form of the selection. The mask
// representation is already canonical (empty ⇔ covers no pixel), so
// this returns a clone.
func (s *Selection) Simplified() *Selection { return s.Clone() }

// Union adds every pixel of other to s. Grids must match; mismatched
// grids are ignored.
func (s *Selection) Union(other *Selection) {
	if other == nil || other.width != s.width || other.height != s.height {
		return
	}
	for i, v := range other.mask {
		if v != 0 {
			s.mask[i] = 1
		}
	}
}

// Subtract removes every pixel of other from s.
func (s *Selection) Subtract(other *Selection) {
	if other == nil || other.width != s.width || other.height != s.height {
		return
	}
	for i, v := range other.mask {
		if v != 0 {
			s.mask[i] = 0
		}
	}
}

// Intersect keeps only pixels present in both s and other.
func (s *Selection) Intersect(other *Selection) {
	if other == nil || other.width != s.width || other.height != s.height {
		return
	}
	for i := range s.mask {
		if other.mask[i] == 0 {
			s.mask[i] = 0
		}
	}
}

// Invert flips membership of every pixel within the document grid.
func (s *Selection) Invert() {
	for i, v := range s.mask {
		if v == 0 {
			s.mask[i] = 1
		} else {
			s.mask[i] = 0
		}
	}
}

// Translate shifts the selection by (dx, dy). Pixels shifted outside
// the grid are dropped.
func (s *Selection) Translate(dx, dy int) {
	out := make([]uint8, len(s.mask))
	for y := 0; y < s.height; y++ {
		ny := y + dy
		if ny < 0 || ny >= s.height {
			continue
		}
		for x := 0; x < s.width; x++ {
			if s.mask[y*s.width+x] == 0 {
				continue
			}
			nx := x + dx
			if nx < 0 || nx >= s.width {
				continue
			}
			out[ny*s.width+nx] = 1
		}
	}
	s.mask = out
}

// AddRect selects every pixel of rect (clipped to the grid).
func (s *Selection) AddRect(rect image.Rectangle) {
	rect = rect.Intersect(image.Rect(0, 0, s.width, s.height))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := s.mask[y*s.width : (y+1)*s.width]
		for x := rect.Min.X; x < rect.Max.X; x++ {
			row[x] = 1
		}
	}
}

// AddEllipse selects the filled ellipse inscribed in the inclusive
// bounds spanned by a and b.
func (s *Selection) AddEllipse(a, b image.Point) {
	x0, x1 := minmax(a.X, b.X)
	y0, y1 := minmax(a.Y, b.Y)
	cx := float64(x0+x1) / 2
	cy := float64(y0+y1) / 2
	rx := float64(x1-x0) / 2
	ry := float64(y1-y0) / 2
	if rx == 0 || ry == 0 {
		s.AddRect(image.Rect(x0, y0, x1+1, y1+1))
		return
	}
	for y := y0; y <= y1; y++ {
		fy := (float64(y) - cy) / ry
		if fy*fy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-fy*fy)
		xa := int(math.Ceil(cx - half))
		xb := int(math.Floor(cx + half))
		s.AddRect(image.Rect(xa, y, xb+1, y+1))
	}
}

// AddPolygon selects the filled polygon with the given integer
// vertices (closed implicitly), including its outline pixels. Interior
// membership uses even-odd crossings evaluated at pixel centers.
func (s *Selection) AddPolygon(pts []image.Point) {
	if len(pts) == 0 {
		return
	}
	if len(pts) == 1 {
		s.AddRect(image.Rect(pts[0].X, pts[0].Y, pts[0].X+1, pts[0].Y+1))
		return
	}

	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= s.height {
		maxY = s.height - 1
	}

	xs := make([]float64, 0, len(pts))
	for y := minY; y <= maxY; y++ {
		cyf := float64(y) + 0.5
		xs = xs[:0]
		for i := range pts {
			p1 := pts[i]
			p2 := pts[(i+1)%len(pts)]
			y1, y2 := float64(p1.Y), float64(p2.Y)
			if y1 == y2 {
				continue
			}
			if (cyf >= y1 && cyf < y2) || (cyf >= y2 && cyf < y1) {
				t := (cyf - y1) / (y2 - y1)
				xs = append(xs, float64(p1.X)+t*float64(p2.X-p1.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xa := int(math.Ceil(xs[i] - 0.5))
			xb := int(math.Floor(xs[i+1] - 0.5))
			s.AddRect(image.Rect(xa, y, xb+1, y+1))
		}
	}

	// Include the outline so thin or degenerate polygons still select
	// the pixels the user traced.
	for i := range pts {
		s.addLine(pts[i], pts[(i+1)%len(pts)])
	}
}

// addLine selects the DDA line from a to b.
func (s *Selection) addLine(a, b image.Point) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := maxInt(absInt(dx), absInt(dy))
	if steps == 0 {
		s.AddRect(image.Rect(a.X, a.Y, a.X+1, a.Y+1))
		return
	}
	xInc := float64(dx) / float64(steps)
	yInc := float64(dy) / float64(steps)
	x, y := float64(a.X), float64(a.Y)
	for i := 0; i <= steps; i++ {
		px, py := int(math.Round(x)), int(math.Round(y))
		if px >= 0 && px < s.width && py >= 0 && py < s.height {
			s.mask[py*s.width+px] = 1
		}
		x += xInc
		y += yInc
	}
}

// OnBorder reports whether pt lies within tolerance (Euclidean, in
// document units) of the selection boundary. A boundary pixel is a
// selected pixel with at least one unselected 4-neighbor; the grid
// edge counts as unselected. Used by selection tools to detect a
// drag-to-move of the selection itself.
func (s *Selection) OnBorder(pt image.Point, tolerance float64) bool {
	if s == nil || tolerance < 0 {
		return false
	}
	r := int(math.Ceil(tolerance))
	tol2 := tolerance * tolerance
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if float64(dx*dx+dy*dy) > tol2 {
				continue
			}
			x, y := pt.X+dx, pt.Y+dy
			if s.isBoundary(x, y) {
				return true
			}
		}
	}
	return false
}

func (s *Selection) isBoundary(x, y int) bool {
	if !s.Contains(x, y) {
		return false
	}
	return !s.Contains(x-1, y) || !s.Contains(x+1, y) ||
		!s.Contains(x, y-1) || !s.Contains(x, y+1)
}

// SelectionFromColor builds a selection of all pixels of img whose color equals
// the color at seed. Contiguous mode runs a 4-connected flood from the
// seed; otherwise every matching pixel is selected globally. Returns
// nil when the seed is outside the image.
func SelectionFromColor(img *Pixmap, seed image.Point, contiguous bool) *Selection {
	if img == nil || !img.Contains(seed.X, seed.Y) {
		return nil
	}
	s := NewSelection(img.Width(), img.Height())
	target := img.GetPixel(seed.X, seed.Y)

	if !contiguous {
		for y := 0; y < s.height; y++ {
			for x := 0; x < s.width; x++ {
				if img.GetPixel(x, y) == target {
					s.mask[y*s.width+x] = 1
				}
			}
		}
		return s
	}

	visited := make([]bool, s.width*s.height)
	queue := []image.Point{seed}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		idx := p.Y*s.width + p.X
		if visited[idx] {
			continue
		}
		visited[idx] = true
		if img.GetPixel(p.X, p.Y) != target {
			continue
		}
		s.mask[idx] = 1
		if p.X > 0 {
			queue = append(queue, image.Pt(p.X-1, p.Y))
		}
		if p.X+1 < s.width {
			queue = append(queue, image.Pt(p.X+1, p.Y))
		}
		if p.Y > 0 {
			queue = append(queue, image.Pt(p.X, p.Y-1))
		}
		if p.Y+1 < s.height {
			queue = append(queue, image.Pt(p.X, p.Y+1))
		}
	}
	return s
}

// SelectionFromOpaque builds a selection of every pixel of img with nonzero
// alpha.
func SelectionFromOpaque(img *Pixmap) *Selection {
	if img == nil {
		return nil
	}
	s := NewSelection(img.Width(), img.Height())
	data := img.Data()
	for i := range s.mask {
		if data[i*4+3] != 0 {
			s.mask[i] = 1
		}
	}
	return s
}

// Runs returns the selection as sorted horizontal runs. Used for
// serialization and structural comparison.
func (s *Selection) Runs() []Run {
	if s == nil {
		return nil
	}
	var runs []Run
	for y := 0; y < s.height; y++ {
		row := s.mask[y*s.width : (y+1)*s.width]
		x := 0
		for x < s.width {
			if row[x] == 0 {
				x++
				continue
			}
			start := x
			for x < s.width && row[x] != 0 {
				x++
			}
			runs = append(runs, Run{Y: y, X0: start, X1: x})
		}
	}
	return runs
}

// SetRuns replaces the selection contents with the given runs, clipped
// to the grid.
func (s *Selection) SetRuns(runs []Run) {
	for i := range s.mask {
		s.mask[i] = 0
	}
	for _, r := range runs {
		if r.Y < 0 || r.Y >= s.height {
			continue
		}
		x0 := maxInt(r.X0, 0)
		x1 := minInt(r.X1, s.width)
		for x := x0; x < x1; x++ {
			s.mask[r.Y*s.width+x] = 1
		}
	}
}

func minmax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
