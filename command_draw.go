package portal

import "image"

// regionSnapshot captures the pixels of a layer region for exact
// reversal. Per the history memory policy, a region smaller than half
// the layer stores only the sub-buffer plus its top-left offset.
type regionSnapshot struct {
	rect image.Rectangle
	img  *Pixmap
}

// captureRegion snapshots rect of p (clipped to bounds). An empty rect
// captures the whole buffer.
func captureRegion(p *Pixmap, rect image.Rectangle) regionSnapshot {
	full := p.Rect()
	rect = rect.Intersect(full)
	if rect.Empty() || rect.Dx()*rect.Dy()*2 >= full.Dx()*full.Dy() {
		return regionSnapshot{rect: full, img: p.Clone()}
	}
	return regionSnapshot{rect: rect, img: p.SubPixmap(rect)}
}

// restore writes the captured pixels back over their region.
func (s regionSnapshot) restore(p *Pixmap) {
	if s.img == nil {
		return
	}
	p.PasteSource(s.img, s.rect.Min.X, s.rect.Min.Y)
}

// DrawStroke rasterizes a brushed poly-line onto a layer. All
// parameters, including mirror flags and the clip selection, are baked
// in at construction; undo restores the pre-stroke pixels over the
// stroke's bounding rectangle.
type DrawStroke struct {
	doc    *Document
	layer  *Layer
	points []image.Point
	params StrokeParams
	bounds image.Rectangle

	captured bool
	before   regionSnapshot
}

// NewDrawStroke captures a stroke command. The points and the clip
// selection are copied so later tool state cannot leak in.
func NewDrawStroke(doc *Document, layer *Layer, points []image.Point, params StrokeParams) *DrawStroke {
	pts := make([]image.Point, len(points))
	copy(pts, points)
	params.Clip = params.Clip.Clone()
	return &DrawStroke{
		doc:    doc,
		layer:  layer,
		points: pts,
		params: params,
		bounds: StrokeBounds(layer.Image, pts, params),
	}
}

// Execute implements Command.
func (c *DrawStroke) Execute() error {
	if len(c.points) == 0 || c.bounds.Empty() {
		return nil
	}
	if !c.captured {
		c.before = captureRegion(c.layer.Image, c.bounds)
		c.captured = true
	}
	DrawPolyline(c.layer.Image, c.points, c.params)
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Undo implements Command.
func (c *DrawStroke) Undo() {
	if !c.captured {
		return
	}
	c.before.restore(c.layer.Image)
	c.doc.Changed.Emit(struct{}{})
}

// ShapeType selects the outline drawn by a Shape command.
type ShapeType uint8

const (
	// ShapeRectangle strokes an axis-aligned rectangle outline.
	ShapeRectangle ShapeType = iota
	// ShapeEllipse strokes the inscribed ellipse outline.
	ShapeEllipse
)

// Shape rasterizes a rectangle or ellipse outline (or a filled
// rectangle) spanned by two inclusive corners. Same capture and replay
// discipline as DrawStroke.
type Shape struct {
	doc    *Document
	layer  *Layer
	a, b   image.Point
	shape  ShapeType
	fill   bool
	params StrokeParams
	bounds image.Rectangle

	captured bool
	before   regionSnapshot
}

// NewShape captures a shape command between inclusive corners a and b.
func NewShape(doc *Document, layer *Layer, a, b image.Point, shape ShapeType, fill bool, params StrokeParams) *Shape {
	params.Clip = params.Clip.Clone()
	corners := []image.Point{a, b, {X: a.X, Y: b.Y}, {X: b.X, Y: a.Y}}
	return &Shape{
		doc:    doc,
		layer:  layer,
		a:      a,
		b:      b,
		shape:  shape,
		fill:   fill,
		params: params,
		bounds: StrokeBounds(layer.Image, corners, params),
	}
}

// Execute implements Command.
func (c *Shape) Execute() error {
	if c.bounds.Empty() {
		return nil
	}
	if !c.captured {
		c.before = captureRegion(c.layer.Image, c.bounds)
		c.captured = true
	}
	switch {
	case c.shape == ShapeRectangle && c.fill:
		FillRect(c.layer.Image, c.a, c.b, c.params)
	case c.shape == ShapeRectangle:
		DrawRect(c.layer.Image, c.a, c.b, c.params)
	default:
		DrawEllipse(c.layer.Image, c.a, c.b, c.params)
	}
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Undo implements Command.
func (c *Shape) Undo() {
	if !c.captured {
		return
	}
	c.before.restore(c.layer.Image)
	c.doc.Changed.Emit(struct{}{})
}

// Fill flood-fills from a seed point and its enabled mirror images.
// The prior buffer is captured over the fill's bounding rectangle on
// first execute.
type Fill struct {
	doc   *Document
	layer *Layer
	seeds []image.Point
	color Color
	clip  *Selection

	captured bool
	before   regionSnapshot
}

// NewFill captures a fill command. Mirror flags expand the seed into
// its mirrored positions at construction time.
func NewFill(doc *Document, layer *Layer, seed image.Point, color Color, mirrorX, mirrorY bool, clip *Selection) *Fill {
	return &Fill{
		doc:   doc,
		layer: layer,
		seeds: mirrorPoints(layer.Image, seed, mirrorX, mirrorY),
		color: color,
		clip:  clip.Clone(),
	}
}

// WouldApply reports whether executing the fill would change any
// pixel. The bucket tool uses this to avoid pushing no-op commands.
func (c *Fill) WouldApply() bool {
	for _, seed := range c.seeds {
		if !c.layer.Image.Contains(seed.X, seed.Y) {
			continue
		}
		if c.clip != nil && !c.clip.ContainsPoint(seed) {
			continue
		}
		if c.layer.Image.GetPixel(seed.X, seed.Y) != c.color {
			return true
		}
	}
	return false
}

// Execute implements Command.
func (c *Fill) Execute() error {
	if !c.captured {
		// The fill's extent is unknown until it runs, so snapshot the
		// full buffer, run, then keep only the touched bounds.
		whole := c.layer.Image.Clone()
		bounds := image.Rectangle{}
		for _, seed := range c.seeds {
			for _, r := range FloodFill(c.layer.Image, seed, c.color, c.clip) {
				bounds = bounds.Union(image.Rect(r.X0, r.Y, r.X1, r.Y+1))
			}
		}
		c.before = regionSnapshot{rect: bounds, img: whole.SubPixmap(bounds)}
		if !bounds.Empty() && bounds.Dx()*bounds.Dy()*2 >= c.layer.Image.Width()*c.layer.Image.Height() {
			c.before = regionSnapshot{rect: c.layer.Image.Rect(), img: whole}
		}
		c.captured = true
		logger().Debug("fill executed", "seeds", len(c.seeds), "bounds", bounds)
	} else {
		for _, seed := range c.seeds {
			FloodFill(c.layer.Image, seed, c.color, c.clip)
		}
	}
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Undo implements Command.
func (c *Fill) Undo() {
	if !c.captured {
		return
	}
	c.before.restore(c.layer.Image)
	c.doc.Changed.Emit(struct{}{})
}

// ClearLayer fills the selected region of a layer (or the whole layer)
// with transparent.
type ClearLayer struct {
	doc       *Document
	layer     *Layer
	selection *Selection

	captured bool
	before   regionSnapshot
}

// NewClearLayer captures a clear command.
func NewClearLayer(doc *Document, layer *Layer, selection *Selection) *ClearLayer {
	return &ClearLayer{doc: doc, layer: layer, selection: selection.Clone()}
}

// Execute implements Command.
func (c *ClearLayer) Execute() error {
	if !c.captured {
		rect := c.layer.Image.Rect()
		if c.selection != nil && !c.selection.Empty() {
			rect = c.selection.BoundingRect()
		}
		c.before = captureRegion(c.layer.Image, rect)
		c.captured = true
	}
	c.layer.Clear(c.selection)
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Undo implements Command.
func (c *ClearLayer) Undo() {
	if !c.captured {
		return
	}
	c.before.restore(c.layer.Image)
	c.doc.Changed.Emit(struct{}{})
}

// extractSelected returns a document-sized pixmap holding only the
// selected pixels of src; with a nil selection, a full clone.
func extractSelected(src *Pixmap, sel *Selection) *Pixmap {
	if sel == nil || sel.Empty() {
		return src.Clone()
	}
	out := NewPixmap(src.Width(), src.Height())
	for _, r := range sel.Runs() {
		for x := r.X0; x < r.X1; x++ {
			out.SetPixel(x, r.Y, src.GetPixel(x, r.Y))
		}
	}
	return out
}

// Move translates the selected content of a layer (or the whole layer
// when no selection exists) by an integer delta. Undo restores the
// original pixels and the original selection.
type Move struct {
	doc      *Document
	layer    *Layer
	moved    *Pixmap // cut content at its original position
	delta    image.Point
	original *Selection // selection before the move, nil for whole layer

	captured bool
	before   regionSnapshot
}

// NewMove captures a move command. The moved content is extracted from
// the layer's current pixels at construction.
func NewMove(doc *Document, layer *Layer, delta image.Point, selection *Selection) *Move {
	return &Move{
		doc:      doc,
		layer:    layer,
		moved:    extractSelected(layer.Image, selection),
		delta:    delta,
		original: selection.Clone(),
	}
}

// Execute implements Command.
func (c *Move) Execute() error {
	if !c.captured {
		c.before = captureRegion(c.layer.Image, image.Rectangle{})
		c.captured = true
	}
	// Cut the content from its original position, then lay it back
	// down shifted.
	if c.original != nil && !c.original.Empty() {
		c.layer.Clear(c.original)
	} else {
		c.layer.Image.Clear(Transparent)
	}
	c.layer.Image.Blit(c.moved, c.delta.X, c.delta.Y, 255)

	if c.original != nil {
		sel := c.original.Clone()
		sel.Translate(c.delta.X, c.delta.Y)
		c.doc.SetSelection(sel)
	}
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Undo implements Command.
func (c *Move) Undo() {
	if !c.captured {
		return
	}
	c.before.restore(c.layer.Image)
	c.doc.SetSelection(c.original.Clone())
	c.doc.Changed.Emit(struct{}{})
}
