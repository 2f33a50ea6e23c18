package portal

import "image"

// composeMode is how a new selection shape combines with the existing
// selection.
type composeMode uint8

const (
	composeReplace composeMode = iota
	composeUnion
	composeSubtract
)

// selectBase carries the behavior shared by all selection tools:
// press-time capture of the prior selection, Shift/Ctrl composition,
// live preview on the document, border-drag of the existing selection,
// and the SelectionEdit command on release.
type selectBase struct {
	canvas *Canvas

	before  *Selection
	mode    composeMode
	moving  bool
	lastPos image.Point
}

// beginPress captures state shared by every selection tool. Returns
// true when the press landed on the selection border and started a
// drag of the selection itself.
func (b *selectBase) beginPress(ev PointerEvent) bool {
	doc := b.canvas.Doc
	b.before = doc.Selection().Clone()

	if doc.Selection().OnBorder(ev.Pos, b.canvas.borderTolerance()) {
		b.moving = true
		b.lastPos = ev.Pos
		return true
	}

	switch {
	case ev.Mods.Has(ModShift):
		b.mode = composeUnion
	case ev.Mods.Has(ModCtrl):
		b.mode = composeSubtract
	default:
		b.mode = composeReplace
	}
	return false
}

// dragMove translates the live selection while border-dragging.
// Returns true when the event was consumed.
func (b *selectBase) dragMove(ev PointerEvent) bool {
	if !b.moving {
		return false
	}
	d := ev.Pos.Sub(b.lastPos)
	b.lastPos = ev.Pos
	if sel := b.canvas.Doc.Selection(); sel != nil && (d.X != 0 || d.Y != 0) {
		moved := sel.Clone()
		moved.Translate(d.X, d.Y)
		b.canvas.Doc.SetSelection(moved)
	}
	return true
}

// dragRelease finishes a border drag. Returns true when consumed.
func (b *selectBase) dragRelease() bool {
	if !b.moving {
		return false
	}
	b.moving = false
	b.commit()
	return true
}

// compose combines shape with the selection captured at press.
func (b *selectBase) compose(shape *Selection) *Selection {
	switch b.mode {
	case composeUnion:
		if b.before == nil {
			return shape
		}
		out := b.before.Clone()
		out.Union(shape)
		return out
	case composeSubtract:
		if b.before == nil {
			return NewSelection(b.canvas.Doc.Width(), b.canvas.Doc.Height())
		}
		out := b.before.Clone()
		out.Subtract(shape)
		return out
	default:
		return shape
	}
}

// preview shows the composed selection live on the document.
func (b *selectBase) preview(shape *Selection) {
	b.canvas.Doc.SetSelection(b.compose(shape))
}

// commit records the edit from the press-time selection to the current
// one as an undoable command.
func (b *selectBase) commit() {
	doc := b.canvas.Doc
	cmd := NewSelectionEditFrom(doc, b.before, doc.Selection())
	if err := b.canvas.History.Push(cmd); err != nil {
		logger().Warn("selection edit rejected", "err", err)
	}
	b.before = nil
}

// selectShapeTool is the rectangle and ellipse selection tool.
type selectShapeTool struct {
	selectBase
	ellipse bool

	dragging bool
	start    image.Point
}

func (t *selectShapeTool) shape(a, c image.Point) *Selection {
	s := NewSelection(t.canvas.Doc.Width(), t.canvas.Doc.Height())
	if t.ellipse {
		s.AddEllipse(a, c)
	} else {
		x0, x1 := minmax(a.X, c.X)
		y0, y1 := minmax(a.Y, c.Y)
		s.AddRect(image.Rect(x0, y0, x1+1, y1+1))
	}
	return s
}

func (t *selectShapeTool) Pointer(ev PointerEvent) {
	switch ev.Kind {
	case Press:
		if ev.Button != ButtonLeft {
			return
		}
		if t.beginPress(ev) {
			return
		}
		t.dragging = true
		t.start = ev.Pos
		t.preview(t.shape(ev.Pos, ev.Pos))
	case MoveEvent:
		if t.dragMove(ev) {
			return
		}
		if t.dragging {
			t.preview(t.shape(t.start, ev.Pos))
		}
	case Release:
		if t.dragRelease() {
			return
		}
		if t.dragging {
			t.dragging = false
			t.commit()
		}
	}
}

func (t *selectShapeTool) Deactivate() {
	t.dragging = false
	t.moving = false
	t.before = nil
}

// lassoTool accumulates a freehand polyline and selects the closed
// polygon on release.
type lassoTool struct {
	selectBase

	dragging bool
	points   []image.Point
}

func (t *lassoTool) shape() *Selection {
	s := NewSelection(t.canvas.Doc.Width(), t.canvas.Doc.Height())
	s.AddPolygon(t.points)
	return s
}

func (t *lassoTool) Pointer(ev PointerEvent) {
	switch ev.Kind {
	case Press:
		if ev.Button != ButtonLeft {
			return
		}
		if t.beginPress(ev) {
			return
		}
		t.dragging = true
		t.points = append(t.points[:0], ev.Pos)
	case MoveEvent:
		if t.dragMove(ev) {
			return
		}
		if t.dragging && ev.Pos != t.points[len(t.points)-1] {
			t.points = append(t.points, ev.Pos)
			t.preview(t.shape())
		}
	case Release:
		if t.dragRelease() {
			return
		}
		if t.dragging {
			t.dragging = false
			// Release closes the subpath implicitly.
			t.preview(t.shape())
			t.points = nil
			t.commit()
		}
	}
}

func (t *lassoTool) Deactivate() {
	t.dragging = false
	t.moving = false
	t.points = nil
	t.before = nil
}

// colorSelectTool selects pixels matching the pressed pixel's color in
// the rendered composite: a contiguous flood by default, or every
// matching pixel globally while Ctrl is held. Shift composes a union
// with the existing selection.
type colorSelectTool struct {
	selectBase
}

func (t *colorSelectTool) Pointer(ev PointerEvent) {
	switch ev.Kind {
	case Press:
		if ev.Button != ButtonLeft {
			return
		}
		doc := t.canvas.Doc
		t.before = doc.Selection().Clone()
		if ev.Mods.Has(ModShift) {
			t.mode = composeUnion
		} else {
			t.mode = composeReplace
		}
		composite := doc.RenderFrame(doc.Frames.Current())
		shape := SelectionFromColor(composite, ev.Pos, !ev.Mods.Has(ModCtrl))
		if shape == nil {
			t.before = nil
			return
		}
		t.preview(shape)
		t.commit()
	}
}

func (t *colorSelectTool) Deactivate() {
	t.before = nil
}
