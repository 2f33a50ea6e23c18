package portal

import "image"

// shapeTool implements the line, rectangle, and ellipse tools. The
// shape is previewed by re-rasterizing onto a copy of the active layer
// on every move, and committed as one command on release.
type shapeTool struct {
	canvas *Canvas
	kind   ToolID

	dragging bool
	start    image.Point
	end      image.Point
	original *Pixmap // active layer snapshot taken at press
	constrain bool
}

func (t *shapeTool) params() StrokeParams {
	return t.canvas.Ctx.strokeParams(t.canvas.Doc.Selection())
}

// constrainEnd snaps the end point so the dragged extents are equal,
// used while Shift is held. Lines snap to the dominant axis or the
// diagonal; rectangles and ellipses anchor to a square bounding box.
func (t *shapeTool) constrainEnd(end image.Point) image.Point {
	dx, dy := end.X-t.start.X, end.Y-t.start.Y
	if t.kind == ToolLine {
		adx, ady := absInt(dx), absInt(dy)
		switch {
		case adx > 2*ady:
			return image.Pt(end.X, t.start.Y)
		case ady > 2*adx:
			return image.Pt(t.start.X, end.Y)
		}
	}
	side := maxInt(absInt(dx), absInt(dy))
	sx, sy := 1, 1
	if dx < 0 {
		sx = -1
	}
	if dy < 0 {
		sy = -1
	}
	return image.Pt(t.start.X+sx*side, t.start.Y+sy*side)
}

func (t *shapeTool) redraw() {
	overlay := t.original.Clone()
	end := t.end
	if t.constrain {
		end = t.constrainEnd(end)
	}
	switch t.kind {
	case ToolLine:
		DrawLine(overlay, t.start, end, t.params())
	case ToolRectangle:
		DrawRect(overlay, t.start, end, t.params())
	default:
		DrawEllipse(overlay, t.start, end, t.params())
	}
	t.canvas.setOverlay(overlay, true)
}

func (t *shapeTool) Pointer(ev PointerEvent) {
	switch ev.Kind {
	case Press:
		if ev.Button != ButtonLeft {
			return
		}
		t.dragging = true
		t.start = ev.Pos
		t.end = ev.Pos
		t.constrain = ev.Mods.Has(ModShift)
		t.original = t.canvas.Doc.ActiveLayer().Image.Clone()
		t.redraw()

	case MoveEvent:
		if !t.dragging {
			return
		}
		t.end = ev.Pos
		t.constrain = ev.Mods.Has(ModShift)
		t.redraw()

	case Release:
		if !t.dragging {
			return
		}
		t.dragging = false
		end := t.end
		if t.constrain {
			end = t.constrainEnd(end)
		}
		t.original = nil
		t.canvas.clearOverlay()

		doc := t.canvas.Doc
		layer := doc.ActiveLayer()
		var cmd Command
		switch t.kind {
		case ToolLine:
			cmd = NewDrawStroke(doc, layer, []image.Point{t.start, end}, t.params())
		case ToolRectangle:
			cmd = NewShape(doc, layer, t.start, end, ShapeRectangle, false, t.params())
		default:
			cmd = NewShape(doc, layer, t.start, end, ShapeEllipse, false, t.params())
		}
		if err := t.canvas.History.Push(cmd); err != nil {
			logger().Warn("shape rejected", "err", err)
		}
	}
}

func (t *shapeTool) Deactivate() {
	t.dragging = false
	t.original = nil
	t.canvas.clearOverlay()
}
