package portal

import "image"

// penTool draws freehand strokes. Left button paints with the pen
// color; right button erases. The stroke accumulates on a preview
// overlay and becomes a single DrawStroke command on release.
type penTool struct {
	canvas *Canvas

	drawing bool
	erasing bool
	points  []image.Point
}

func (t *penTool) params() StrokeParams {
	sp := t.canvas.Ctx.strokeParams(t.canvas.Doc.Selection())
	sp.Erase = t.erasing
	return sp
}

func (t *penTool) Pointer(ev PointerEvent) {
	switch ev.Kind {
	case Press:
		if ev.Button == ButtonMiddle {
			return
		}
		t.drawing = true
		t.erasing = ev.Button == ButtonRight
		t.points = append(t.points[:0], ev.Pos)

		layer := t.canvas.Doc.ActiveLayer()
		var overlay *Pixmap
		if t.erasing {
			// Erasing previews on a copy of the active layer so the
			// backdrop shows through immediately.
			overlay = layer.Image.Clone()
		} else {
			overlay = NewPixmap(t.canvas.Doc.Width(), t.canvas.Doc.Height())
		}
		DrawBrush(overlay, ev.Pos, t.params())
		t.canvas.setOverlay(overlay, t.erasing)

	case MoveEvent:
		if !t.drawing || t.canvas.overlay == nil {
			return
		}
		prev := t.points[len(t.points)-1]
		t.points = append(t.points, ev.Pos)
		DrawLine(t.canvas.overlay, prev, ev.Pos, t.params())
		t.canvas.RedrawRequested.Emit(struct{}{})

	case Release:
		if !t.drawing {
			return
		}
		t.drawing = false
		pts := t.points
		t.points = nil
		t.canvas.clearOverlay()

		cmd := NewDrawStroke(t.canvas.Doc, t.canvas.Doc.ActiveLayer(), pts, t.params())
		if err := t.canvas.History.Push(cmd); err != nil {
			logger().Warn("stroke rejected", "err", err)
		}
	}
}

func (t *penTool) Deactivate() {
	t.drawing = false
	t.points = nil
	t.canvas.clearOverlay()
}
