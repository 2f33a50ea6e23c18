package portal

import "image"

// bucketTool flood-fills on press. A fill that would change nothing
// pushes no command.
type bucketTool struct {
	canvas *Canvas
}

func (t *bucketTool) Pointer(ev PointerEvent) {
	if ev.Kind != Press || ev.Button != ButtonLeft {
		return
	}
	doc := t.canvas.Doc
	ctx := t.canvas.Ctx
	cmd := NewFill(doc, doc.ActiveLayer(), ev.Pos, ctx.PenColor(),
		ctx.MirrorX(), ctx.MirrorY(), doc.Selection())
	if !cmd.WouldApply() {
		return
	}
	if err := t.canvas.History.Push(cmd); err != nil {
		logger().Warn("fill rejected", "err", err)
	}
}

func (t *bucketTool) Deactivate() {}

// pickerTool samples the composite color under the pointer into the
// drawing context, then restores the previous tool on release. It
// never pushes a command.
type pickerTool struct {
	canvas *Canvas
}

func (t *pickerTool) Pointer(ev PointerEvent) {
	switch ev.Kind {
	case Press, MoveEvent:
		if ev.Kind == MoveEvent && ev.Button != ButtonLeft {
			return
		}
		doc := t.canvas.Doc
		if !doc.Rect().Overlaps(image.Rect(ev.Pos.X, ev.Pos.Y, ev.Pos.X+1, ev.Pos.Y+1)) {
			return
		}
		composite := doc.RenderFrame(doc.Frames.Current())
		t.canvas.Ctx.SetPenColor(composite.GetPixel(ev.Pos.X, ev.Pos.Y))
	case Release:
		t.canvas.restorePreviousTool()
	}
}

func (t *pickerTool) Deactivate() {}

// moveTool drags the selected pixels (or the whole layer when nothing
// is selected). The drag is previewed on an overlay; the layer itself
// is only mutated by the Move command emitted on release.
type moveTool struct {
	canvas *Canvas

	dragging bool
	pressPos image.Point
	delta    image.Point
	base     *Pixmap    // layer with the moved content cut out
	moved    *Pixmap    // the cut content at its original position
	selection *Selection // selection at press, nil for whole layer
}

func (t *moveTool) redraw() {
	overlay := t.base.Clone()
	overlay.Blit(t.moved, t.delta.X, t.delta.Y, 255)
	t.canvas.setOverlay(overlay, true)
}

func (t *moveTool) Pointer(ev PointerEvent) {
	switch ev.Kind {
	case Press:
		if ev.Button != ButtonLeft {
			return
		}
		doc := t.canvas.Doc
		layer := doc.ActiveLayer()
		t.dragging = true
		t.pressPos = ev.Pos
		t.delta = image.Point{}
		t.selection = doc.Selection().Clone()

		t.moved = extractSelected(layer.Image, t.selection)
		if t.selection != nil && !t.selection.Empty() {
			t.base = layer.Image.Clone()
			for _, r := range t.selection.Runs() {
				t.base.FillRect(image.Rect(r.X0, r.Y, r.X1, r.Y+1), Transparent)
			}
		} else {
			t.base = NewPixmap(doc.Width(), doc.Height())
		}
		t.redraw()

	case MoveEvent:
		if !t.dragging {
			return
		}
		t.delta = ev.Pos.Sub(t.pressPos)
		t.redraw()

	case Release:
		if !t.dragging {
			return
		}
		t.dragging = false
		delta := t.delta
		sel := t.selection
		t.base, t.moved, t.selection = nil, nil, nil
		t.canvas.clearOverlay()

		if delta == (image.Point{}) {
			return
		}
		doc := t.canvas.Doc
		cmd := NewMove(doc, doc.ActiveLayer(), delta, sel)
		if err := t.canvas.History.Push(cmd); err != nil {
			logger().Warn("move rejected", "err", err)
		}
	}
}

func (t *moveTool) Deactivate() {
	t.dragging = false
	t.base, t.moved, t.selection = nil, nil, nil
	t.canvas.clearOverlay()
}
