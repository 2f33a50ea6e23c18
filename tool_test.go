package portal

import (
	"image"
	"testing"
)

func newTestCanvas(w, h int) *Canvas {
	c := NewCanvas(NewDocument(w, h), NewHistory(0), NewDrawingContext())
	// Tests run at a typical editing zoom so the border hit distance
	// is one document pixel.
	c.Zoom = 10
	return c
}

func press(c *Canvas, x, y int) {
	c.Pointer(PointerEvent{Kind: Press, Pos: image.Pt(x, y), Button: ButtonLeft})
}

func move(c *Canvas, x, y int) {
	c.Pointer(PointerEvent{Kind: MoveEvent, Pos: image.Pt(x, y), Button: ButtonLeft})
}

func release(c *Canvas, x, y int) {
	c.Pointer(PointerEvent{Kind: Release, Pos: image.Pt(x, y), Button: ButtonLeft})
}

func TestPenToolStroke(t *testing.T) {
	c := newTestCanvas(10, 10)

	press(c, 2, 2)
	// Mid-stroke the layer itself is untouched; the overlay previews.
	if c.Doc.ActiveLayer().Image.GetPixel(2, 2).A != 0 {
		t.Error("press mutated the layer before release")
	}
	if c.RenderPreview().GetPixel(2, 2).A == 0 {
		t.Error("preview does not show the stamped point")
	}

	move(c, 7, 7)
	release(c, 7, 7)

	img := c.Doc.ActiveLayer().Image
	if img.GetPixel(4, 4).A == 0 {
		t.Error("stroke not committed on release")
	}
	if !c.History.CanUndo() {
		t.Error("no command pushed")
	}
	if c.overlay != nil {
		t.Error("overlay not released after the stroke")
	}
}

func TestPenToolRightButtonErases(t *testing.T) {
	c := newTestCanvas(6, 6)
	c.Doc.ActiveLayer().Image.Clear(White)

	c.Pointer(PointerEvent{Kind: Press, Pos: image.Pt(3, 3), Button: ButtonRight})
	c.Pointer(PointerEvent{Kind: Release, Pos: image.Pt(3, 3), Button: ButtonRight})

	if got := c.Doc.ActiveLayer().Image.GetPixel(3, 3); got.A != 0 {
		t.Errorf("erased pixel = %v, want transparent", got)
	}
	if got := c.Doc.ActiveLayer().Image.GetPixel(0, 0); got != White {
		t.Errorf("pixel outside erase = %v, want white", got)
	}
}

func TestLineToolCommitsOnRelease(t *testing.T) {
	c := newTestCanvas(10, 10)
	c.Ctx.SetTool(ToolLine)

	press(c, 1, 1)
	move(c, 5, 5)
	move(c, 8, 1)
	release(c, 8, 1)

	img := c.Doc.ActiveLayer().Image
	for x := 1; x <= 8; x++ {
		if img.GetPixel(x, 1).A == 0 {
			t.Fatalf("line pixel (%d,1) missing (only the final drag position commits)", x)
		}
	}
	if img.GetPixel(5, 5).A != 0 {
		t.Error("intermediate drag position leaked into the commit")
	}
}

func TestEllipseToolShiftConstrains(t *testing.T) {
	c := newTestCanvas(30, 30)
	c.Ctx.SetTool(ToolEllipse)

	c.Pointer(PointerEvent{Kind: Press, Pos: image.Pt(5, 5), Button: ButtonLeft, Mods: ModShift})
	c.Pointer(PointerEvent{Kind: MoveEvent, Pos: image.Pt(15, 9), Button: ButtonLeft, Mods: ModShift})
	c.Pointer(PointerEvent{Kind: Release, Pos: image.Pt(15, 9), Button: ButtonLeft, Mods: ModShift})

	// Constrained to a 10×10 square box: the circle's rightmost point
	// sits at x=15 on the center row y=10.
	img := c.Doc.ActiveLayer().Image
	if img.GetPixel(15, 10).A == 0 {
		t.Error("constrained circle right extreme missing")
	}
}

func TestBucketToolNoOpPushesNoCommand(t *testing.T) {
	c := newTestCanvas(6, 6)
	c.Ctx.SetTool(ToolBucket)
	c.Ctx.SetPenColor(Black) // layer is transparent, pen differs

	// Fill with the color already present: no command.
	c.Doc.ActiveLayer().Image.Clear(Black)
	press(c, 2, 2)
	if c.History.CanUndo() {
		t.Fatal("no-op fill pushed a command")
	}

	// A real fill pushes.
	c.Ctx.SetPenColor(White)
	press(c, 2, 2)
	if !c.History.CanUndo() {
		t.Fatal("fill pushed no command")
	}
	if got := c.Doc.ActiveLayer().Image.GetPixel(5, 5); got != White {
		t.Errorf("filled pixel = %v, want white", got)
	}
}

func TestPickerToolSamplesAndRestores(t *testing.T) {
	c := newTestCanvas(6, 6)
	red := Color{255, 0, 0, 255}
	c.Doc.ActiveLayer().Image.SetPixel(2, 2, red)

	c.SetTool(ToolPicker)
	press(c, 2, 2)
	if got := c.Ctx.PenColor(); got != red {
		t.Errorf("pen color = %v, want sampled red", got)
	}
	if c.History.CanUndo() {
		t.Error("picker pushed a command")
	}

	release(c, 2, 2)
	if got := c.Ctx.Tool(); got != ToolPen {
		t.Errorf("tool after release = %v, want previous tool restored", got)
	}
}

func TestMoveToolDragsSelection(t *testing.T) {
	c := newTestCanvas(8, 8)
	red := Color{255, 0, 0, 255}
	c.Doc.ActiveLayer().Image.SetPixel(1, 1, red)

	sel := NewSelection(8, 8)
	sel.AddRect(image.Rect(1, 1, 2, 2))
	c.Doc.SetSelection(sel)

	c.Ctx.SetTool(ToolMove)
	press(c, 1, 1)
	move(c, 4, 2)
	release(c, 4, 2)

	img := c.Doc.ActiveLayer().Image
	if got := img.GetPixel(4, 2); got != red {
		t.Errorf("moved pixel = %v, want red at (4,2)", got)
	}
	if got := img.GetPixel(1, 1); got.A != 0 {
		t.Errorf("source pixel = %v, want cut", got)
	}
}

func TestSelectRectToolComposes(t *testing.T) {
	c := newTestCanvas(20, 20)
	c.Ctx.SetTool(ToolSelectRect)

	press(c, 1, 1)
	move(c, 4, 4)
	release(c, 4, 4)
	if got := c.Doc.Selection().Count(); got != 16 {
		t.Fatalf("selection count = %d, want 16", got)
	}

	// Shift extends with a disjoint rect.
	c.Pointer(PointerEvent{Kind: Press, Pos: image.Pt(10, 10), Button: ButtonLeft, Mods: ModShift})
	c.Pointer(PointerEvent{Kind: MoveEvent, Pos: image.Pt(11, 11), Button: ButtonLeft, Mods: ModShift})
	c.Pointer(PointerEvent{Kind: Release, Pos: image.Pt(11, 11), Button: ButtonLeft, Mods: ModShift})
	if got := c.Doc.Selection().Count(); got != 20 {
		t.Fatalf("selection count after union = %d, want 20", got)
	}

	// Both edits undo independently.
	c.History.Undo()
	if got := c.Doc.Selection().Count(); got != 16 {
		t.Errorf("selection count after undo = %d, want 16", got)
	}
	c.History.Undo()
	if c.Doc.Selection() != nil {
		t.Error("selection not empty after second undo")
	}
}

func TestSelectRectToolSubtracts(t *testing.T) {
	c := newTestCanvas(20, 20)
	c.Ctx.SetTool(ToolSelectRect)

	press(c, 0, 0)
	move(c, 9, 9)
	release(c, 9, 9)

	c.Pointer(PointerEvent{Kind: Press, Pos: image.Pt(15, 15), Button: ButtonLeft, Mods: ModCtrl})
	c.Pointer(PointerEvent{Kind: MoveEvent, Pos: image.Pt(5, 5), Button: ButtonLeft, Mods: ModCtrl})
	c.Pointer(PointerEvent{Kind: Release, Pos: image.Pt(5, 5), Button: ButtonLeft, Mods: ModCtrl})

	sel := c.Doc.Selection()
	if sel.Contains(7, 7) {
		t.Error("subtracted pixel still selected")
	}
	if !sel.Contains(2, 2) {
		t.Error("pixel outside subtraction lost")
	}
}

func TestSelectionBorderDrag(t *testing.T) {
	c := newTestCanvas(30, 30)
	c.Ctx.SetTool(ToolSelectRect)

	press(c, 5, 5)
	move(c, 14, 14)
	release(c, 14, 14)
	before := c.Doc.Selection().BoundingRect()

	// Press on the selection border and drag.
	press(c, 5, 10)
	move(c, 8, 10)
	release(c, 8, 10)

	got := c.Doc.Selection().BoundingRect()
	want := before.Add(image.Pt(3, 0))
	if got != want {
		t.Errorf("dragged selection bounds = %v, want %v", got, want)
	}
}

func TestColorSelectTool(t *testing.T) {
	c := newTestCanvas(10, 10)
	red := Color{255, 0, 0, 255}
	img := c.Doc.ActiveLayer().Image
	img.SetPixel(1, 1, red)
	img.SetPixel(2, 1, red)
	img.SetPixel(8, 8, red)

	c.Ctx.SetTool(ToolSelectColor)

	t.Run("contiguous", func(t *testing.T) {
		press(c, 1, 1)
		sel := c.Doc.Selection()
		if sel == nil || !sel.Contains(2, 1) || sel.Contains(8, 8) {
			t.Errorf("contiguous color selection wrong: %v", sel.Runs())
		}
	})
	t.Run("global with ctrl", func(t *testing.T) {
		c.Pointer(PointerEvent{Kind: Press, Pos: image.Pt(1, 1), Button: ButtonLeft, Mods: ModCtrl})
		sel := c.Doc.Selection()
		if sel == nil || !sel.Contains(8, 8) {
			t.Error("global color selection missed a matching pixel")
		}
	})
}

func TestLassoTool(t *testing.T) {
	c := newTestCanvas(20, 20)
	c.Ctx.SetTool(ToolSelectLasso)

	press(c, 2, 2)
	move(c, 12, 2)
	move(c, 12, 12)
	move(c, 2, 12)
	release(c, 2, 12)

	sel := c.Doc.Selection()
	if sel == nil {
		t.Fatal("lasso produced no selection")
	}
	if !sel.Contains(7, 7) {
		t.Error("lasso interior not selected")
	}
	if sel.Contains(16, 16) {
		t.Error("pixel outside lasso selected")
	}
}

func TestToolSwitchReleasesOverlay(t *testing.T) {
	c := newTestCanvas(10, 10)
	press(c, 2, 2) // pen press installs an overlay
	if c.overlay == nil {
		t.Fatal("expected an overlay mid-stroke")
	}
	c.SetTool(ToolBucket)
	if c.overlay != nil {
		t.Error("overlay survived the tool switch")
	}
}
