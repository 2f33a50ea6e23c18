package portal

import "image"

// EventKind is the kind of an abstract pointer event.
type EventKind uint8

// Pointer event kinds.
const (
	Press EventKind = iota
	MoveEvent
	Release
	DoubleClick
)

// PointerButton identifies the pressed button.
type PointerButton uint8

// Pointer buttons.
const (
	ButtonLeft PointerButton = iota
	ButtonMiddle
	ButtonRight
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

// Modifier keys.
const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether m includes mod.
func (m Modifiers) Has(mod Modifiers) bool { return m&mod != 0 }

// PointerEvent is an abstract pointer event in document coordinates.
// The host translates its input events into these.
type PointerEvent struct {
	Kind   EventKind
	Pos    image.Point
	Button PointerButton
	Mods   Modifiers
}

// Tool handles pointer events for one editing mode, accumulating
// private state between events and emitting commands on release.
type Tool interface {
	// Pointer consumes one event.
	Pointer(ev PointerEvent)
	// Deactivate is called when the tool is switched away; tools
	// release preview resources here.
	Deactivate()
}

// selectionBorderTolerance is the border hit distance in screen
// pixels; tools divide it by the canvas zoom.
const selectionBorderTolerance = 10.0

// Canvas routes pointer events to the active tool and owns the shared
// tool surface: the preview overlay, the zoom factor, and redraw
// notification. It is the tool-facing face of the document; hosts
// render through RenderPreview so in-progress strokes are visible.
type Canvas struct {
	Doc     *Document
	History *History
	Ctx     *DrawingContext

	// Zoom is the host's current zoom factor, used to scale border
	// hit tolerances into document units. Defaults to 1.
	Zoom float64

	// RedrawRequested fires whenever a tool changes the preview.
	RedrawRequested Signal[struct{}]

	tools    map[ToolID]Tool
	prevTool ToolID

	// overlay, when non-nil, is the preview image. When
	// overlayReplaces is set it substitutes the active layer;
	// otherwise it is composited on top of the document.
	overlay         *Pixmap
	overlayReplaces bool
}

// NewCanvas wires a canvas with the standard tool set.
func NewCanvas(doc *Document, history *History, ctx *DrawingContext) *Canvas {
	c := &Canvas{
		Doc:     doc,
		History: history,
		Ctx:     ctx,
		Zoom:    1,
	}
	c.tools = map[ToolID]Tool{
		ToolPen:           &penTool{canvas: c},
		ToolLine:          &shapeTool{canvas: c, kind: ToolLine},
		ToolRectangle:     &shapeTool{canvas: c, kind: ToolRectangle},
		ToolEllipse:       &shapeTool{canvas: c, kind: ToolEllipse},
		ToolBucket:        &bucketTool{canvas: c},
		ToolPicker:        &pickerTool{canvas: c},
		ToolMove:          &moveTool{canvas: c},
		ToolSelectRect:    &selectShapeTool{selectBase: selectBase{canvas: c}},
		ToolSelectEllipse: &selectShapeTool{selectBase: selectBase{canvas: c}, ellipse: true},
		ToolSelectLasso:   &lassoTool{selectBase: selectBase{canvas: c}},
		ToolSelectColor:   &colorSelectTool{selectBase: selectBase{canvas: c}},
	}
	c.prevTool = ctx.Tool()
	ctx.ToolChanged.Subscribe(func(t ToolID) {
		if cur, ok := c.tools[c.prevTool]; ok && c.prevTool != t {
			cur.Deactivate()
		}
	})
	return c
}

// Pointer dispatches an event to the active tool.
func (c *Canvas) Pointer(ev PointerEvent) {
	if tool, ok := c.tools[c.Ctx.Tool()]; ok {
		tool.Pointer(ev)
	}
}

// SetTool switches the active tool, remembering the previous one so
// transient tools (the picker) can restore it.
func (c *Canvas) SetTool(t ToolID) {
	c.prevTool = c.Ctx.Tool()
	c.Ctx.SetTool(t)
}

// restorePreviousTool switches back to the tool active before the last
// SetTool call.
func (c *Canvas) restorePreviousTool() {
	c.Ctx.SetTool(c.prevTool)
}

// setOverlay installs a preview image.
func (c *Canvas) setOverlay(p *Pixmap, replacesActive bool) {
	c.overlay = p
	c.overlayReplaces = replacesActive
	c.RedrawRequested.Emit(struct{}{})
}

// clearOverlay releases the preview image.
func (c *Canvas) clearOverlay() {
	c.overlay = nil
	c.overlayReplaces = false
	c.RedrawRequested.Emit(struct{}{})
}

// borderTolerance returns the selection border hit distance in
// document units.
func (c *Canvas) borderTolerance() float64 {
	z := c.Zoom
	if z <= 0 {
		z = 1
	}
	return selectionBorderTolerance / z
}

// RenderPreview composites the current frame including any tool
// preview overlay.
func (c *Canvas) RenderPreview() *Pixmap {
	frame := c.Doc.Frames.Current()
	if c.overlay == nil {
		return c.Doc.RenderFrame(frame)
	}
	if c.overlayReplaces {
		return c.Doc.RenderSubstitute(frame.Layers.Active(), c.overlay)
	}
	out := c.Doc.RenderFrame(frame)
	out.Blit(c.overlay, 0, 0, 255)
	return out
}
