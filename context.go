package portal

// ToolID identifies a tool in the drawing context.
type ToolID string

// Tool identifiers.
const (
	ToolPen           ToolID = "pen"
	ToolLine          ToolID = "line"
	ToolRectangle     ToolID = "rectangle"
	ToolEllipse       ToolID = "ellipse"
	ToolBucket        ToolID = "bucket"
	ToolPicker        ToolID = "picker"
	ToolMove          ToolID = "move"
	ToolSelectRect    ToolID = "select-rectangle"
	ToolSelectEllipse ToolID = "select-ellipse"
	ToolSelectLasso   ToolID = "select-lasso"
	ToolSelectColor   ToolID = "select-color"
)

// DrawingContext holds the mutable shared drawing parameters: pen
// color, pen width, brush shape, mirror flags, and the active tool.
// One instance exists per editing session; tools receive a reference,
// never a global handle.
//
// Observers are notified synchronously on the mutating call, on the UI
// thread.
type DrawingContext struct {
	penColor Color
	penWidth int
	brush    BrushType
	mirrorX  bool
	mirrorY  bool
	tool     ToolID

	// PenColorChanged fires with the new pen color.
	PenColorChanged Signal[Color]
	// PenWidthChanged fires with the new pen width.
	PenWidthChanged Signal[int]
	// BrushChanged fires with the new brush type.
	BrushChanged Signal[BrushType]
	// MirrorChanged fires with (mirrorX, mirrorY) packed as a pair.
	MirrorChanged Signal[[2]bool]
	// ToolChanged fires with the new tool identifier.
	ToolChanged Signal[ToolID]
}

// NewDrawingContext creates a context with a 1-pixel black square pen
// and the pen tool active.
func NewDrawingContext() *DrawingContext {
	return &DrawingContext{
		penColor: Black,
		penWidth: 1,
		brush:    BrushSquare,
		tool:     ToolPen,
	}
}

// PenColor returns the current pen color.
func (c *DrawingContext) PenColor() Color { return c.penColor }

// SetPenColor changes the pen color.
func (c *DrawingContext) SetPenColor(col Color) {
	if c.penColor == col {
		return
	}
	c.penColor = col
	c.PenColorChanged.Emit(col)
}

// PenWidth returns the current pen width (≥ 1).
func (c *DrawingContext) PenWidth() int { return c.penWidth }

// SetPenWidth changes the pen width, clamped to a minimum of 1.
func (c *DrawingContext) SetPenWidth(w int) {
	if w < 1 {
		w = 1
	}
	if c.penWidth == w {
		return
	}
	c.penWidth = w
	c.PenWidthChanged.Emit(w)
}

// Brush returns the current brush type.
func (c *DrawingContext) Brush() BrushType { return c.brush }

// SetBrush changes the brush type.
func (c *DrawingContext) SetBrush(b BrushType) {
	if c.brush == b {
		return
	}
	c.brush = b
	c.BrushChanged.Emit(b)
}

// MirrorX reports whether horizontal mirroring is enabled.
func (c *DrawingContext) MirrorX() bool { return c.mirrorX }

// MirrorY reports whether vertical mirroring is enabled.
func (c *DrawingContext) MirrorY() bool { return c.mirrorY }

// SetMirror changes the mirror flags.
func (c *DrawingContext) SetMirror(x, y bool) {
	if c.mirrorX == x && c.mirrorY == y {
		return
	}
	c.mirrorX, c.mirrorY = x, y
	c.MirrorChanged.Emit([2]bool{x, y})
}

// Tool returns the active tool identifier.
func (c *DrawingContext) Tool() ToolID { return c.tool }

// SetTool changes the active tool identifier.
func (c *DrawingContext) SetTool(t ToolID) {
	if c.tool == t {
		return
	}
	c.tool = t
	c.ToolChanged.Emit(t)
}

// strokeParams snapshots the context into rasterizer parameters.
// Commands capture this at construction so later context changes never
// affect a redo.
func (c *DrawingContext) strokeParams(clip *Selection) StrokeParams {
	return StrokeParams{
		Color:   c.penColor,
		Width:   c.penWidth,
		Brush:   c.brush,
		MirrorX: c.mirrorX,
		MirrorY: c.mirrorY,
		Clip:    clip,
	}
}
