package portal

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Interpolation selects the scaler used by Document.Resize.
type Interpolation uint8

const (
	// InterpNearest is nearest-neighbor sampling, required for
	// pixel-art fidelity.
	InterpNearest Interpolation = iota
	// InterpSmooth is a Catmull-Rom resampling for photographic
	// content.
	InterpSmooth
)

// FlipAxis selects the mirror axis for Document.Flip.
type FlipAxis uint8

const (
	// FlipHorizontal mirrors left-right.
	FlipHorizontal FlipAxis = iota
	// FlipVertical mirrors top-bottom.
	FlipVertical
)

// Document is the root of the model: dimensions, the frame manager,
// the current selection, and the optional AI output rectangle.
//
// The document is not safe for concurrent use; all mutation happens on
// the UI thread. Workers communicate results back as messages the UI
// thread applies.
type Document struct {
	width  int
	height int

	// Frames owns the frame list and the keyed-frame set.
	Frames *FrameManager

	selection *Selection

	// AIOutputRect, when non-nil, is the canvas region targeted by the
	// AI adapter.
	AIOutputRect *image.Rectangle

	// Changed fires after any pixel or structural mutation applied
	// through a command.
	Changed Signal[struct{}]
	// SelectionChanged fires with whether a non-empty selection exists.
	SelectionChanged Signal[bool]
	// SelectionSizeChanged fires with the bounding size of the
	// selection after each selection edit.
	SelectionSizeChanged Signal[image.Point]
}

// NewDocument creates a document with a single keyed frame holding one
// transparent background layer.
func NewDocument(width, height int) *Document {
	if width <= 0 || height <= 0 {
		panic("portal: document dimensions must be positive")
	}
	return &Document{
		width:  width,
		height: height,
		Frames: NewFrameManager(width, height),
	}
}

// Width returns the document width in pixels.
func (d *Document) Width() int { return d.width }

// Height returns the document height in pixels.
func (d *Document) Height() int { return d.height }

// Rect returns the document bounds anchored at the origin.
func (d *Document) Rect() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// ActiveLayer returns the active layer of the current frame.
func (d *Document) ActiveLayer() *Layer {
	return d.Frames.Current().Layers.Active()
}

// Selection returns the current selection, or nil when none is set.
func (d *Document) Selection() *Selection { return d.selection }

// SetSelection replaces the selection. A nil or empty selection clears
// it. Emits SelectionChanged and SelectionSizeChanged.
func (d *Document) SetSelection(s *Selection) {
	if s != nil && s.Empty() {
		s = nil
	}
	d.selection = s
	d.SelectionChanged.Emit(s != nil)
	var size image.Point
	if s != nil {
		b := s.BoundingRect()
		size = image.Pt(b.Dx(), b.Dy())
	}
	d.SelectionSizeChanged.Emit(size)
}

// Render composites the frame resolved for playback index p: all
// visible layers bottom to top, source-over with per-layer opacity.
// The result has document dimensions.
func (d *Document) Render(p int) *Pixmap {
	return d.RenderFrame(d.Frames.ResolveFrame(p))
}

// RenderFrame composites a specific frame.
func (d *Document) RenderFrame(f *Frame) *Pixmap {
	out := NewPixmap(d.width, d.height)
	for _, l := range f.Layers.Layers() {
		if l.Visible() {
			out.Blit(l.Image, 0, 0, l.opacity255())
		}
	}
	return out
}

// RenderExcept composites the current frame skipping one layer. Used
// by the eraser preview to reconstruct the backdrop behind the layer
// being edited.
func (d *Document) RenderExcept(skip *Layer) *Pixmap {
	out := NewPixmap(d.width, d.height)
	for _, l := range d.Frames.Current().Layers.Layers() {
		if l != skip && l.Visible() {
			out.Blit(l.Image, 0, 0, l.opacity255())
		}
	}
	return out
}

// RenderSubstitute composites the current frame with the image of one
// layer replaced. Used by tool previews that stage edits on an
// overlay before committing a command.
func (d *Document) RenderSubstitute(target *Layer, replacement *Pixmap) *Pixmap {
	out := NewPixmap(d.width, d.height)
	for _, l := range d.Frames.Current().Layers.Layers() {
		if !l.Visible() {
			continue
		}
		img := l.Image
		if l == target {
			img = replacement
		}
		out.Blit(img, 0, 0, l.opacity255())
	}
	return out
}

// setDimensions updates the cached dimensions on the document, the
// frame manager, and every layer stack.
func (d *Document) setDimensions(w, h int) {
	d.width, d.height = w, h
	d.Frames.width, d.Frames.height = w, h
	for _, f := range d.Frames.Frames() {
		f.Layers.width, f.Layers.height = w, h
	}
}

// Resize rescales every layer of every frame to the new dimensions
// using the given interpolation, and clears the selection.
func (d *Document) Resize(w, h int, interp Interpolation) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("resize to %dx%d: %w", w, h, ErrDimensionMismatch)
	}
	scaler := xdraw.Scaler(xdraw.NearestNeighbor)
	if interp == InterpSmooth {
		scaler = xdraw.CatmullRom
	}
	for _, f := range d.Frames.Frames() {
		for _, l := range f.Layers.Layers() {
			dst := image.NewNRGBA(image.Rect(0, 0, w, h))
			src := l.Image.ToImage()
			scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
			l.Image = FromImage(dst)
		}
	}
	d.setDimensions(w, h)
	d.SetSelection(nil)
	logger().Info("document resized", "width", w, "height", h)
	d.Changed.Emit(struct{}{})
	return nil
}

// Crop replaces every layer with its subregion of rect, updates the
// document dimensions, and clears the selection.
func (d *Document) Crop(rect image.Rectangle) error {
	rect = rect.Intersect(d.Rect())
	if rect.Empty() {
		return fmt.Errorf("crop to empty rect: %w", ErrDimensionMismatch)
	}
	for _, f := range d.Frames.Frames() {
		for _, l := range f.Layers.Layers() {
			l.Image = l.Image.SubPixmap(rect)
		}
	}
	d.setDimensions(rect.Dx(), rect.Dy())
	d.SetSelection(nil)
	d.Changed.Emit(struct{}{})
	return nil
}

// Flip mirrors every layer of every frame in place across the given
// axis.
func (d *Document) Flip(axis FlipAxis) {
	for _, f := range d.Frames.Frames() {
		for _, l := range f.Layers.Layers() {
			if axis == FlipHorizontal {
				l.Image = l.Image.FlippedH()
			} else {
				l.Image = l.Image.FlippedV()
			}
		}
	}
	d.Changed.Emit(struct{}{})
}

// Rotate90 rotates every layer of every frame a quarter turn and swaps
// the document dimensions. Clockwise when cw is true.
func (d *Document) Rotate90(cw bool) {
	for _, f := range d.Frames.Frames() {
		for _, l := range f.Layers.Layers() {
			l.Image = l.Image.Rotated90(cw)
		}
	}
	d.setDimensions(d.height, d.width)
	d.SetSelection(nil)
	d.Changed.Emit(struct{}{})
}

// Clone returns a deep copy of the document state: frames, selection,
// and AI output rect. Signals are not carried over.
func (d *Document) Clone() *Document {
	out := &Document{
		width:  d.width,
		height: d.height,
		Frames: d.Frames.Clone(),
	}
	if d.selection != nil {
		out.selection = d.selection.Clone()
	}
	if d.AIOutputRect != nil {
		r := *d.AIOutputRect
		out.AIOutputRect = &r
	}
	return out
}

// restoreFrom adopts the state of a clone produced by Clone. Used by
// heavyweight undo paths (resize, crop).
func (d *Document) restoreFrom(src *Document) {
	d.width = src.width
	d.height = src.height
	d.Frames = src.Frames
	d.selection = src.selection
	d.AIOutputRect = src.AIOutputRect
	d.Changed.Emit(struct{}{})
}
