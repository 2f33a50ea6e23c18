package portal

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Paste adds a new layer carrying an incoming image. Images larger
// than the document are scaled down to fit, preserving aspect ratio,
// with nearest-neighbor sampling.
type Paste struct {
	doc  *Document
	img  *Pixmap
	name string

	added      *Layer
	index      int
	prevActive int
}

// NewPaste captures a paste command.
func NewPaste(doc *Document, img *Pixmap, name string) *Paste {
	if name == "" {
		name = "Pasted Layer"
	}
	return &Paste{
		doc:        doc,
		img:        img,
		name:       name,
		prevActive: doc.Frames.Current().Layers.ActiveIndex(),
	}
}

// fitToDocument scales img down to fit the document bounds, keeping
// aspect ratio. Images that already fit are returned unchanged.
func (c *Paste) fitToDocument() (*Pixmap, error) {
	w, h := c.img.Width(), c.img.Height()
	dw, dh := c.doc.Width(), c.doc.Height()
	if w <= dw && h <= dh {
		return c.img, nil
	}
	sw, sh := w*dh, h*dw
	var nw, nh int
	if sw > sh {
		// width-bound
		nw, nh = dw, h*dw/w
	} else {
		nw, nh = w*dh/h, dh
	}
	if nw < 1 || nh < 1 {
		return nil, fmt.Errorf("paste %dx%d into %dx%d: %w", w, h, dw, dh, ErrDimensionMismatch)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	src := c.img.ToImage()
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return FromImage(dst), nil
}

// Execute implements Command.
func (c *Paste) Execute() error {
	stack := c.doc.Frames.Current().Layers
	if c.added == nil {
		fitted, err := c.fitToDocument()
		if err != nil {
			return err
		}
		canvas := NewPixmap(c.doc.Width(), c.doc.Height())
		canvas.PasteSource(fitted, 0, 0)
		c.added = NewLayerFromImage(canvas, c.name)
		stack.layers = append(stack.layers, c.added)
		stack.active = stack.Len() - 1
		c.index = stack.active
		stack.StructureChanged.Emit(struct{}{})
	} else {
		if err := stack.Insert(c.index, c.added); err != nil {
			return err
		}
	}
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Undo implements Command.
func (c *Paste) Undo() {
	stack := c.doc.Frames.Current().Layers
	if i := stack.IndexOf(c.added); i >= 0 {
		if _, err := stack.Remove(i); err != nil {
			return
		}
	}
	_ = stack.Select(minInt(c.prevActive, stack.Len()-1))
	c.doc.Changed.Emit(struct{}{})
}

// ResizeDocument rescales the whole document. Undo restores a deep
// snapshot of the pre-resize state, so downscales lose nothing.
type ResizeDocument struct {
	doc    *Document
	w, h   int
	interp Interpolation

	before *Document
}

// NewResizeDocument captures a resize command.
func NewResizeDocument(doc *Document, w, h int, interp Interpolation) *ResizeDocument {
	return &ResizeDocument{doc: doc, w: w, h: h, interp: interp}
}

// Execute implements Command.
func (c *ResizeDocument) Execute() error {
	if c.before == nil {
		snapshot := c.doc.Clone()
		if err := c.doc.Resize(c.w, c.h, c.interp); err != nil {
			return err
		}
		c.before = snapshot
		return nil
	}
	return c.doc.Resize(c.w, c.h, c.interp)
}

// Undo implements Command.
func (c *ResizeDocument) Undo() {
	if c.before == nil {
		return
	}
	c.doc.restoreFrom(c.before.Clone())
}

// CropDocument crops the document to a rectangle. Undo restores a deep
// snapshot of the pre-crop state.
type CropDocument struct {
	doc  *Document
	rect image.Rectangle

	before *Document
}

// NewCropDocument captures a crop command.
func NewCropDocument(doc *Document, rect image.Rectangle) *CropDocument {
	return &CropDocument{doc: doc, rect: rect}
}

// Execute implements Command.
func (c *CropDocument) Execute() error {
	if c.before == nil {
		snapshot := c.doc.Clone()
		if err := c.doc.Crop(c.rect); err != nil {
			return err
		}
		c.before = snapshot
		return nil
	}
	return c.doc.Crop(c.rect)
}

// Undo implements Command.
func (c *CropDocument) Undo() {
	if c.before == nil {
		return
	}
	c.doc.restoreFrom(c.before.Clone())
}

// FlipDocument mirrors the whole document across an axis. Flipping the
// same axis twice is the identity, so undo re-executes.
type FlipDocument struct {
	doc  *Document
	axis FlipAxis
}

// NewFlipDocument captures a flip command.
func NewFlipDocument(doc *Document, axis FlipAxis) *FlipDocument {
	return &FlipDocument{doc: doc, axis: axis}
}

// Execute implements Command.
func (c *FlipDocument) Execute() error {
	c.doc.Flip(c.axis)
	return nil
}

// Undo implements Command.
func (c *FlipDocument) Undo() {
	c.doc.Flip(c.axis)
}

// RotateDocument rotates the whole document a quarter turn. Undo
// rotates back the other way.
type RotateDocument struct {
	doc *Document
	cw  bool
}

// NewRotateDocument captures a rotate command. Clockwise when cw.
func NewRotateDocument(doc *Document, cw bool) *RotateDocument {
	return &RotateDocument{doc: doc, cw: cw}
}

// Execute implements Command.
func (c *RotateDocument) Execute() error {
	c.doc.Rotate90(c.cw)
	return nil
}

// Undo implements Command.
func (c *RotateDocument) Undo() {
	c.doc.Rotate90(!c.cw)
}

// SelectionEdit replaces the document selection, recording the prior
// one for undo.
type SelectionEdit struct {
	doc    *Document
	before *Selection
	after  *Selection
}

// NewSelectionEdit captures a selection edit from the document's
// current selection to after.
func NewSelectionEdit(doc *Document, after *Selection) *SelectionEdit {
	return NewSelectionEditFrom(doc, doc.Selection(), after)
}

// NewSelectionEditFrom captures a selection edit with an explicit
// prior state. Selection tools preview edits live on the document, so
// by release time the document already holds the new selection; the
// tool passes the state it captured at press.
func NewSelectionEditFrom(doc *Document, before, after *Selection) *SelectionEdit {
	return &SelectionEdit{
		doc:    doc,
		before: before.Clone(),
		after:  after.Clone(),
	}
}

// Execute implements Command.
func (c *SelectionEdit) Execute() error {
	c.doc.SetSelection(c.after.Clone())
	return nil
}

// Undo implements Command.
func (c *SelectionEdit) Undo() {
	c.doc.SetSelection(c.before.Clone())
}
