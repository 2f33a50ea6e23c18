package portal

// Structural layer commands. They retain the affected layer objects so
// undo can re-insert the exact same layer (and its pixels) at the
// original index.

// AddLayer appends a new transparent layer on top of the active
// frame's stack.
type AddLayer struct {
	doc  *Document
	name string

	added      *Layer
	index      int
	prevActive int
}

// NewAddLayer captures an add-layer command for the current frame.
func NewAddLayer(doc *Document, name string) *AddLayer {
	return &AddLayer{
		doc:        doc,
		name:       name,
		prevActive: doc.Frames.Current().Layers.ActiveIndex(),
	}
}

// Execute implements Command.
func (c *AddLayer) Execute() error {
	stack := c.doc.Frames.Current().Layers
	if c.added == nil {
		c.added = stack.Add(c.name)
		c.index = stack.ActiveIndex()
	} else {
		if err := stack.Insert(c.index, c.added); err != nil {
			return err
		}
	}
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Undo implements Command.
func (c *AddLayer) Undo() {
	stack := c.doc.Frames.Current().Layers
	if i := stack.IndexOf(c.added); i >= 0 {
		if _, err := stack.Remove(i); err != nil {
			return
		}
	}
	_ = stack.Select(minInt(c.prevActive, stack.Len()-1))
	c.doc.Changed.Emit(struct{}{})
}

// RemoveLayer deletes the layer at an index of the active frame's
// stack.
type RemoveLayer struct {
	doc   *Document
	index int

	removed    *Layer
	prevActive int
}

// NewRemoveLayer captures a remove-layer command.
func NewRemoveLayer(doc *Document, index int) *RemoveLayer {
	return &RemoveLayer{
		doc:        doc,
		index:      index,
		prevActive: doc.Frames.Current().Layers.ActiveIndex(),
	}
}

// Execute implements Command.
func (c *RemoveLayer) Execute() error {
	stack := c.doc.Frames.Current().Layers
	removed, err := stack.Remove(c.index)
	if err != nil {
		return err
	}
	c.removed = removed
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Undo implements Command.
func (c *RemoveLayer) Undo() {
	if c.removed == nil {
		return
	}
	stack := c.doc.Frames.Current().Layers
	if err := stack.Insert(c.index, c.removed); err != nil {
		return
	}
	_ = stack.Select(c.prevActive)
	c.doc.Changed.Emit(struct{}{})
}

// DuplicateLayer clones the layer at an index and inserts the clone
// immediately above it.
type DuplicateLayer struct {
	doc   *Document
	index int

	dup        *Layer
	prevActive int
}

// NewDuplicateLayer captures a duplicate-layer command.
func NewDuplicateLayer(doc *Document, index int) *DuplicateLayer {
	return &DuplicateLayer{
		doc:        doc,
		index:      index,
		prevActive: doc.Frames.Current().Layers.ActiveIndex(),
	}
}

// Execute implements Command.
func (c *DuplicateLayer) Execute() error {
	stack := c.doc.Frames.Current().Layers
	if c.dup == nil {
		dup, err := stack.Duplicate(c.index)
		if err != nil {
			return err
		}
		c.dup = dup
	} else {
		if err := stack.Insert(c.index+1, c.dup); err != nil {
			return err
		}
	}
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Undo implements Command.
func (c *DuplicateLayer) Undo() {
	stack := c.doc.Frames.Current().Layers
	if i := stack.IndexOf(c.dup); i >= 0 {
		if _, err := stack.Remove(i); err != nil {
			return
		}
	}
	_ = stack.Select(minInt(c.prevActive, stack.Len()-1))
	c.doc.Changed.Emit(struct{}{})
}

// MoveLayer moves a layer from one index to another within the active
// frame's stack.
type MoveLayer struct {
	doc  *Document
	from int
	to   int
}

// NewMoveLayer captures a move-layer command.
func NewMoveLayer(doc *Document, from, to int) *MoveLayer {
	return &MoveLayer{doc: doc, from: from, to: to}
}

func (c *MoveLayer) move(from, to int) error {
	stack := c.doc.Frames.Current().Layers
	if from < 0 || from >= stack.Len() || to < 0 || to >= stack.Len() {
		return ErrInvalidIndex
	}
	layer := stack.layers[from]
	stack.layers = append(stack.layers[:from], stack.layers[from+1:]...)
	stack.layers = append(stack.layers[:to], append([]*Layer{layer}, stack.layers[to:]...)...)
	if stack.active == from {
		stack.active = to
	}
	stack.StructureChanged.Emit(struct{}{})
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Execute implements Command.
func (c *MoveLayer) Execute() error { return c.move(c.from, c.to) }

// Undo implements Command.
func (c *MoveLayer) Undo() { _ = c.move(c.to, c.from) }

// MergeDown composites the layer at an index over the layer below it
// and removes it. Undo restores the lower layer's pixels and
// re-inserts the merged layer.
type MergeDown struct {
	doc   *Document
	index int

	top         *Layer
	bottomPrior *Pixmap
	prevActive  int
}

// NewMergeDown captures a merge-down command.
func NewMergeDown(doc *Document, index int) *MergeDown {
	return &MergeDown{
		doc:        doc,
		index:      index,
		prevActive: doc.Frames.Current().Layers.ActiveIndex(),
	}
}

// Execute implements Command.
func (c *MergeDown) Execute() error {
	stack := c.doc.Frames.Current().Layers
	if c.index <= 0 || c.index >= stack.Len() {
		return ErrInvalidIndex
	}
	c.bottomPrior = stack.layers[c.index-1].Image.Clone()
	top, err := stack.MergeDown(c.index)
	if err != nil {
		c.bottomPrior = nil
		return err
	}
	c.top = top
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Undo implements Command.
func (c *MergeDown) Undo() {
	if c.top == nil {
		return
	}
	stack := c.doc.Frames.Current().Layers
	stack.layers[c.index-1].Image.PasteSource(c.bottomPrior, 0, 0)
	if err := stack.Insert(c.index, c.top); err != nil {
		return
	}
	_ = stack.Select(c.prevActive)
	c.doc.Changed.Emit(struct{}{})
}

// FlattenVisible replaces the active frame's stack with a single layer
// holding the composite of all visible layers. Hidden layers are
// dropped. Undo restores the full prior stack.
type FlattenVisible struct {
	doc *Document

	prior *LayerStack
}

// NewFlattenVisible captures a flatten command for the current frame.
func NewFlattenVisible(doc *Document) *FlattenVisible {
	return &FlattenVisible{doc: doc}
}

// Execute implements Command.
func (c *FlattenVisible) Execute() error {
	frame := c.doc.Frames.Current()
	if c.prior == nil {
		c.prior = frame.Layers
	}
	flat := newEmptyLayerStack(c.doc.Width(), c.doc.Height())
	flat.layers = append(flat.layers, NewLayerFromImage(c.doc.RenderFrame(frame), "Flattened"))
	flat.active = 0
	frame.Layers = flat
	c.doc.Changed.Emit(struct{}{})
	return nil
}

// Undo implements Command.
func (c *FlattenVisible) Undo() {
	if c.prior == nil {
		return
	}
	c.doc.Frames.Current().Layers = c.prior
	c.doc.Changed.Emit(struct{}{})
}
