package portal

import "fmt"

// LayerStack is an ordered list of layers with an active index. Index
// 0 is the bottom layer. A stack always holds at least one layer, and
// the active index is always valid.
type LayerStack struct {
	width  int
	height int
	layers []*Layer
	active int

	// StructureChanged fires after any add/remove/move/merge.
	StructureChanged Signal[struct{}]
}

// NewLayerStack creates a stack with a single "Background" layer.
func NewLayerStack(width, height int) *LayerStack {
	s := &LayerStack{width: width, height: height}
	s.layers = append(s.layers, NewLayer(width, height, "Background"))
	s.active = 0
	return s
}

// newEmptyLayerStack creates a stack with no layers. Callers must add
// at least one layer before the stack is handed out; the deserializer
// and deep-copy paths use this.
func newEmptyLayerStack(width, height int) *LayerStack {
	return &LayerStack{width: width, height: height}
}

// Len returns the number of layers.
func (s *LayerStack) Len() int { return len(s.layers) }

// Layers returns the layer slice, bottom first. Callers must not
// modify the slice; use the structural operations.
func (s *LayerStack) Layers() []*Layer { return s.layers }

// ActiveIndex returns the index of the active layer.
func (s *LayerStack) ActiveIndex() int { return s.active }

// Active returns the active layer.
func (s *LayerStack) Active() *Layer { return s.layers[s.active] }

// Layer returns the layer at index i.
func (s *LayerStack) Layer(i int) (*Layer, error) {
	if err := s.check(i); err != nil {
		return nil, err
	}
	return s.layers[i], nil
}

// IndexOf returns the current index of layer, or -1 when the layer is
// not in the stack.
func (s *LayerStack) IndexOf(layer *Layer) int {
	for i, l := range s.layers {
		if l == layer {
			return i
		}
	}
	return -1
}

func (s *LayerStack) check(i int) error {
	if i < 0 || i >= len(s.layers) {
		return fmt.Errorf("layer %d of %d: %w", i, len(s.layers), ErrInvalidIndex)
	}
	return nil
}

// Add appends a new transparent layer on top and makes it active.
func (s *LayerStack) Add(name string) *Layer {
	l := NewLayer(s.width, s.height, name)
	s.layers = append(s.layers, l)
	s.active = len(s.layers) - 1
	s.StructureChanged.Emit(struct{}{})
	return l
}

// Insert places layer at index i, shifting layers at and above i up,
// and makes it active. Used by undo paths to re-insert a removed layer
// at its original position.
func (s *LayerStack) Insert(i int, layer *Layer) error {
	if i < 0 || i > len(s.layers) {
		return fmt.Errorf("insert at %d of %d: %w", i, len(s.layers), ErrInvalidIndex)
	}
	s.layers = append(s.layers, nil)
	copy(s.layers[i+1:], s.layers[i:])
	s.layers[i] = layer
	s.active = i
	s.StructureChanged.Emit(struct{}{})
	return nil
}

// Remove deletes the layer at index i. Removing the last remaining
// layer fails with ErrLastLayer. The active index shifts down when it
// was at or above i, clamped into the new range.
func (s *LayerStack) Remove(i int) (*Layer, error) {
	if err := s.check(i); err != nil {
		return nil, err
	}
	if len(s.layers) == 1 {
		return nil, ErrLastLayer
	}
	removed := s.layers[i]
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	if s.active >= i {
		s.active = maxInt(0, s.active-1)
	}
	s.StructureChanged.Emit(struct{}{})
	return removed, nil
}

// Duplicate clones the layer at index i, inserts the clone immediately
// above, and makes it active.
func (s *LayerStack) Duplicate(i int) (*Layer, error) {
	if err := s.check(i); err != nil {
		return nil, err
	}
	clone := s.layers[i].Clone()
	clone.SetName(s.layers[i].Name() + " copy")
	if err := s.Insert(i+1, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// MoveUp swaps the layer at index i with its upper neighbor. Moving
// the top layer fails with ErrInvalidIndex.
func (s *LayerStack) MoveUp(i int) error {
	if i < 0 || i >= len(s.layers)-1 {
		return fmt.Errorf("move up %d of %d: %w", i, len(s.layers), ErrInvalidIndex)
	}
	s.layers[i], s.layers[i+1] = s.layers[i+1], s.layers[i]
	switch s.active {
	case i:
		s.active = i + 1
	case i + 1:
		s.active = i
	}
	s.StructureChanged.Emit(struct{}{})
	return nil
}

// MoveDown swaps the layer at index i with its lower neighbor. Moving
// the bottom layer fails with ErrInvalidIndex.
func (s *LayerStack) MoveDown(i int) error {
	if i <= 0 || i >= len(s.layers) {
		return fmt.Errorf("move down %d of %d: %w", i, len(s.layers), ErrInvalidIndex)
	}
	s.layers[i], s.layers[i-1] = s.layers[i-1], s.layers[i]
	switch s.active {
	case i:
		s.active = i - 1
	case i - 1:
		s.active = i
	}
	s.StructureChanged.Emit(struct{}{})
	return nil
}

// MergeDown composites the layer at index i over the layer below it
// using source-over with the top layer's opacity, then removes the top
// layer. Requires i > 0.
func (s *LayerStack) MergeDown(i int) (*Layer, error) {
	if i <= 0 || i >= len(s.layers) {
		return nil, fmt.Errorf("merge down %d of %d: %w", i, len(s.layers), ErrInvalidIndex)
	}
	top := s.layers[i]
	bottom := s.layers[i-1]
	bottom.Image.Blit(top.Image, 0, 0, top.opacity255())
	return s.Remove(i)
}

// ToggleVisibility flips the visibility of the layer at index i.
func (s *LayerStack) ToggleVisibility(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.layers[i].SetVisible(!s.layers[i].Visible())
	return nil
}

// Select makes the layer at index i active.
func (s *LayerStack) Select(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.active = i
	return nil
}

// Clone returns a deep copy of the stack: all layers cloned, same
// active index, no shared buffers.
func (s *LayerStack) Clone() *LayerStack {
	out := newEmptyLayerStack(s.width, s.height)
	for _, l := range s.layers {
		out.layers = append(out.layers, l.Clone())
	}
	out.active = s.active
	return out
}
