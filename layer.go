package portal

import "image"

// Layer is a named raster with visibility and opacity. Its pixmap
// always has the owning document's dimensions.
type Layer struct {
	name    string
	visible bool
	opacity float64
	Image   *Pixmap

	// NameChanged fires with the new name after a successful rename.
	NameChanged Signal[string]
	// VisibilityChanged fires after a visibility flip.
	VisibilityChanged Signal[bool]
}

// NewLayer creates a fully transparent layer. The name must be
// non-empty; an empty name falls back to "Layer".
func NewLayer(width, height int, name string) *Layer {
	if name == "" {
		name = "Layer"
	}
	return &Layer{
		name:    name,
		visible: true,
		opacity: 1.0,
		Image:   NewPixmap(width, height),
	}
}

// NewLayerFromImage creates a layer owning the given pixmap.
func NewLayerFromImage(img *Pixmap, name string) *Layer {
	l := NewLayer(img.Width(), img.Height(), name)
	l.Image = img
	return l
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// SetName renames the layer. Empty names are ignored.
func (l *Layer) SetName(name string) {
	if name == "" || name == l.name {
		return
	}
	l.name = name
	l.NameChanged.Emit(name)
}

// Visible reports whether the layer participates in compositing.
func (l *Layer) Visible() bool { return l.visible }

// SetVisible sets layer visibility.
func (l *Layer) SetVisible(v bool) {
	if l.visible == v {
		return
	}
	l.visible = v
	l.VisibilityChanged.Emit(v)
}

// Opacity returns the layer opacity in [0, 1].
func (l *Layer) Opacity() float64 { return l.opacity }

// SetOpacity sets the layer opacity, clamped to [0, 1].
func (l *Layer) SetOpacity(o float64) {
	if o < 0 {
		o = 0
	} else if o > 1 {
		o = 1
	}
	l.opacity = o
}

// opacity255 returns the opacity as a byte for the compositor.
func (l *Layer) opacity255() uint8 {
	return uint8(l.opacity*255 + 0.5)
}

// Clear fills the layer with transparent inside the selection, or the
// entire image when selection is nil or empty.
func (l *Layer) Clear(selection *Selection) {
	if selection == nil || selection.Empty() {
		l.Image.Clear(Transparent)
		return
	}
	for _, r := range selection.Runs() {
		l.Image.FillRect(image.Rect(r.X0, r.Y, r.X1, r.Y+1), Transparent)
	}
}

// Clone returns a deep copy of the layer: image and metadata, no
// shared buffers.
func (l *Layer) Clone() *Layer {
	out := NewLayer(l.Image.Width(), l.Image.Height(), l.name)
	out.visible = l.visible
	out.opacity = l.opacity
	out.Image = l.Image.Clone()
	return out
}
