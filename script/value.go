package script

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/gogpu/portal"
)

// layerValue wraps a document layer for scripts.
type layerValue struct {
	layer *portal.Layer
}

var (
	_ starlark.Value    = (*layerValue)(nil)
	_ starlark.HasAttrs = (*layerValue)(nil)
)

func (l *layerValue) String() string {
	return fmt.Sprintf("<layer %q>", l.layer.Name())
}
func (l *layerValue) Type() string          { return "layer" }
func (l *layerValue) Freeze()               {}
func (l *layerValue) Truth() starlark.Bool  { return starlark.True }
func (l *layerValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: layer") }

func (l *layerValue) AttrNames() []string {
	return []string{"name", "visible", "opacity", "width", "height"}
}

func (l *layerValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "name":
		return starlark.String(l.layer.Name()), nil
	case "visible":
		return starlark.Bool(l.layer.Visible()), nil
	case "opacity":
		return starlark.Float(l.layer.Opacity()), nil
	case "width":
		return starlark.MakeInt(l.layer.Image.Width()), nil
	case "height":
		return starlark.MakeInt(l.layer.Image.Height()), nil
	}
	return nil, nil
}

// imageValue wraps a pixel buffer for modify_layer callbacks.
type imageValue struct {
	pix *portal.Pixmap
}

var (
	_ starlark.Value    = (*imageValue)(nil)
	_ starlark.HasAttrs = (*imageValue)(nil)
)

func (v *imageValue) String() string {
	return fmt.Sprintf("<image %dx%d>", v.pix.Width(), v.pix.Height())
}
func (v *imageValue) Type() string          { return "image" }
func (v *imageValue) Freeze()               {}
func (v *imageValue) Truth() starlark.Bool  { return starlark.True }
func (v *imageValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: image") }

func (v *imageValue) AttrNames() []string {
	return []string{"width", "height", "get_pixel", "set_pixel", "fill"}
}

func (v *imageValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "width":
		return starlark.NewBuiltin("width", v.width), nil
	case "height":
		return starlark.NewBuiltin("height", v.height), nil
	case "get_pixel":
		return starlark.NewBuiltin("get_pixel", v.getPixel), nil
	case "set_pixel":
		return starlark.NewBuiltin("set_pixel", v.setPixel), nil
	case "fill":
		return starlark.NewBuiltin("fill", v.fill), nil
	}
	return nil, nil
}

func (v *imageValue) width(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(v.pix.Width()), nil
}

func (v *imageValue) height(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(v.pix.Height()), nil
}

func (v *imageValue) getPixel(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "x", &x, "y", &y); err != nil {
		return nil, err
	}
	c := v.pix.GetPixel(x, y)
	return starlark.Tuple{
		starlark.MakeInt(int(c.R)),
		starlark.MakeInt(int(c.G)),
		starlark.MakeInt(int(c.B)),
		starlark.MakeInt(int(c.A)),
	}, nil
}

func clampChannel(c int) uint8 {
	if c < 0 {
		return 0
	}
	if c > 255 {
		return 255
	}
	return uint8(c)
}

func (v *imageValue) setPixel(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y, r, g, bl int
	a := 255
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"x", &x, "y", &y, "r", &r, "g", &g, "b", &bl, "a?", &a); err != nil {
		return nil, err
	}
	v.pix.SetPixel(x, y, portal.Color{
		R: clampChannel(r), G: clampChannel(g), B: clampChannel(bl), A: clampChannel(a),
	})
	return starlark.None, nil
}

func (v *imageValue) fill(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var r, g, bl int
	a := 255
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"r", &r, "g", &g, "b", &bl, "a?", &a); err != nil {
		return nil, err
	}
	v.pix.Clear(portal.Color{
		R: clampChannel(r), G: clampChannel(g), B: clampChannel(bl), A: clampChannel(a),
	})
	return starlark.None, nil
}
