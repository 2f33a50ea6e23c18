// Package script exposes the document core to user scripts.
//
// Scripts are Starlark programs executed against a live document. The
// environment provides layer access, a parameter-request mechanism,
// and message boxes; the host supplies the interactive parts through
// the Host interface, so a batch runner can script documents without
// any UI by answering with defaults.
//
// Example script:
//
//	layer = create_layer("checker")
//
//	def paint(img):
//	    for y in range(img.height()):
//	        for x in range(img.width()):
//	            if (x + y) % 2 == 0:
//	                img.set_pixel(x, y, 0, 0, 0, 255)
//
//	modify_layer(layer, paint)
package script

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/gogpu/portal"
)

// ParamType is the widget kind of a requested parameter.
type ParamType string

// Parameter types.
const (
	ParamNumber   ParamType = "number"
	ParamColor    ParamType = "color"
	ParamCheckbox ParamType = "checkbox"
	ParamSlider   ParamType = "slider"
)

// ParamSpec describes one parameter a script requests from the user.
type ParamSpec struct {
	Name    string
	Type    ParamType
	Label   string
	Default any
	Min     *float64
	Max     *float64
}

// Host supplies the interactive services scripts may call. A headless
// host can return every default unchanged.
type Host interface {
	// GetParameters shows the parameter dialog and returns the
	// user-confirmed values keyed by spec name.
	GetParameters(specs []ParamSpec) (map[string]any, error)
	// ShowMessage displays a message box.
	ShowMessage(title, message string)
}

// Engine runs scripts against a document.
type Engine struct {
	doc  *portal.Document
	host Host
}

// New creates a script engine for doc. The host may be nil, in which
// case parameter requests return the defaults and message boxes are
// discarded.
func New(doc *portal.Document, host Host) *Engine {
	return &Engine{doc: doc, host: host}
}

// Run executes a script. src may be nil (read from filename), a
// string, or a byte slice.
func (e *Engine) Run(filename string, src any) error {
	thread := &starlark.Thread{Name: "portal-script"}
	_, err := starlark.ExecFile(thread, filename, src, e.builtins())
	if err != nil {
		return fmt.Errorf("script %q: %w", filename, err)
	}
	return nil
}

func (e *Engine) builtins() starlark.StringDict {
	return starlark.StringDict{
		"get_active_layer": starlark.NewBuiltin("get_active_layer", e.getActiveLayer),
		"get_all_layers":   starlark.NewBuiltin("get_all_layers", e.getAllLayers),
		"create_layer":     starlark.NewBuiltin("create_layer", e.createLayer),
		"modify_layer":     starlark.NewBuiltin("modify_layer", e.modifyLayer),
		"get_parameters":   starlark.NewBuiltin("get_parameters", e.getParameters),
		"show_message_box": starlark.NewBuiltin("show_message_box", e.showMessageBox),
	}
}

func (e *Engine) getActiveLayer(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return &layerValue{layer: e.doc.ActiveLayer()}, nil
}

func (e *Engine) getAllLayers(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	var elems []starlark.Value
	for _, l := range e.doc.Frames.Current().Layers.Layers() {
		elems = append(elems, &layerValue{layer: l})
	}
	return starlark.NewList(elems), nil
}

func (e *Engine) createLayer(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	layer := e.doc.Frames.Current().Layers.Add(name)
	e.doc.Changed.Emit(struct{}{})
	return &layerValue{layer: layer}, nil
}

func (e *Engine) modifyLayer(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var layerArg starlark.Value
	var fn starlark.Callable
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "layer", &layerArg, "fn", &fn); err != nil {
		return nil, err
	}
	lv, ok := layerArg.(*layerValue)
	if !ok {
		return nil, fmt.Errorf("%s: layer argument is %s, want layer", b.Name(), layerArg.Type())
	}
	img := &imageValue{pix: lv.layer.Image}
	if _, err := starlark.Call(thread, fn, starlark.Tuple{img}, nil); err != nil {
		return nil, err
	}
	e.doc.Changed.Emit(struct{}{})
	return starlark.None, nil
}

func (e *Engine) getParameters(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var specList *starlark.List
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "spec", &specList); err != nil {
		return nil, err
	}
	specs, err := parseParamSpecs(specList)
	if err != nil {
		return nil, err
	}

	values := map[string]any{}
	if e.host != nil {
		values, err = e.host.GetParameters(specs)
		if err != nil {
			return nil, err
		}
	} else {
		for _, s := range specs {
			values[s.Name] = s.Default
		}
	}

	out := starlark.NewDict(len(values))
	for _, s := range specs {
		v, ok := values[s.Name]
		if !ok {
			v = s.Default
		}
		if err := out.SetKey(starlark.String(s.Name), toStarlark(v)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *Engine) showMessageBox(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var title, message string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "title", &title, "message", &message); err != nil {
		return nil, err
	}
	if e.host != nil {
		e.host.ShowMessage(title, message)
	}
	return starlark.None, nil
}

// parseParamSpecs converts the script-side parameter list (a list of
// dicts) into ParamSpecs.
func parseParamSpecs(list *starlark.List) ([]ParamSpec, error) {
	specs := make([]ParamSpec, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		d, ok := list.Index(i).(*starlark.Dict)
		if !ok {
			return nil, fmt.Errorf("get_parameters: spec %d is not a dict", i)
		}
		spec := ParamSpec{Type: ParamNumber}
		if v, found, _ := d.Get(starlark.String("name")); found {
			s, _ := starlark.AsString(v)
			spec.Name = s
		}
		if spec.Name == "" {
			return nil, fmt.Errorf("get_parameters: spec %d has no name", i)
		}
		if v, found, _ := d.Get(starlark.String("type")); found {
			s, _ := starlark.AsString(v)
			spec.Type = ParamType(s)
		}
		if v, found, _ := d.Get(starlark.String("label")); found {
			s, _ := starlark.AsString(v)
			spec.Label = s
		}
		if v, found, _ := d.Get(starlark.String("default")); found {
			spec.Default = fromStarlark(v)
		}
		if v, found, _ := d.Get(starlark.String("min")); found {
			if f, ok := starlark.AsFloat(v); ok {
				spec.Min = &f
			}
		}
		if v, found, _ := d.Get(starlark.String("max")); found {
			if f, ok := starlark.AsFloat(v); ok {
				spec.Max = &f
			}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// toStarlark converts a host value into a Starlark value.
func toStarlark(v any) starlark.Value {
	switch t := v.(type) {
	case nil:
		return starlark.None
	case bool:
		return starlark.Bool(t)
	case int:
		return starlark.MakeInt(t)
	case float64:
		return starlark.Float(t)
	case string:
		return starlark.String(t)
	case portal.Color:
		return starlark.String(t.HexString())
	default:
		return starlark.String(fmt.Sprint(t))
	}
}

// fromStarlark converts a Starlark value into a host value.
func fromStarlark(v starlark.Value) any {
	switch t := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(t)
	case starlark.Int:
		if i, err := starlark.AsInt32(t); err == nil {
			return i
		}
		return t.String()
	case starlark.Float:
		return float64(t)
	case starlark.String:
		return string(t)
	default:
		return v.String()
	}
}
