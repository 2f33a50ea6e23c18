package script

import (
	"strings"
	"testing"

	"github.com/gogpu/portal"
)

// recordingHost captures script-host interactions for assertions.
type recordingHost struct {
	specs    []ParamSpec
	answers  map[string]any
	messages []string
}

func (h *recordingHost) GetParameters(specs []ParamSpec) (map[string]any, error) {
	h.specs = specs
	if h.answers != nil {
		return h.answers, nil
	}
	values := map[string]any{}
	for _, s := range specs {
		values[s.Name] = s.Default
	}
	return values, nil
}

func (h *recordingHost) ShowMessage(title, message string) {
	h.messages = append(h.messages, title+": "+message)
}

func TestScriptPaintsLayer(t *testing.T) {
	doc := portal.NewDocument(4, 4)
	eng := New(doc, nil)

	src := `
layer = create_layer("checker")

def paint(img):
    for y in range(img.height()):
        for x in range(img.width()):
            if (x + y) % 2 == 0:
                img.set_pixel(x, y, 0, 0, 0, 255)

modify_layer(layer, paint)
`
	if err := eng.Run("checker.star", src); err != nil {
		t.Fatal(err)
	}

	stack := doc.Frames.Current().Layers
	if stack.Len() != 2 || stack.Active().Name() != "checker" {
		t.Fatalf("layer not created: len=%d active=%q", stack.Len(), stack.Active().Name())
	}
	img := stack.Active().Image
	if img.GetPixel(0, 0).A == 0 || img.GetPixel(1, 1).A == 0 {
		t.Error("even pixels not painted")
	}
	if img.GetPixel(1, 0).A != 0 {
		t.Error("odd pixel painted")
	}
}

func TestScriptLayerAccess(t *testing.T) {
	doc := portal.NewDocument(3, 3)
	doc.Frames.Current().Layers.Add("ink")
	eng := New(doc, nil)

	src := `
layers = get_all_layers()
active = get_active_layer()
if len(layers) != 2:
    fail("want 2 layers, got %d" % len(layers))
if active.name != "ink":
    fail("active is %s" % active.name)
if active.width != 3 or active.height != 3:
    fail("bad dims")
`
	if err := eng.Run("inspect.star", src); err != nil {
		t.Fatal(err)
	}
}

func TestScriptGetParameters(t *testing.T) {
	doc := portal.NewDocument(2, 2)
	host := &recordingHost{answers: map[string]any{"size": 5, "outline": true}}
	eng := New(doc, host)

	src := `
params = get_parameters([
    {"name": "size", "type": "slider", "label": "Size", "default": 3, "min": 1, "max": 10},
    {"name": "outline", "type": "checkbox", "label": "Outline", "default": False},
])
if params["size"] != 5:
    fail("size = %s" % params["size"])
if not params["outline"]:
    fail("outline not set")
show_message_box("done", "size confirmed")
`
	if err := eng.Run("params.star", src); err != nil {
		t.Fatal(err)
	}

	if len(host.specs) != 2 || host.specs[0].Name != "size" || host.specs[0].Type != ParamSlider {
		t.Errorf("specs not forwarded: %+v", host.specs)
	}
	if host.specs[0].Min == nil || *host.specs[0].Min != 1 || host.specs[0].Max == nil || *host.specs[0].Max != 10 {
		t.Error("slider range not forwarded")
	}
	if len(host.messages) != 1 || host.messages[0] != "done: size confirmed" {
		t.Errorf("messages = %v", host.messages)
	}
}

func TestScriptErrorsSurface(t *testing.T) {
	eng := New(portal.NewDocument(2, 2), nil)
	src := `
def noop(img):
    pass

modify_layer(42, noop)
`
	err := eng.Run("broken.star", src)
	if err == nil {
		t.Fatal("expected an error for a bad layer argument")
	}
	if !strings.Contains(err.Error(), "layer") {
		t.Errorf("error %q does not mention the layer argument", err)
	}
}
