// Command portal is the headless shell for the Pixel Portal document
// core: it loads document containers and drives exports and scripts
// without a GUI.
//
// Usage:
//
//	portal info -in doc.aole
//	portal export-png -in doc.aole -out frame.png -frame 0 -scale 8
//	portal export-gif -in doc.aole -out anim.gif -scale 8
//	portal export-tiff -in doc.aole -out layers.tiff
//	portal run-script -in doc.aole -out doc.aole -script fill.star
//	portal palette -image ref.png
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/portal"
	"github.com/gogpu/portal/script"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	portal.SetLogger(slog.Default())

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "export-png":
		err = runExportPNG(os.Args[2:])
	case "export-gif":
		err = runExportGIF(os.Args[2:])
	case "export-tiff":
		err = runExportTIFF(os.Args[2:])
	case "run-script":
		err = runScript(os.Args[2:])
	case "palette":
		err = runPalette(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "portal:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: portal <info|export-png|export-gif|export-tiff|run-script|palette> [flags]")
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	in := fs.String("in", "", "document container")
	fs.Parse(args)

	doc, err := portal.LoadDocumentFile(*in)
	if err != nil {
		return err
	}
	fmt.Printf("%dx%d, %d frames, keys %v, %d fps, %d playback frames\n",
		doc.Width(), doc.Height(), doc.Frames.Len(), doc.Frames.Keys(),
		doc.Frames.FPS, doc.Frames.PlaybackTotal)
	for i, f := range doc.Frames.Frames() {
		fmt.Printf("  frame %d: %d layers\n", i, f.Layers.Len())
		for j, l := range f.Layers.Layers() {
			fmt.Printf("    %d: %q visible=%v opacity=%.2f\n", j, l.Name(), l.Visible(), l.Opacity())
		}
	}
	return nil
}

func runExportPNG(args []string) error {
	fs := flag.NewFlagSet("export-png", flag.ExitOnError)
	in := fs.String("in", "", "document container")
	out := fs.String("out", "frame.png", "output file")
	frame := fs.Int("frame", 0, "playback index")
	scale := fs.Int("scale", 1, "integer pixel size")
	fs.Parse(args)

	doc, err := portal.LoadDocumentFile(*in)
	if err != nil {
		return err
	}
	return portal.ExportPNGFile(doc, *frame, *scale, *out)
}

func runExportGIF(args []string) error {
	fs := flag.NewFlagSet("export-gif", flag.ExitOnError)
	in := fs.String("in", "", "document container")
	out := fs.String("out", "anim.gif", "output file")
	scale := fs.Int("scale", 1, "integer pixel size")
	fs.Parse(args)

	doc, err := portal.LoadDocumentFile(*in)
	if err != nil {
		return err
	}
	return portal.ExportGIFFile(doc, *scale, *out)
}

func runExportTIFF(args []string) error {
	fs := flag.NewFlagSet("export-tiff", flag.ExitOnError)
	in := fs.String("in", "", "document container")
	out := fs.String("out", "layers.tiff", "output file")
	frame := fs.Int("frame", 0, "playback index")
	fs.Parse(args)

	doc, err := portal.LoadDocumentFile(*in)
	if err != nil {
		return err
	}
	return portal.ExportTIFFFile(doc.Frames.ResolveFrame(*frame), *out)
}

func runScript(args []string) error {
	fs := flag.NewFlagSet("run-script", flag.ExitOnError)
	in := fs.String("in", "", "document container")
	out := fs.String("out", "", "output container (defaults to -in)")
	path := fs.String("script", "", "Starlark script")
	fs.Parse(args)

	doc, err := portal.LoadDocumentFile(*in)
	if err != nil {
		return err
	}
	if err := script.New(doc, headlessHost{}).Run(*path, nil); err != nil {
		return err
	}
	if *out == "" {
		*out = *in
	}
	return portal.SaveDocumentFile(doc, *out)
}

func runPalette(args []string) error {
	fs := flag.NewFlagSet("palette", flag.ExitOnError)
	img := fs.String("image", "", "image to cluster")
	fs.Parse(args)

	colors, err := portal.ExtractPaletteFile(*img)
	if err != nil {
		return err
	}
	for _, c := range colors {
		fmt.Println(c)
	}
	return nil
}

// headlessHost answers scripts without a UI: parameter requests return
// the defaults and messages go to stdout.
type headlessHost struct{}

func (headlessHost) GetParameters(specs []script.ParamSpec) (map[string]any, error) {
	values := map[string]any{}
	for _, s := range specs {
		values[s.Name] = s.Default
	}
	return values, nil
}

func (headlessHost) ShowMessage(title, message string) {
	fmt.Printf("[%s] %s\n", title, message)
}
