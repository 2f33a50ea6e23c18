package portal

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	xtiff "golang.org/x/image/tiff"
)

// Layered TIFF interchange: one IFD per layer, uncompressed RGBA with
// unassociated alpha, layer metadata carried as a JSON blob in the
// ImageDescription tag. golang.org/x/image/tiff reads and writes only
// a single IFD, so the multi-IFD framing is done here; foreign TIFFs
// are still imported through the x/image decoder (first IFD only).

// TIFF tag and type ids used by the layered codec.
const (
	tagImageWidth     = 256
	tagImageLength    = 257
	tagBitsPerSample  = 258
	tagCompression    = 259
	tagPhotometric    = 262
	tagImageDesc      = 270
	tagStripOffsets   = 273
	tagSamplesPerPix  = 277
	tagRowsPerStrip   = 278
	tagStripByteCount = 279
	tagExtraSamples   = 338

	typeASCII = 2
	typeShort = 3
	typeLong  = 4

	compressionNone = 1
	photometricRGB  = 2
	// extraSamples value for straight (unassociated) alpha.
	alphaUnassociated = 2
)

// layerMeta is the sidecar JSON blob stored per IFD.
type layerMeta struct {
	Name    string  `json:"name"`
	Visible bool    `json:"visible"`
	Opacity float64 `json:"opacity"`
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value uint32
}

// ExportTIFF writes the layers of frame as a multi-IFD TIFF to w,
// bottom layer first.
func ExportTIFF(frame *Frame, w io.Writer) error {
	layers := frame.Layers.Layers()

	var buf bytes.Buffer
	le := binary.LittleEndian
	buf.WriteString("II")
	binary.Write(&buf, le, uint16(42))
	binary.Write(&buf, le, uint32(0)) // first IFD offset, patched below

	// Data section: pixels, descriptions, and bits arrays per layer,
	// with recorded offsets.
	type layerOffsets struct {
		strip, stripLen uint32
		desc, descLen   uint32
		bits            uint32
		width, height   uint32
	}
	offs := make([]layerOffsets, len(layers))
	pad := func() {
		if buf.Len()%2 == 1 {
			buf.WriteByte(0)
		}
	}
	for i, l := range layers {
		meta, err := json.Marshal(layerMeta{Name: l.Name(), Visible: l.Visible(), Opacity: l.Opacity()})
		if err != nil {
			return fmt.Errorf("encode layer metadata: %w", err)
		}
		meta = append(meta, 0) // ASCII values are NUL-terminated

		pad()
		offs[i].strip = uint32(buf.Len())
		offs[i].stripLen = uint32(len(l.Image.Data()))
		buf.Write(l.Image.Data())

		pad()
		offs[i].desc = uint32(buf.Len())
		offs[i].descLen = uint32(len(meta))
		buf.Write(meta)

		pad()
		offs[i].bits = uint32(buf.Len())
		for j := 0; j < 4; j++ {
			binary.Write(&buf, le, uint16(8))
		}

		offs[i].width = uint32(l.Image.Width())
		offs[i].height = uint32(l.Image.Height())
	}

	// IFD chain. Every IFD has the same entry count, so offsets are
	// computable up front.
	pad()
	const entriesPerIFD = 11
	ifdSize := uint32(2 + entriesPerIFD*12 + 4)
	firstIFD := uint32(buf.Len())

	for i := range layers {
		o := offs[i]
		entries := []ifdEntry{
			{tagImageWidth, typeLong, 1, o.width},
			{tagImageLength, typeLong, 1, o.height},
			{tagBitsPerSample, typeShort, 4, o.bits},
			{tagCompression, typeShort, 1, compressionNone},
			{tagPhotometric, typeShort, 1, photometricRGB},
			{tagImageDesc, typeASCII, o.descLen, o.desc},
			{tagStripOffsets, typeLong, 1, o.strip},
			{tagSamplesPerPix, typeShort, 1, 4},
			{tagRowsPerStrip, typeLong, 1, o.height},
			{tagStripByteCount, typeLong, 1, o.stripLen},
			{tagExtraSamples, typeShort, 1, alphaUnassociated},
		}
		binary.Write(&buf, le, uint16(len(entries)))
		for _, e := range entries {
			binary.Write(&buf, le, e.tag)
			binary.Write(&buf, le, e.typ)
			binary.Write(&buf, le, e.count)
			// SHORT values with count 1 are stored inline,
			// left-justified in the 4-byte value field.
			binary.Write(&buf, le, e.value)
		}
		next := uint32(0)
		if i+1 < len(layers) {
			next = firstIFD + uint32(i+1)*ifdSize
		}
		binary.Write(&buf, le, next)
	}

	out := buf.Bytes()
	le.PutUint32(out[4:8], firstIFD)
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write tiff: %w", err)
	}
	return nil
}

// ExportTIFFFile writes the layers of frame as a multi-IFD TIFF file.
func ExportTIFFFile(frame *Frame, path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("export tiff: %w", err)
	}
	if err := ExportTIFF(frame, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportTIFF reads a multi-IFD TIFF produced by ExportTIFF back into a
// frame. Only the layered codec's shape (uncompressed RGBA strips) is
// accepted; use x/image/tiff for foreign single-IFD files.
func ImportTIFF(data []byte) (*Frame, error) {
	le := binary.LittleEndian
	if len(data) < 8 || data[0] != 'I' || data[1] != 'I' || le.Uint16(data[2:4]) != 42 {
		return nil, fmt.Errorf("import tiff: not a little-endian TIFF")
	}

	var stack *LayerStack
	ifdOff := le.Uint32(data[4:8])
	for ifdOff != 0 {
		if int(ifdOff)+2 > len(data) {
			return nil, fmt.Errorf("import tiff: IFD offset out of range")
		}
		n := int(le.Uint16(data[ifdOff : ifdOff+2]))
		base := int(ifdOff) + 2
		if base+n*12+4 > len(data) {
			return nil, fmt.Errorf("import tiff: truncated IFD")
		}

		var width, height, strip, stripLen, desc, descLen, compression uint32
		compression = compressionNone
		for i := 0; i < n; i++ {
			e := data[base+i*12 : base+(i+1)*12]
			tag := le.Uint16(e[0:2])
			typ := le.Uint16(e[2:4])
			count := le.Uint32(e[4:8])
			value := le.Uint32(e[8:12])
			if typ == typeShort && count == 1 {
				value = uint32(le.Uint16(e[8:10]))
			}
			switch tag {
			case tagImageWidth:
				width = value
			case tagImageLength:
				height = value
			case tagCompression:
				compression = value
			case tagImageDesc:
				desc, descLen = value, count
			case tagStripOffsets:
				strip = value
			case tagStripByteCount:
				stripLen = value
			}
		}
		if compression != compressionNone {
			return nil, fmt.Errorf("import tiff: unsupported compression %d", compression)
		}
		if width == 0 || height == 0 || stripLen != width*height*4 ||
			int(strip)+int(stripLen) > len(data) {
			return nil, fmt.Errorf("import tiff: malformed layer IFD")
		}

		meta := layerMeta{Name: "Layer", Visible: true, Opacity: 1}
		if descLen > 0 && int(desc)+int(descLen) <= len(data) {
			raw := bytes.TrimRight(data[desc:desc+descLen], "\x00")
			if err := json.Unmarshal(raw, &meta); err != nil {
				logger().Warn("tiff layer metadata unreadable", "err", err)
			}
		}

		l := NewLayer(int(width), int(height), meta.Name)
		l.SetVisible(meta.Visible)
		l.SetOpacity(meta.Opacity)
		copy(l.Image.Data(), data[strip:strip+stripLen])

		if stack == nil {
			stack = newEmptyLayerStack(int(width), int(height))
		}
		stack.layers = append(stack.layers, l)

		ifdOff = le.Uint32(data[base+n*12 : base+n*12+4])
	}
	if stack == nil || len(stack.layers) == 0 {
		return nil, fmt.Errorf("import tiff: no layers")
	}
	stack.active = len(stack.layers) - 1
	return &Frame{Layers: stack}, nil
}

// DecodeTIFFImage decodes a foreign single-IFD TIFF into a pixmap
// using the x/image decoder.
func DecodeTIFFImage(r io.Reader) (*Pixmap, error) {
	img, err := xtiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode tiff: %w", err)
	}
	return FromImage(img), nil
}
