package portal

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"github.com/ulikunitz/xz/lzma"
)

// Document container: a zip archive holding a single entry "data",
// compressed with LZMA, whose payload is the versioned binary blob
// produced by encodeDocument.

const (
	containerEntry = "data"
	// zipMethodLZMA is the zip compression method id for LZMA.
	zipMethodLZMA uint16 = 14

	blobMagic   uint32 = 0x504c5850 // bytes "PXLP" when written little-endian
	blobVersion uint16 = 1
)

// SaveDocument writes the document container to w.
func SaveDocument(doc *Document, w io.Writer) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zipMethodLZMA, func(out io.Writer) (io.WriteCloser, error) {
		return lzma.NewWriter(out)
	})
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:   containerEntry,
		Method: zipMethodLZMA,
	})
	if err != nil {
		return fmt.Errorf("create container entry: %w", err)
	}
	if _, err := entry.Write(encodeDocument(doc)); err != nil {
		return fmt.Errorf("write container entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close container: %w", err)
	}
	return nil
}

// SaveDocumentFile writes the document container to path.
func SaveDocumentFile(doc *Document, path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if err := SaveDocument(doc, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	logger().Info("document saved", "path", path)
	return nil
}

// LoadDocument reads a document container from r.
func LoadDocument(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	zr.RegisterDecompressor(zipMethodLZMA, func(in io.Reader) io.ReadCloser {
		lr, err := lzma.NewReader(in)
		if err != nil {
			return io.NopCloser(&errReader{err: err})
		}
		return io.NopCloser(lr)
	})
	for _, f := range zr.File {
		if f.Name != containerEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open container entry: %w", err)
		}
		blob, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read container entry: %w", err)
		}
		return decodeDocument(blob)
	}
	return nil, fmt.Errorf("container entry %q missing", containerEntry)
}

// LoadDocumentFile reads a document container from path.
func LoadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return LoadDocument(f, st.Size())
}

type errReader struct{ err error }

func (r *errReader) Read([]byte) (int, error) { return 0, r.err }

// blobWriter accumulates the little-endian blob in memory; writes to
// its buffer cannot fail, so it tracks no error.
type blobWriter struct {
	buf bytes.Buffer
}

func (w *blobWriter) u8(v uint8)   { w.buf.WriteByte(v) }
func (w *blobWriter) u16(v uint16) { binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *blobWriter) u32(v uint32) { binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *blobWriter) i32(v int)    { w.u32(uint32(int32(v))) }
func (w *blobWriter) f64(v float64) {
	binary.Write(&w.buf, binary.LittleEndian, math.Float64bits(v))
}
func (w *blobWriter) str(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

// encodeDocument serializes the full document state: dimensions, frame
// list with layers, selection runs, AI output rect, current frame
// index, key set, and playback parameters.
func encodeDocument(doc *Document) []byte {
	w := &blobWriter{}
	w.u32(blobMagic)
	w.u16(blobVersion)
	w.i32(doc.Width())
	w.i32(doc.Height())
	w.i32(doc.Frames.CurrentIndex())
	w.i32(doc.Frames.FPS)
	w.i32(doc.Frames.PlaybackTotal)

	keys := doc.Frames.Keys()
	w.u32(uint32(len(keys)))
	for _, k := range keys {
		w.i32(k)
	}

	frames := doc.Frames.Frames()
	w.u32(uint32(len(frames)))
	for _, f := range frames {
		w.u32(uint32(f.Layers.Len()))
		w.i32(f.Layers.ActiveIndex())
		for _, l := range f.Layers.Layers() {
			w.str(l.Name())
			if l.Visible() {
				w.u8(1)
			} else {
				w.u8(0)
			}
			w.f64(l.Opacity())
			w.buf.Write(l.Image.Data())
		}
	}

	sel := doc.Selection()
	if sel == nil {
		w.u8(0)
	} else {
		w.u8(1)
		runs := sel.Runs()
		w.u32(uint32(len(runs)))
		for _, r := range runs {
			w.i32(r.Y)
			w.i32(r.X0)
			w.i32(r.X1)
		}
	}

	if doc.AIOutputRect == nil {
		w.u8(0)
	} else {
		w.u8(1)
		r := *doc.AIOutputRect
		w.i32(r.Min.X)
		w.i32(r.Min.Y)
		w.i32(r.Max.X)
		w.i32(r.Max.Y)
	}
	return w.buf.Bytes()
}

// blobReader decodes the little-endian blob with a sticky error.
type blobReader struct {
	data []byte
	pos  int
	err  error
}

func (r *blobReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.data) {
		r.err = fmt.Errorf("document blob truncated at %d+%d/%d", r.pos, n, len(r.data))
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *blobReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *blobReader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *blobReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *blobReader) i32() int { return int(int32(r.u32())) }

func (r *blobReader) f64() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (r *blobReader) str() string {
	n := int(r.u32())
	if r.err != nil || n < 0 {
		return ""
	}
	return string(r.take(n))
}

// decodeDocument rebuilds a document from an encodeDocument blob.
func decodeDocument(blob []byte) (*Document, error) {
	r := &blobReader{data: blob}
	if r.u32() != blobMagic {
		return nil, fmt.Errorf("document blob: bad magic")
	}
	if v := r.u16(); v != blobVersion {
		return nil, fmt.Errorf("document blob: unsupported version %d", v)
	}
	width := r.i32()
	height := r.i32()
	if r.err != nil {
		return nil, r.err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("document blob: invalid dimensions %dx%d", width, height)
	}
	doc := NewDocument(width, height)
	current := r.i32()
	doc.Frames.FPS = r.i32()
	doc.Frames.PlaybackTotal = r.i32()

	keyCount := int(r.u32())
	keys := map[int]struct{}{0: {}}
	for i := 0; i < keyCount && r.err == nil; i++ {
		keys[r.i32()] = struct{}{}
	}
	doc.Frames.keys = keys

	frameCount := int(r.u32())
	if r.err != nil {
		return nil, r.err
	}
	if frameCount < 1 {
		return nil, fmt.Errorf("document blob: no frames")
	}
	doc.Frames.frames = nil
	for i := 0; i < frameCount; i++ {
		layerCount := int(r.u32())
		active := r.i32()
		if r.err != nil {
			return nil, r.err
		}
		if layerCount < 1 {
			return nil, fmt.Errorf("document blob: frame %d has no layers", i)
		}
		stack := newEmptyLayerStack(width, height)
		for j := 0; j < layerCount; j++ {
			name := r.str()
			visible := r.u8() != 0
			opacity := r.f64()
			pix := r.take(width * height * 4)
			if r.err != nil {
				return nil, r.err
			}
			l := NewLayer(width, height, name)
			l.SetVisible(visible)
			l.SetOpacity(opacity)
			copy(l.Image.Data(), pix)
			stack.layers = append(stack.layers, l)
		}
		if active < 0 || active >= layerCount {
			active = 0
		}
		stack.active = active
		doc.Frames.frames = append(doc.Frames.frames, &Frame{Layers: stack})
	}
	if current < 0 || current >= frameCount {
		current = 0
	}
	doc.Frames.current = current

	if r.u8() != 0 {
		sel := NewSelection(width, height)
		runCount := int(r.u32())
		runs := make([]Run, 0, runCount)
		for i := 0; i < runCount && r.err == nil; i++ {
			runs = append(runs, Run{Y: r.i32(), X0: r.i32(), X1: r.i32()})
		}
		sel.SetRuns(runs)
		doc.selection = sel
	}

	if r.u8() != 0 {
		rect := image.Rect(r.i32(), r.i32(), r.i32(), r.i32())
		doc.AIOutputRect = &rect
	}
	if r.err != nil {
		return nil, r.err
	}
	return doc, nil
}
