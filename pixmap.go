package portal

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/portal/internal/blend"
)

// Compile-time interface checks.
var (
	_ image.Image = (*Pixmap)(nil)
	_ draw.Image  = (*Pixmap)(nil)
)

// Pixmap represents a rectangular pixel buffer: row-major RGBA8888 with
// straight alpha. It implements both image.Image (read-only) and
// draw.Image (read-write), making it compatible with Go's standard
// image ecosystem including the golang.org/x/image scalers.
//
// Dimensions never change after construction; resizing produces a new
// Pixmap.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a new fully transparent pixmap with the given
// dimensions. Width and height must be positive.
func NewPixmap(width, height int) *Pixmap {
	if width <= 0 || height <= 0 {
		panic("portal: pixmap dimensions must be positive")
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 { return p.data }

// Rect returns the pixmap bounds as an image.Rectangle anchored at the
// origin.
func (p *Pixmap) Rect() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// Contains reports whether (x, y) is inside the pixmap bounds.
func (p *Pixmap) Contains(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// SetPixel writes a single pixel. Out-of-bounds writes are ignored.
func (p *Pixmap) SetPixel(x, y int, c Color) {
	if !p.Contains(x, y) {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = c.R
	p.data[i+1] = c.G
	p.data[i+2] = c.B
	p.data[i+3] = c.A
}

// GetPixel reads a single pixel. Out-of-bounds reads return Transparent.
func (p *Pixmap) GetPixel(x, y int) Color {
	if !p.Contains(x, y) {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return Color{R: p.data[i+0], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// BlendPixel composites c over the pixel at (x, y) with source-over.
// Out-of-bounds writes are ignored.
func (p *Pixmap) BlendPixel(x, y int, c Color) {
	if !p.Contains(x, y) {
		return
	}
	i := (y*p.width + x) * 4
	r, g, b, a := blend.SourceOver(c.R, c.G, c.B, c.A,
		p.data[i+0], p.data[i+1], p.data[i+2], p.data[i+3])
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// ErasePixel removes coverage at (x, y) using destination-out with a
// fully opaque source. The pixel becomes transparent.
func (p *Pixmap) ErasePixel(x, y int) {
	if !p.Contains(x, y) {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = 0
	p.data[i+1] = 0
	p.data[i+2] = 0
	p.data[i+3] = 0
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c Color) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = c.R
		p.data[i+1] = c.G
		p.data[i+2] = c.B
		p.data[i+3] = c.A
	}
}

// FillRect overwrites every pixel of rect (clipped to bounds) with c.
// No blending takes place.
func (p *Pixmap) FillRect(rect image.Rectangle, c Color) {
	rect = rect.Intersect(p.Rect())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := (y*p.width + rect.Min.X) * 4
		for x := rect.Min.X; x < rect.Max.X; x++ {
			p.data[i+0] = c.R
			p.data[i+1] = c.G
			p.data[i+2] = c.B
			p.data[i+3] = c.A
			i += 4
		}
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	out := NewPixmap(p.width, p.height)
	copy(out.data, p.data)
	return out
}

// SubPixmap returns a deep copy of the region rect, clipped to bounds.
// Returns nil if the clipped region is empty.
func (p *Pixmap) SubPixmap(rect image.Rectangle) *Pixmap {
	rect = rect.Intersect(p.Rect())
	if rect.Empty() {
		return nil
	}
	out := NewPixmap(rect.Dx(), rect.Dy())
	for y := 0; y < out.height; y++ {
		srcOff := ((rect.Min.Y+y)*p.width + rect.Min.X) * 4
		dstOff := y * out.width * 4
		copy(out.data[dstOff:dstOff+out.width*4], p.data[srcOff:srcOff+out.width*4])
	}
	return out
}

// PasteSource replaces pixels of p with pixels of src placed at
// (dx, dy). No blending: source pixels overwrite destination pixels
// including alpha. The source is clipped to the destination bounds.
func (p *Pixmap) PasteSource(src *Pixmap, dx, dy int) {
	if src == nil {
		return
	}
	rect := image.Rect(dx, dy, dx+src.width, dy+src.height).Intersect(p.Rect())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		srcOff := ((y-dy)*src.width + (rect.Min.X - dx)) * 4
		dstOff := (y*p.width + rect.Min.X) * 4
		copy(p.data[dstOff:dstOff+rect.Dx()*4], src.data[srcOff:srcOff+rect.Dx()*4])
	}
}

// Blit composites src onto p at (dx, dy) using source-over with an
// extra opacity in [0, 255] applied to the source alpha.
func (p *Pixmap) Blit(src *Pixmap, dx, dy int, opacity uint8) {
	if src == nil || opacity == 0 {
		return
	}
	rect := image.Rect(dx, dy, dx+src.width, dy+src.height).Intersect(p.Rect())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		si := ((y-dy)*src.width + (rect.Min.X - dx)) * 4
		di := (y*p.width + rect.Min.X) * 4
		for x := rect.Min.X; x < rect.Max.X; x++ {
			sa := blend.ScaleAlpha(src.data[si+3], opacity)
			if sa != 0 {
				r, g, b, a := blend.SourceOver(
					src.data[si+0], src.data[si+1], src.data[si+2], sa,
					p.data[di+0], p.data[di+1], p.data[di+2], p.data[di+3])
				p.data[di+0] = r
				p.data[di+1] = g
				p.data[di+2] = b
				p.data[di+3] = a
			}
			si += 4
			di += 4
		}
	}
}

// EraseMask applies destination-out to p using the alpha channel of
// mask placed at (dx, dy): wherever the mask has coverage, p loses it.
func (p *Pixmap) EraseMask(mask *Pixmap, dx, dy int) {
	if mask == nil {
		return
	}
	rect := image.Rect(dx, dy, dx+mask.width, dy+mask.height).Intersect(p.Rect())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		si := ((y-dy)*mask.width + (rect.Min.X - dx)) * 4
		di := (y*p.width + rect.Min.X) * 4
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if sa := mask.data[si+3]; sa != 0 {
				r, g, b, a := blend.DestinationOut(sa,
					p.data[di+0], p.data[di+1], p.data[di+2], p.data[di+3])
				p.data[di+0] = r
				p.data[di+1] = g
				p.data[di+2] = b
				p.data[di+3] = a
			}
			si += 4
			di += 4
		}
	}
}

// Equal reports whether two pixmaps have identical dimensions and
// bitwise identical pixel data.
func (p *Pixmap) Equal(q *Pixmap) bool {
	if p == nil || q == nil {
		return p == q
	}
	return p.width == q.width && p.height == q.height && bytes.Equal(p.data, q.data)
}

// FlippedH returns a new pixmap mirrored across the vertical axis.
func (p *Pixmap) FlippedH() *Pixmap {
	out := NewPixmap(p.width, p.height)
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			si := (y*p.width + x) * 4
			di := (y*p.width + (p.width - 1 - x)) * 4
			copy(out.data[di:di+4], p.data[si:si+4])
		}
	}
	return out
}

// FlippedV returns a new pixmap mirrored across the horizontal axis.
func (p *Pixmap) FlippedV() *Pixmap {
	out := NewPixmap(p.width, p.height)
	for y := 0; y < p.height; y++ {
		si := y * p.width * 4
		di := (p.height - 1 - y) * p.width * 4
		copy(out.data[di:di+p.width*4], p.data[si:si+p.width*4])
	}
	return out
}

// Rotated90 returns a new H×W pixmap rotated a quarter turn.
// Clockwise when cw is true, counter-clockwise otherwise.
func (p *Pixmap) Rotated90(cw bool) *Pixmap {
	out := NewPixmap(p.height, p.width)
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			si := (y*p.width + x) * 4
			var dx, dy int
			if cw {
				dx, dy = p.height-1-y, x
			} else {
				dx, dy = y, p.width-1-x
			}
			di := (dy*out.width + dx) * 4
			copy(out.data[di:di+4], p.data[si:si+4])
		}
	}
	return out
}

// ScaledBy returns the pixmap upscaled by an integer factor with
// nearest-neighbor sampling. A factor of 1 returns a clone.
func (p *Pixmap) ScaledBy(factor int) *Pixmap {
	if factor <= 1 {
		return p.Clone()
	}
	out := NewPixmap(p.width*factor, p.height*factor)
	for y := 0; y < out.height; y++ {
		sy := y / factor
		for x := 0; x < out.width; x++ {
			si := (sy*p.width + x/factor) * 4
			di := (y*out.width + x) * 4
			copy(out.data[di:di+4], p.data[si:si+4])
		}
	}
	return out
}

// ColorModel implements image.Image.
func (p *Pixmap) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (p *Pixmap) Bounds() image.Rectangle { return p.Rect() }

// At implements image.Image.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).NRGBA()
}

// Set implements draw.Image.
func (p *Pixmap) Set(x, y int, c color.Color) {
	p.SetPixel(x, y, FromColor(c))
}

// ToImage converts the pixmap to an image.NRGBA sharing no memory with p.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from an arbitrary image.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	pm := NewPixmap(bounds.Dx(), bounds.Dy())

	// Fast path: NRGBA shares our memory layout.
	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < pm.height; y++ {
			srcOff := n.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(pm.data[y*pm.width*4:(y+1)*pm.width*4], n.Pix[srcOff:srcOff+pm.width*4])
		}
		return pm
	}

	for y := 0; y < pm.height; y++ {
		for x := 0; x < pm.width; x++ {
			pm.SetPixel(x, y, FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}
	return pm
}
