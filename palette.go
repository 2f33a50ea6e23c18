package portal

import (
	"fmt"
	"image"
	_ "image/gif"  // palette import decodes common formats
	_ "image/jpeg" // ditto
	_ "image/png"  // ditto
	"io"
	"os"
	"sort"

	_ "golang.org/x/image/bmp" // ditto
)

// paletteSize is the number of clusters extracted from an image.
const paletteSize = 16

// paletteIterations bounds the k-means refinement passes.
const paletteIterations = 16

// ExtractPalette clusters the non-transparent pixels of img into up to 16
// colors with k-means over RGB and returns the cluster centers as
// 6-digit hex strings, darkest first.
//
// Seeding is deterministic: initial centers are picked evenly from the
// image's distinct colors in raster order, so repeated runs over the
// same image return the same palette.
func ExtractPalette(img *Pixmap) []string {
	data := img.Data()

	type rgb struct{ r, g, b float64 }
	var points []rgb
	var distinct []rgb
	seen := map[Color]struct{}{}
	for i := 0; i < len(data); i += 4 {
		if data[i+3] == 0 {
			continue
		}
		c := Color{R: data[i], G: data[i+1], B: data[i+2]}
		p := rgb{float64(c.R), float64(c.G), float64(c.B)}
		points = append(points, p)
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			distinct = append(distinct, p)
		}
	}
	if len(points) == 0 {
		return nil
	}

	k := paletteSize
	if len(distinct) < k {
		k = len(distinct)
	}

	// Evenly spaced distinct colors as the initial centers.
	centers := make([]rgb, k)
	for i := range centers {
		centers[i] = distinct[i*len(distinct)/k]
	}

	assign := make([]int, len(points))
	for iter := 0; iter < paletteIterations; iter++ {
		changed := false
		for i, p := range points {
			best, bestD := 0, -1.0
			for j, c := range centers {
				dr, dg, db := p.r-c.r, p.g-c.g, p.b-c.b
				d := dr*dr + dg*dg + db*db
				if bestD < 0 || d < bestD {
					best, bestD = j, d
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		sums := make([]rgb, k)
		counts := make([]int, k)
		for i, p := range points {
			j := assign[i]
			sums[j].r += p.r
			sums[j].g += p.g
			sums[j].b += p.b
			counts[j]++
		}
		for j := range centers {
			if counts[j] > 0 {
				centers[j] = rgb{sums[j].r / float64(counts[j]),
					sums[j].g / float64(counts[j]),
					sums[j].b / float64(counts[j])}
			}
		}
	}

	colors := make([]Color, k)
	for j, c := range centers {
		colors[j] = Color{R: uint8(c.r + 0.5), G: uint8(c.g + 0.5), B: uint8(c.b + 0.5), A: 255}
	}
	sort.Slice(colors, func(a, b int) bool {
		la := int(colors[a].R) + int(colors[a].G) + int(colors[a].B)
		lb := int(colors[b].R) + int(colors[b].G) + int(colors[b].B)
		if la != lb {
			return la < lb
		}
		return colors[a].HexString() < colors[b].HexString()
	})

	out := make([]string, 0, k)
	for _, c := range colors {
		out = append(out, c.HexString())
	}
	return out
}

// DecodeImage decodes any registered image format (PNG, GIF, JPEG,
// BMP) into a pixmap.
func DecodeImage(r io.Reader) (*Pixmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(img), nil
}

// ExtractPaletteFile loads an image file and extracts its palette.
func ExtractPaletteFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("palette import: %w", err)
	}
	defer f.Close()
	img, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("palette import: %w", err)
	}
	return ExtractPalette(img), nil
}
