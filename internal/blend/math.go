// Package blend implements straight-alpha Porter-Duff compositing for
// the pixel-art document core.
//
// Unlike most compositing pipelines, all operations here work on
// straight (non-premultiplied) 8-bit RGBA. Pixel-art editing reads
// stored color channels back verbatim, so premultiplication would lose
// the color of fully transparent pixels that tools like the eraser and
// the move tool round-trip through buffers.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// div255 divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
//
// This is Alvy Ray Smith's formula, exact for all uint32 inputs up to
// 255*255 and ~3x faster than integer division. The compositor uses the
// exact form everywhere: the renderer must match the scalar reference
// byte for byte, so the usual +1-error fast approximation is not
// acceptable here.
func div255(x uint32) uint32 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// Mul255 multiplies two bytes as 0-255 fractions, rounding like
// x*y/255 with exact division.
func Mul255(a, b uint8) uint8 {
	return uint8(div255(uint32(a) * uint32(b)))
}
