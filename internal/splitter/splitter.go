// Package splitter isolates the color channels of an RGB raster.
//
// Split is the core transform of the RGB splitting pipeline: given one
// decoded image it produces three, each retaining a single channel's sample
// values with the other two channels zeroed at every pixel.
package splitter

import "image"

// Channel identifies one of the three RGB color planes.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// Name returns the lowercase channel name used in destination key prefixes.
func (c Channel) Name() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return "unknown"
}

// Split returns three independently owned copies of src, each with exactly
// one channel's values preserved and the other two zeroed. The input is
// never mutated, and no output aliases another output's pixel storage.
// Alpha is left untouched (the codec guarantees fully opaque rasters).
func Split(src *image.RGBA) (red, green, blue *image.RGBA) {
	red = isolate(src, Red)
	green = isolate(src, Green)
	blue = isolate(src, Blue)
	return red, green, blue
}

// isolate copies src and zeroes the two channels other than keep.
func isolate(src *image.RGBA, keep Channel) *image.RGBA {
	dst := &image.RGBA{
		Pix:    append([]uint8(nil), src.Pix...),
		Stride: src.Stride,
		Rect:   src.Rect,
	}

	// Byte offsets within each 4-byte RGBA pixel for the two zeroed channels.
	zeroA := (int(keep) + 1) % 3
	zeroB := (int(keep) + 2) % 3

	b := dst.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Pix[i+zeroA] = 0
			dst.Pix[i+zeroB] = 0
			i += 4
		}
	}
	return dst
}
