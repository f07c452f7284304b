// Package imagecodec converts between encoded image bytes and in-memory
// RGB rasters.
//
// Decode normalizes every supported source format and color mode (grayscale,
// palette, RGBA, CMYK via TIFF, ...) to a 3-channel RGB raster so downstream
// channel math never has to care about the source encoding. Encode always
// produces JPEG, matching the fixed output format of the splitting pipeline.
package imagecodec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	// Register the decoders for every raster format the pipeline accepts.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rs/zerolog/log"
)

// ContentType is the MIME type of every encoded output.
const ContentType = "image/jpeg"

// DecodeError reports unreadable or corrupt source image data.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode image: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a malformed raster handed to Encode. Given a raster
// produced by Decode this should not occur.
type EncodeError struct {
	Reason string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encode image: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("encode image: %s", e.Reason)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Decode parses encoded image bytes into an opaque RGB raster. Whatever the
// source color mode, the result carries exactly the red, green, and blue
// samples; alpha and any extra channels are discarded.
func Decode(data []byte) (*image.RGBA, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	rgb := toRGB(src)
	log.Debug().
		Str("format", format).
		Int("width", rgb.Rect.Dx()).
		Int("height", rgb.Rect.Dy()).
		Msg("Image decoded")
	return rgb, nil
}

// Encode serializes an RGB raster as JPEG.
func Encode(img *image.RGBA) ([]byte, error) {
	if img == nil {
		return nil, &EncodeError{Reason: "nil raster"}
	}
	if img.Rect.Empty() {
		return nil, &EncodeError{Reason: "empty raster"}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpeg.DefaultQuality}); err != nil {
		return nil, &EncodeError{Reason: "jpeg encode failed", Err: err}
	}
	return buf.Bytes(), nil
}

// toRGB copies src into a fully opaque RGBA raster anchored at the origin.
// Conversion goes through the non-premultiplied color model so translucent
// pixels keep their stored RGB values rather than being darkened by alpha.
func toRGB(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
		}
	}
	return dst
}
