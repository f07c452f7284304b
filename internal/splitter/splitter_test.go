package splitter

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

// newTestImage builds a deterministic pseudo-random opaque RGBA image.
func newTestImage(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 0xFF,
			})
		}
	}
	return img
}

func TestSplit_OutputDimensionsMatchInput(t *testing.T) {
	src := newTestImage(7, 5, 1)
	red, green, blue := Split(src)

	for _, out := range []*image.RGBA{red, green, blue} {
		if out.Bounds() != src.Bounds() {
			t.Errorf("output bounds %v, want %v", out.Bounds(), src.Bounds())
		}
	}
}

func TestSplit_ExactlyOneChannelPreserved(t *testing.T) {
	src := newTestImage(9, 4, 2)
	red, green, blue := Split(src)

	outputs := map[Channel]*image.RGBA{Red: red, Green: green, Blue: blue}
	b := src.Bounds()
	for keep, out := range outputs {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				want := src.RGBAAt(x, y)
				got := out.RGBAAt(x, y)
				samples := map[Channel]struct{ got, want uint8 }{
					Red:   {got.R, want.R},
					Green: {got.G, want.G},
					Blue:  {got.B, want.B},
				}
				for ch, s := range samples {
					if ch == keep && s.got != s.want {
						t.Fatalf("%s output at (%d,%d): kept channel %d, want %d", keep.Name(), x, y, s.got, s.want)
					}
					if ch != keep && s.got != 0 {
						t.Fatalf("%s output at (%d,%d): channel %s = %d, want 0", keep.Name(), x, y, ch.Name(), s.got)
					}
				}
			}
		}
	}
}

// Summing the three outputs channel-wise must reconstruct the original.
func TestSplit_OutputsSumToOriginal(t *testing.T) {
	src := newTestImage(16, 11, 3)
	red, green, blue := Split(src)

	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			want := src.RGBAAt(x, y)
			sum := color.RGBA{
				R: red.RGBAAt(x, y).R + green.RGBAAt(x, y).R + blue.RGBAAt(x, y).R,
				G: red.RGBAAt(x, y).G + green.RGBAAt(x, y).G + blue.RGBAAt(x, y).G,
				B: red.RGBAAt(x, y).B + green.RGBAAt(x, y).B + blue.RGBAAt(x, y).B,
				A: 0xFF,
			}
			if sum != want {
				t.Fatalf("sum of outputs at (%d,%d) = %v, want %v", x, y, sum, want)
			}
		}
	}
}

func TestSplit_InputNotMutated(t *testing.T) {
	src := newTestImage(6, 6, 4)
	before := append([]uint8(nil), src.Pix...)

	Split(src)

	for i := range before {
		if src.Pix[i] != before[i] {
			t.Fatalf("input pixel data mutated at byte %d", i)
		}
	}
}

func TestSplit_OutputsDoNotAlias(t *testing.T) {
	src := newTestImage(3, 3, 5)
	red, green, blue := Split(src)

	// Writing into one output must not leak into the others or the input.
	red.Pix[0] = 0xAA
	if green.Pix[0] == 0xAA || blue.Pix[0] == 0xAA || src.Pix[0] == 0xAA {
		t.Error("outputs share pixel storage")
	}
}

func TestSplit_NonZeroOriginRect(t *testing.T) {
	src := image.NewRGBA(image.Rect(2, 3, 6, 7))
	for y := 3; y < 7; y++ {
		for x := 2; x < 6; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 0xFF})
		}
	}

	red, _, _ := Split(src)
	got := red.RGBAAt(4, 5)
	want := color.RGBA{R: 10, G: 0, B: 0, A: 0xFF}
	if got != want {
		t.Errorf("red output at (4,5) = %v, want %v", got, want)
	}
}

func TestChannelName(t *testing.T) {
	cases := []struct {
		ch   Channel
		want string
	}{
		{Red, "red"},
		{Green, "green"},
		{Blue, "blue"},
		{Channel(9), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.ch.Name(); got != tc.want {
			t.Errorf("Channel(%d).Name() = %q, want %q", tc.ch, got, tc.want)
		}
	}
}
