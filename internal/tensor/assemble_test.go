package tensor

import (
	"testing"

	"go.viam.com/test"

	"github.com/daryltucker/tfplayer/internal/imaging"
)

// bitmap builds a buffer whose green channel is given row by row.
func bitmap(green [][]uint8) *imaging.RGBA8 {
	h, w := len(green), len(green[0])
	b := &imaging.RGBA8{Width: w, Height: h, Pix: make([]uint8, w*h*4)}
	for y, row := range green {
		for x, g := range row {
			i := (y*w + x) * 4
			b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = 255, g, 7, 255
		}
	}
	return b
}

func TestFromGreenTransposes(t *testing.T) {
	img := FromGreen(bitmap([][]uint8{{10, 20}, {30, 40}}))

	test.That(t, img.Shape(), test.ShouldResemble, []int64{1, 2, 2, 1})
	test.That(t, img.At(0, 0), test.ShouldEqual, float32(10))
	test.That(t, img.At(1, 0), test.ShouldEqual, float32(20))
	test.That(t, img.At(0, 1), test.ShouldEqual, float32(30))
	test.That(t, img.At(1, 1), test.ShouldEqual, float32(40))

	// Flat layout follows [1, W, H, 1]: column-major with respect to the picture.
	test.That(t, img.Data, test.ShouldResemble, []float32{10, 30, 20, 40})
}

func TestFromGreenNonSquare(t *testing.T) {
	green := [][]uint8{
		{0, 1, 2},
		{3, 4, 5},
	}
	img := FromGreen(bitmap(green))
	test.That(t, img.Shape(), test.ShouldResemble, []int64{1, 3, 2, 1})
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			test.That(t, img.At(x, y), test.ShouldEqual, float32(green[y][x]))
		}
	}
}

func TestNested(t *testing.T) {
	nested := FromGreen(bitmap([][]uint8{{10, 20}, {30, 40}})).Nested()
	test.That(t, nested, test.ShouldResemble, [][][][]float32{{
		{{10}, {30}},
		{{20}, {40}},
	}})
	test.That(t, nested[0][1][0][0], test.ShouldEqual, float32(20))
	test.That(t, nested[0][0][1][0], test.ShouldEqual, float32(30))
}
