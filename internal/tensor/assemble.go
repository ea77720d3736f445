// Package tensor builds the rank-4 input tensor fed to the graph.
package tensor

import "github.com/daryltucker/tfplayer/internal/imaging"

// Image is a [1, W, H, 1] float32 tensor. The image column is the second
// axis and the row is the third, which is the layout the served models
// were trained on.
type Image struct {
	Width  int
	Height int
	// Data holds the values in row-major order of the shape: index x*Height+y.
	Data []float32
}

// FromGreen copies the green channel of every pixel into a new tensor, with
// pixel (x, y) stored at [0, x, y, 0]. Values stay in 0..255.
func FromGreen(b *imaging.RGBA8) *Image {
	t := &Image{
		Width:  b.Width,
		Height: b.Height,
		Data:   make([]float32, b.Width*b.Height),
	}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			t.Data[x*b.Height+y] = float32(b.Green(x, y))
		}
	}
	return t
}

// Shape returns the tensor dimensions.
func (t *Image) Shape() []int64 {
	return []int64{1, int64(t.Width), int64(t.Height), 1}
}

// At returns the value at [0, x, y, 0].
func (t *Image) At(x, y int) float32 {
	return t.Data[x*t.Height+y]
}

// Nested returns the tensor as a [1][W][H][1] slice, the form the
// TensorFlow bindings accept.
func (t *Image) Nested() [][][][]float32 {
	cols := make([][][]float32, t.Width)
	for x := range cols {
		rows := make([][]float32, t.Height)
		for y := range rows {
			rows[y] = t.Data[x*t.Height+y : x*t.Height+y+1]
		}
		cols[x] = rows
	}
	return [][][][]float32{cols}
}
