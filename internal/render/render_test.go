package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/parabola/internal/canvas"
)

// plainRenderer draws at 140×140 with no supersampling: 20 px per unit,
// origin at (70, 70).
func plainRenderer(t *testing.T, labels bool) *Renderer {
	t.Helper()
	r, err := New(Options{Size: 140, Supersample: 1, Labels: labels})
	require.NoError(t, err)
	return r
}

var white = color.RGBA{255, 255, 255, 255}

func TestNew_InvalidSize(t *testing.T) {
	_, err := New(Options{Size: 0})
	assert.ErrorIs(t, err, canvas.ErrInvalidSize)

	_, err = New(Options{Size: -10, Supersample: 2})
	assert.ErrorIs(t, err, canvas.ErrInvalidSize)
}

func TestNew_ClampsSupersample(t *testing.T) {
	r, err := New(Options{Size: 50, Supersample: 0})
	require.NoError(t, err)

	img, err := r.Image(canvas.State{}, nil)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 50, 50), img.Bounds())
}

func TestPNG_Decodes(t *testing.T) {
	r, err := New(Options{Size: 200, Supersample: 2, Labels: true})
	require.NoError(t, err)

	data, err := r.PNG(canvas.State{
		Vertex:  &canvas.GridPoint{X: -1, Y: 2},
		Passing: &canvas.GridPoint{X: 0, Y: 3},
		Curve:   &canvas.Curve{A: 1, H: -1, K: 2},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())
}

func TestImage_GridAndAxes(t *testing.T) {
	img, err := plainRenderer(t, false).Image(canvas.State{}, nil)
	require.NoError(t, err)

	assert.Equal(t, white, img.RGBAAt(1, 1), "background")
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(70, 5), "y axis")
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(5, 70), "x axis")
	assert.NotEqual(t, white, img.RGBAAt(90, 5), "grid line x = 1")
	assert.NotEqual(t, white, img.RGBAAt(5, 30), "grid line y = 2")
}

func TestImage_Point(t *testing.T) {
	img, err := plainRenderer(t, false).Image(canvas.State{
		Vertex: &canvas.GridPoint{X: 1, Y: 1},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, colorInk, img.RGBAAt(90, 50))
	assert.Equal(t, white, img.RGBAAt(100, 100), "between grid lines away from the point")
}

func TestImage_Curve(t *testing.T) {
	r := plainRenderer(t, false)

	img, err := r.Image(canvas.State{Curve: &canvas.Curve{A: 1, H: 0, K: 0}}, nil)
	require.NoError(t, err)
	assert.Equal(t, colorInk, img.RGBAAt(70, 70), "curve vertex drawn over the axes")
	assert.Equal(t, white, img.RGBAAt(20, 20), "curve leaves the plane before x = -2.5")

	empty, err := r.Image(canvas.State{}, nil)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, empty.RGBAAt(70, 70))
}

func TestImage_Labels(t *testing.T) {
	// The "1" under the x axis sits around (90, 85).
	region := image.Rect(84, 78, 97, 93)
	dark := func(img *image.RGBA) int {
		n := 0
		for y := region.Min.Y; y < region.Max.Y; y++ {
			for x := region.Min.X; x < region.Max.X; x++ {
				if img.RGBAAt(x, y).R < 200 {
					n++
				}
			}
		}
		return n
	}

	with, err := plainRenderer(t, true).Image(canvas.State{}, nil)
	require.NoError(t, err)
	without, err := plainRenderer(t, false).Image(canvas.State{}, nil)
	require.NoError(t, err)

	assert.Positive(t, dark(with))
	assert.Zero(t, dark(without))
}

func TestImage_PreviewCurve(t *testing.T) {
	r := plainRenderer(t, false)
	st := canvas.State{Vertex: &canvas.GridPoint{X: 0, Y: 0}}
	bluish := func(c color.RGBA) bool { return int(c.B)-int(c.R) > 50 }

	img, err := r.Image(st, &Preview{X: 1, Y: 1, WithCurve: true})
	require.NoError(t, err)
	assert.True(t, bluish(img.RGBAAt(50, 50)), "ghost curve through (-1, 1): %v", img.RGBAAt(50, 50))
	assert.True(t, bluish(img.RGBAAt(90, 50)), "preview marker at (1, 1)")

	img, err = r.Image(st, &Preview{X: 1, Y: 1})
	require.NoError(t, err)
	assert.False(t, bluish(img.RGBAAt(50, 50)), "no ghost curve without WithCurve")
}

func TestWritePNG_Preview(t *testing.T) {
	r := plainRenderer(t, true)

	var buf bytes.Buffer
	require.NoError(t, r.WritePNG(&buf, canvas.State{}, &Preview{X: 2, Y: -1}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 140, img.Bounds().Dx())
	assert.Equal(t, 140, r.Size())
}
