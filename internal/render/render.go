// Package render rasterises the coordinate plane and the student's scene
// to PNG. The image is drawn at a multiple of the output size and scaled
// down, which smooths the curve and labels without an anti-aliasing pass.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/abhisek/parabola/internal/canvas"
)

// Options configures a Renderer.
type Options struct {
	// Size is the output width and height in pixels.
	Size int

	// Supersample is the render scale before downsampling. 1 disables it.
	Supersample int

	// Labels draws axis numbers and point coordinates.
	Labels bool
}

// DefaultOptions returns the options used for graded submissions.
func DefaultOptions() Options {
	return Options{
		Size:        560,
		Supersample: 4,
		Labels:      true,
	}
}

var (
	colorBackground = color.RGBA{255, 255, 255, 255}
	colorGrid       = color.RGBA{229, 231, 235, 255} // #e5e7eb
	colorAxis       = color.RGBA{0, 0, 0, 255}
	colorInk        = color.RGBA{29, 78, 216, 255}  // #1d4ed8
	colorPreview    = color.RGBA{18, 47, 130, 153}  // #1d4ed8 at 60%, premultiplied
	colorGhostCurve = color.RGBA{17, 45, 106, 115}  // #2563eb at 45%, premultiplied
	colorLabelBox   = color.RGBA{230, 230, 230, 230} // white at 90%, premultiplied
)

// Preview is the pointer position shown before a click commits it.
type Preview struct {
	X int
	Y int

	// WithCurve also draws the parabola the point would produce together
	// with the placed vertex.
	WithCurve bool
}

// Renderer draws scenes. It is safe for concurrent use.
type Renderer struct {
	opts    Options
	regular *opentype.Font
	bold    *opentype.Font
}

// New creates a Renderer.
func New(opts Options) (*Renderer, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("%w: %d", canvas.ErrInvalidSize, opts.Size)
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Renderer{opts: opts, regular: regular, bold: bold}, nil
}

// Size returns the output width and height in pixels.
func (r *Renderer) Size() int { return r.opts.Size }

// Image draws the plane, the scene and an optional preview.
func (r *Renderer) Image(st canvas.State, preview *Preview) (*image.RGBA, error) {
	scale := r.opts.Supersample
	large := r.opts.Size * scale

	sys, err := canvas.NewSystem(float64(large), float64(large))
	if err != nil {
		return nil, err
	}
	rc, err := r.newContext(sys, scale)
	if err != nil {
		return nil, err
	}
	defer rc.close()

	rc.fill(colorBackground)
	rc.drawGrid()
	rc.drawAxes()
	if r.opts.Labels {
		rc.drawAxisLabels()
	}

	if st.Curve != nil {
		rc.drawCurve(*st.Curve, colorInk, 3)
	}
	for _, p := range []*canvas.GridPoint{st.Vertex, st.Passing} {
		if p != nil {
			rc.drawPoint(*p, r.opts.Labels)
		}
	}
	if preview != nil {
		rc.drawPreview(*preview, st.Vertex, r.opts.Labels)
	}

	if scale == 1 {
		return rc.img, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, r.opts.Size, r.opts.Size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), rc.img, rc.img.Bounds(), xdraw.Over, nil)
	return out, nil
}

// WritePNG encodes the rendered scene to w.
func (r *Renderer) WritePNG(w io.Writer, st canvas.State, preview *Preview) error {
	img, err := r.Image(st, preview)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// PNG returns the rendered scene as PNG bytes, the form attached to a
// grading request.
func (r *Renderer) PNG(st canvas.State) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WritePNG(&buf, st, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderContext holds one render pass at the supersampled size.
type renderContext struct {
	img   *image.RGBA
	sys   canvas.System
	scale float64
	label font.Face
	point font.Face
}

func (r *Renderer) newContext(sys canvas.System, scale int) (*renderContext, error) {
	size := int(sys.Width())
	label, err := opentype.NewFace(r.regular, &opentype.FaceOptions{
		Size:    float64(12 * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("label face: %w", err)
	}
	point, err := opentype.NewFace(r.bold, &opentype.FaceOptions{
		Size:    float64(11 * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		label.Close()
		return nil, fmt.Errorf("point face: %w", err)
	}
	return &renderContext{
		img:   image.NewRGBA(image.Rect(0, 0, size, size)),
		sys:   sys,
		scale: float64(scale),
		label: label,
		point: point,
	}, nil
}

func (rc *renderContext) close() {
	rc.label.Close()
	rc.point.Close()
}

func (rc *renderContext) fill(c color.Color) {
	xdraw.Draw(rc.img, rc.img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
}

func (rc *renderContext) drawGrid() {
	w, h := rc.sys.Width(), rc.sys.Height()
	for v := math.Ceil(canvas.XMin); v <= math.Floor(canvas.XMax); v++ {
		px := rc.sys.ToPixelX(v)
		rc.strokeLine(px, 0, px, h, 1, colorGrid)
	}
	for v := math.Ceil(canvas.YMin); v <= math.Floor(canvas.YMax); v++ {
		py := rc.sys.ToPixelY(v)
		rc.strokeLine(0, py, w, py, 1, colorGrid)
	}
}

func (rc *renderContext) drawAxes() {
	w, h := rc.sys.Width(), rc.sys.Height()
	ox, oy := rc.sys.ToPixelX(0), rc.sys.ToPixelY(0)
	rc.strokeLine(ox, 0, ox, h, 2, colorAxis)
	rc.strokeLine(0, oy, w, oy, 2, colorAxis)
}

func (rc *renderContext) drawAxisLabels() {
	ox, oy := rc.sys.ToPixelX(0), rc.sys.ToPixelY(0)
	for v := math.Ceil(canvas.XMin); v <= math.Floor(canvas.XMax); v++ {
		if v == 0 {
			continue
		}
		rc.text(rc.label, fmt.Sprint(int(v)), rc.sys.ToPixelX(v), oy+15*rc.scale, alignCenter, colorAxis)
	}
	for v := math.Ceil(canvas.YMin); v <= math.Floor(canvas.YMax); v++ {
		if v == 0 {
			continue
		}
		rc.text(rc.label, fmt.Sprint(int(v)), ox-8*rc.scale, rc.sys.ToPixelY(v), alignRight, colorAxis)
	}
	rc.text(rc.label, "O", ox-8*rc.scale, oy-12*rc.scale, alignCenter, colorAxis)
}

func (rc *renderContext) drawCurve(c canvas.Curve, col color.Color, width float64) {
	var run []canvas.Point
	flush := func() {
		if len(run) > 1 {
			rc.strokePolyline(run, width, col)
		}
		run = run[:0]
	}
	for _, p := range c.Sample(canvas.XMin, canvas.XMax, 140) {
		if p.Y < canvas.YMin || p.Y > canvas.YMax {
			flush()
			continue
		}
		run = append(run, rc.sys.ToPixel(p))
	}
	flush()
}

func (rc *renderContext) drawPoint(p canvas.GridPoint, labels bool) {
	px, py := rc.sys.ToPixelX(float64(p.X)), rc.sys.ToPixelY(float64(p.Y))
	rc.fillCircle(px, py, 10*rc.scale, colorBackground)
	rc.fillCircle(px, py, 8*rc.scale, colorInk)
	if labels {
		rc.coordLabel(p, px+10*rc.scale, py, colorAxis)
	}
}

func (rc *renderContext) drawPreview(pv Preview, vertex *canvas.GridPoint, labels bool) {
	pt := canvas.GridPoint{X: pv.X, Y: pv.Y}
	if pv.WithCurve && vertex != nil {
		if c, err := canvas.FitGrid(*vertex, pt); err == nil {
			rc.drawCurve(c, colorGhostCurve, 2)
		}
	}
	px, py := rc.sys.ToPixelX(float64(pt.X)), rc.sys.ToPixelY(float64(pt.Y))
	rc.strokeCircle(px, py, 10*rc.scale, 4, colorInk)
	rc.fillCircle(px, py, 8*rc.scale, colorPreview)
	if labels {
		rc.coordLabel(pt, px+8*rc.scale, py, colorInk)
	}
}

// coordLabel writes "(x, y)" on a light box up and to the right of a point.
func (rc *renderContext) coordLabel(p canvas.GridPoint, x, y float64, col color.Color) {
	s := p.String()
	w := float64(font.MeasureString(rc.point, s).Ceil())
	rc.fillRect(x, y-18*rc.scale, x+w+4*rc.scale, y-4*rc.scale, colorLabelBox)
	rc.text(rc.point, s, x+2*rc.scale, y-11*rc.scale, alignLeft, col)
}

type alignment int

const (
	alignLeft alignment = iota
	alignCenter
	alignRight
)

// text draws s vertically centred on y.
func (rc *renderContext) text(face font.Face, s string, x, y float64, align alignment, col color.Color) {
	width := float64(font.MeasureString(face, s).Ceil())
	switch align {
	case alignCenter:
		x -= width / 2
	case alignRight:
		x -= width
	}
	capHeight := face.Metrics().CapHeight.Ceil()
	d := font.Drawer{
		Dst:  rc.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))+capHeight/2),
	}
	d.DrawString(s)
}

func (rc *renderContext) rasterizer() *vector.Rasterizer {
	b := rc.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

func (rc *renderContext) paint(z *vector.Rasterizer, col color.Color) {
	z.Draw(rc.img, rc.img.Bounds(), image.NewUniform(col), image.Point{})
}

func (rc *renderContext) strokeLine(x0, y0, x1, y1, width float64, col color.Color) {
	z := rc.rasterizer()
	addSegment(z, x0, y0, x1, y1, width*rc.scale/2)
	rc.paint(z, col)
}

// strokePolyline strokes connected segments with round joins.
func (rc *renderContext) strokePolyline(pts []canvas.Point, width float64, col color.Color) {
	half := width * rc.scale / 2
	z := rc.rasterizer()
	for i := 1; i < len(pts); i++ {
		addSegment(z, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, half)
	}
	for _, p := range pts {
		addCircle(z, p.X, p.Y, half)
	}
	rc.paint(z, col)
}

func (rc *renderContext) fillCircle(cx, cy, radius float64, col color.Color) {
	z := rc.rasterizer()
	addCircle(z, cx, cy, radius)
	rc.paint(z, col)
}

func (rc *renderContext) strokeCircle(cx, cy, radius, width float64, col color.Color) {
	half := width * rc.scale / 2
	z := rc.rasterizer()
	addCircle(z, cx, cy, radius+half)
	addHole(z, cx, cy, radius-half)
	rc.paint(z, col)
}

func (rc *renderContext) fillRect(x0, y0, x1, y1 float64, col color.Color) {
	z := rc.rasterizer()
	z.MoveTo(float32(x0), float32(y0))
	z.LineTo(float32(x1), float32(y0))
	z.LineTo(float32(x1), float32(y1))
	z.LineTo(float32(x0), float32(y1))
	z.ClosePath()
	rc.paint(z, col)
}

// addSegment adds the rectangle covering a line of half-width half.
func addSegment(z *vector.Rasterizer, x0, y0, x1, y1, half float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*half, dx/length*half
	z.MoveTo(float32(x0+nx), float32(y0+ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x0-nx), float32(y0-ny))
	z.ClosePath()
}

const circleSegments = 32

// addCircle winds the same way as addSegment so overlapping joins add up
// instead of cancelling.
func addCircle(z *vector.Rasterizer, cx, cy, radius float64) {
	addPolygon(z, cx, cy, radius, -1)
}

// addHole winds opposite to addCircle and cuts a disc out of it.
func addHole(z *vector.Rasterizer, cx, cy, radius float64) {
	addPolygon(z, cx, cy, radius, 1)
}

func addPolygon(z *vector.Rasterizer, cx, cy, radius, dir float64) {
	z.MoveTo(float32(cx+radius), float32(cy))
	for i := 1; i < circleSegments; i++ {
		theta := dir * 2 * math.Pi * float64(i) / circleSegments
		z.LineTo(float32(cx+radius*math.Cos(theta)), float32(cy+radius*math.Sin(theta)))
	}
	z.ClosePath()
}
