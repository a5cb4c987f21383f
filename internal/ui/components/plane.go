package components

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parabola/internal/canvas"
	"github.com/abhisek/parabola/internal/ui/theme"
)

// cellWidth is the number of terminal columns per grid unit.
const cellWidth = 4

var (
	gridMin = int(math.Ceil(canvas.XMin))
	gridMax = int(math.Floor(canvas.XMax))
)

// Plane is the coordinate plane drawn with characters. Every grid point
// is one cursor stop.
type Plane struct {
	CursorX, CursorY int
	Scene            canvas.State

	// Ghost is the curve the cursor position would produce.
	Ghost *canvas.Curve
}

// NewPlane returns a plane with the cursor at the origin.
func NewPlane(st canvas.State) Plane {
	return Plane{Scene: st}
}

// Move shifts the cursor, clamped to the grid.
func (p *Plane) Move(dx, dy int) {
	p.CursorX = min(max(p.CursorX+dx, gridMin), gridMax)
	p.CursorY = min(max(p.CursorY+dy, gridMin), gridMax)
}

type glyph struct {
	r     rune
	style lipgloss.Style
}

// column returns the character column of grid x.
func column(x int) int {
	return (x-gridMin)*cellWidth + cellWidth/2
}

// View renders the plane, y axis labels on the left and x labels below.
func (p Plane) View() string {
	width := (gridMax - gridMin + 1) * cellWidth
	rows := gridMax - gridMin + 1
	cells := make([][]glyph, rows)
	for i := range cells {
		cells[i] = make([]glyph, width)
		for c := range cells[i] {
			cells[i][c] = glyph{r: ' ', style: theme.GridDot}
		}
	}
	set := func(y, col int, r rune, st lipgloss.Style) {
		row := gridMax - y
		if row < 0 || row >= rows || col < 0 || col >= width {
			return
		}
		cells[row][col] = glyph{r: r, style: st}
	}

	for c := 0; c < width; c++ {
		set(0, c, '─', theme.Axis)
	}
	for y := gridMin; y <= gridMax; y++ {
		for x := gridMin; x <= gridMax; x++ {
			switch {
			case x == 0 && y == 0:
				set(y, column(x), '┼', theme.Axis)
			case x == 0:
				set(y, column(x), '│', theme.Axis)
			case y == 0:
				set(y, column(x), '┼', theme.Axis)
			default:
				set(y, column(x), '·', theme.GridDot)
			}
		}
	}

	drawCurve := func(c canvas.Curve, r rune, st lipgloss.Style) {
		for col := 0; col < width; col++ {
			x := float64(gridMin) + float64(col-cellWidth/2)/cellWidth
			y := c.Eval(x)
			if y < canvas.YMin || y > canvas.YMax {
				continue
			}
			set(int(math.Floor(y+0.5)), col, r, st)
		}
	}
	if p.Ghost != nil {
		drawCurve(*p.Ghost, '∘', theme.Ghost)
	}
	if p.Scene.Curve != nil {
		drawCurve(*p.Scene.Curve, '•', theme.Ink)
	}
	if v := p.Scene.Vertex; v != nil {
		set(v.Y, column(v.X), 'V', theme.Ink)
	}
	if q := p.Scene.Passing; q != nil {
		set(q.Y, column(q.X), 'P', theme.Cursor)
	}
	set(p.CursorY, column(p.CursorX)-1, '[', theme.Cursor)
	set(p.CursorY, column(p.CursorX)+1, ']', theme.Cursor)

	var b strings.Builder
	for i, row := range cells {
		b.WriteString(theme.Axis.Render(fmt.Sprintf("%3d ", gridMax-i)))
		for _, g := range row {
			b.WriteString(g.style.Render(string(g.r)))
		}
		b.WriteString("\n")
	}
	b.WriteString("    ")
	for x := gridMin; x <= gridMax; x++ {
		b.WriteString(theme.Axis.Render(fmt.Sprintf("%*d%*s", cellWidth/2+1, x, cellWidth/2-1, "")))
	}
	return b.String()
}
