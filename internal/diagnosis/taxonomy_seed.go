package diagnosis

// Misconception IDs.
const (
	ShapeSignReversed    = "shape-sign-reversed"
	VertexHSign          = "vertex-h-sign"
	VertexKSign          = "vertex-k-sign"
	VertexBothSigns      = "vertex-both-signs"
	VertexSwapped        = "vertex-swapped"
	VertexExpandedCoeffs = "vertex-expanded-coeffs"
	YInterceptVertexY    = "yint-vertex-y"
	YInterceptSquareSign = "yint-square-sign"
	YInterceptVertexX    = "yint-vertex-x"
	GraphVertexSign      = "graph-vertex-sign"
	GraphShapeFlipped    = "graph-shape-flipped"
	GraphOffCurve        = "graph-off-curve"
)

// seedMisconceptions is the taxonomy, grouped by step.
var seedMisconceptions = []Misconception{
	// Step 1: shape
	{
		ID:          ShapeSignReversed,
		Step:        1,
		Label:       "Shape reversed",
		Description: "Picks convex up for a positive leading coefficient or convex down for a negative one",
		Hint:        "A positive leading coefficient makes y grow on both sides of the vertex: the graph is convex down.",
	},

	// Step 2: vertex
	{
		ID:          VertexHSign,
		Step:        2,
		Label:       "Sign of h",
		Description: "Reads (x + 1)² as h = 1 instead of h = -1",
		Hint:        "In (x - h)² the vertex x coordinate is h, so (x + 1)² means h = -1.",
	},
	{
		ID:          VertexKSign,
		Step:        2,
		Label:       "Sign of k",
		Description: "Flips the sign of the constant added after the square",
		Hint:        "The constant after the square is the vertex y coordinate as written, sign included.",
	},
	{
		ID:          VertexBothSigns,
		Step:        2,
		Label:       "Both signs flipped",
		Description: "Negates both vertex coordinates",
		Hint:        "Only the x coordinate appears with the opposite sign inside the square.",
	},
	{
		ID:          VertexSwapped,
		Step:        2,
		Label:       "Coordinates swapped",
		Description: "Writes the vertex as (k, h)",
		Hint:        "An ordered pair lists x first, then y.",
	},
	{
		ID:          VertexExpandedCoeffs,
		Step:        2,
		Label:       "Expanded coefficients",
		Description: "Gives (b, c) of y = ax² + bx + c as the vertex",
		Hint:        "The coefficients of the expanded form are not the vertex. Complete the square first.",
	},

	// Step 3: y-intercept
	{
		ID:          YInterceptVertexY,
		Step:        3,
		Label:       "Vertex y used",
		Description: "Gives the vertex y coordinate k as the y-intercept",
		Hint:        "The vertex is not on the y axis here. Substitute x = 0 instead.",
	},
	{
		ID:          YInterceptSquareSign,
		Step:        3,
		Label:       "Square term subtracted",
		Description: "Computes k - a·h² instead of a·h² + k",
		Hint:        "(0 - h)² is h², which is never negative.",
	},
	{
		ID:          YInterceptVertexX,
		Step:        3,
		Label:       "Vertex x used",
		Description: "Gives the vertex x coordinate h as the y-intercept",
		Hint:        "The y-intercept is a y value: the height of the graph where x = 0.",
	},

	// Step 4: graph
	{
		ID:          GraphVertexSign,
		Step:        4,
		Label:       "Vertex mirrored",
		Description: "Places the vertex at (-h, k)",
		Hint:        "Place the vertex at the point you found in step 2.",
	},
	{
		ID:          GraphShapeFlipped,
		Step:        4,
		Label:       "Graph upside down",
		Description: "Second point lies on the parabola with the opposite leading coefficient",
		Hint:        "Your curve opens the wrong way. Check the shape from step 1.",
	},
	{
		ID:          GraphOffCurve,
		Step:        4,
		Label:       "Point off the curve",
		Description: "Vertex is right but the second point is not on the graph",
		Hint:        "Use the y-intercept from step 3 as the second point.",
	},
}
