package problemgen

import (
	"math/rand/v2"
	"sync"
	"time"
)

// MaxAttempts bounds the number of random draws before Generate gives up.
const MaxAttempts = 100

// FallbackProblem is returned when no acceptable problem was drawn within
// MaxAttempts. It is y = x², which the draw itself never produces; callers
// can detect it with Problem.IsFallback.
var FallbackProblem = Problem{A: 1, H: 0, K: 0, YIntercept: 0}

// Generator draws random target problems. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand

	// draw is replaced in tests to force the fallback path.
	draw func(r *rand.Rand) (a, h, k int)
}

// NewGenerator creates a Generator over the given random source.
// A nil source seeds from the clock.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		seed := uint64(time.Now().UnixNano())
		src = rand.NewPCG(seed, seed>>1|1)
	}
	return &Generator{rng: rand.New(src), draw: drawCoefficients}
}

// Generate returns a problem whose y-intercept lies in [-3,3] and whose
// vertex is not the origin. After MaxAttempts rejected draws it returns
// FallbackProblem.
func (g *Generator) Generate() Problem {
	g.mu.Lock()
	defer g.mu.Unlock()

	for range MaxAttempts {
		a, h, k := g.draw(g.rng)
		if h == 0 && k == 0 {
			continue
		}
		yIntercept := a*h*h + k
		if yIntercept < minYIntercept || yIntercept > maxYIntercept {
			continue
		}
		return Problem{A: a, H: h, K: k, YIntercept: yIntercept}
	}
	return FallbackProblem
}

func drawCoefficients(r *rand.Rand) (a, h, k int) {
	a = allowedA[r.IntN(len(allowedA))]
	h = allowedH[r.IntN(len(allowedH))]
	k = allowedK[r.IntN(len(allowedK))]
	return a, h, k
}
