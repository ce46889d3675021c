package canvas

import (
	"math"
	"math/rand"
	"time"

	"github.com/spoor-app/spoor/internal/models"
)

// Placement policy constants.
const (
	// PlacementThreshold is the minimum best-match similarity before a
	// new node is pulled toward an existing one.
	PlacementThreshold = 0.2

	// Placement radius bounds, in canvas units, from the anchor node's
	// origin.
	PlacementMinRadius = 150.0
	PlacementMaxRadius = 250.0
)

// Point is a position in canvas-space coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placer chooses spawn positions for new nodes using token-overlap
// similarity against the existing node set. This is a heuristic spatial
// clustering, not an embedding model.
type Placer struct {
	rng *rand.Rand
}

// NewPlacer creates a placer. A nil rng gets a time-seeded source;
// tests inject a fixed seed.
func NewPlacer(rng *rand.Rand) *Placer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Placer{rng: rng}
}

// Place returns the spawn position for a node with the given text.
// With no existing nodes the fallback (the clicked point) is returned.
// Otherwise the most similar node wins (strict >, first encountered on
// ties); if its similarity exceeds the threshold, the new node lands at
// a random angle and radial distance from that node's origin.
func (p *Placer) Place(text string, nodes []models.Node, fallback Point) Point {
	if len(nodes) == 0 {
		return fallback
	}

	bestSimilarity := 0.0
	bestIdx := -1
	for i := range nodes {
		if s := Similarity(text, nodes[i].Text); s > bestSimilarity {
			bestSimilarity = s
			bestIdx = i
		}
	}

	if bestSimilarity > PlacementThreshold && bestIdx >= 0 {
		angle := p.rng.Float64() * 2 * math.Pi
		distance := PlacementMinRadius + p.rng.Float64()*(PlacementMaxRadius-PlacementMinRadius)
		return Point{
			X: nodes[bestIdx].X + math.Cos(angle)*distance,
			Y: nodes[bestIdx].Y + math.Sin(angle)*distance,
		}
	}

	return fallback
}
