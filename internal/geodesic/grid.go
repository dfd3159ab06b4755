// Package geodesic provides the hierarchical triangular sky grid used to
// bucket catalog stars into zones.
//
// Level 0 is the 20 faces of an icosahedron projected onto the unit
// sphere. Each level splits every triangle into four by its edge
// midpoints, so level n has 20*4^n zones. The children of zone i are
// zones 4i..4i+3 of the next level.
package geodesic

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/ls-starfield/internal/astro"
)

// MaxLevel caps the subdivision depth a Grid can be built for.
const MaxLevel = 9

// ErrLevel is returned for a level outside the grid.
var ErrLevel = errors.New("geodesic level out of range")

var (
	icoG = 0.5 * (1.0 + math.Sqrt(5.0))
	icoB = 1.0 / math.Sqrt(1.0+icoG*icoG)
	icoA = icoB * icoG
)

var icosahedronCorners = [12]astro.Vec3{
	{X: icoA, Y: -icoB, Z: 0},
	{X: icoA, Y: icoB, Z: 0},
	{X: -icoA, Y: icoB, Z: 0},
	{X: -icoA, Y: -icoB, Z: 0},
	{X: 0, Y: icoA, Z: -icoB},
	{X: 0, Y: icoA, Z: icoB},
	{X: 0, Y: -icoA, Z: icoB},
	{X: 0, Y: -icoA, Z: -icoB},
	{X: -icoB, Y: 0, Z: icoA},
	{X: icoB, Y: 0, Z: icoA},
	{X: icoB, Y: 0, Z: -icoA},
	{X: -icoB, Y: 0, Z: -icoA},
}

var icosahedronTriangles = [20][3]int{
	{1, 0, 10}, {0, 1, 9}, {0, 9, 6}, {9, 8, 6}, {0, 7, 10},
	{6, 7, 0}, {7, 6, 3}, {6, 8, 3}, {11, 10, 7}, {7, 3, 11},
	{3, 2, 11}, {2, 3, 8}, {10, 11, 4}, {2, 4, 11}, {5, 4, 2},
	{2, 8, 5}, {4, 1, 10}, {4, 5, 1}, {5, 9, 1}, {8, 9, 5},
}

// triangle is one zone at one level.
type triangle struct {
	c [3]astro.Vec3

	// Bounding cap: normalized centroid and the cosine of the largest
	// corner distance from it.
	center astro.Vec3
	cosRad float64
}

// Grid holds every triangle from level 0 to its max level.
type Grid struct {
	levels [][]triangle
}

// NewGrid builds a grid subdivided down to maxLevel (inclusive).
func NewGrid(maxLevel int) (*Grid, error) {
	if maxLevel < 0 || maxLevel > MaxLevel {
		return nil, fmt.Errorf("%w: %d", ErrLevel, maxLevel)
	}

	g := &Grid{levels: make([][]triangle, maxLevel+1)}
	for lev := 0; lev <= maxLevel; lev++ {
		g.levels[lev] = make([]triangle, ZoneCount(lev))
	}
	for i, t := range icosahedronTriangles {
		g.init(0, i, icosahedronCorners[t[0]], icosahedronCorners[t[1]], icosahedronCorners[t[2]])
	}
	return g, nil
}

// MustGrid is NewGrid for static levels; it panics on an invalid level.
func MustGrid(maxLevel int) *Grid {
	g, err := NewGrid(maxLevel)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) init(lev, index int, c0, c1, c2 astro.Vec3) {
	center := c0.Add(c1).Add(c2).Normalized()
	cosRad := math.Min(center.Dot(c0), math.Min(center.Dot(c1), center.Dot(c2)))
	g.levels[lev][index] = triangle{
		c:      [3]astro.Vec3{c0, c1, c2},
		center: center,
		cosRad: cosRad,
	}

	lev++
	if lev >= len(g.levels) {
		return
	}
	e0 := c1.Add(c2).Normalized()
	e1 := c2.Add(c0).Normalized()
	e2 := c0.Add(c1).Normalized()
	index *= 4
	g.init(lev, index+0, c0, e2, e1)
	g.init(lev, index+1, e2, c1, e0)
	g.init(lev, index+2, e1, e0, c2)
	g.init(lev, index+3, e0, e1, e2)
}

// ZoneCount returns the number of zones at a subdivision level.
func ZoneCount(level int) int {
	return 20 << (2 * uint(level))
}

// MaxLevel returns the deepest level this grid holds.
func (g *Grid) MaxLevel() int {
	return len(g.levels) - 1
}

// ZoneCount returns the number of zones at a level.
func (g *Grid) ZoneCount(level int) int {
	return ZoneCount(level)
}

// HasLevel reports whether the grid was built deep enough for level.
func (g *Grid) HasLevel(level int) bool {
	return level >= 0 && level < len(g.levels)
}

// Corners returns the three corner unit vectors of a zone.
func (g *Grid) Corners(level, zone int) (c0, c1, c2 astro.Vec3) {
	t := &g.levels[level][zone]
	return t.c[0], t.c[1], t.c[2]
}

// CosHalfRadius returns the cosine of the zone's angular half-radius,
// measured from the normalized corner centroid.
func (g *Grid) CosHalfRadius(level, zone int) float64 {
	return g.levels[level][zone].cosRad
}

// ZoneOf returns the zone at level containing direction v.
func (g *Grid) ZoneOf(level int, v astro.Vec3) int {
	v = v.Normalized()
	best := bestOf(g.levels[0], 0, 20, v)
	for lev := 1; lev <= level; lev++ {
		best = bestOf(g.levels[lev], best*4, 4, v)
	}
	return best
}

// bestOf picks the triangle among n consecutive ones whose weakest edge
// test is strongest. Points on a shared edge go to the first candidate.
func bestOf(tris []triangle, first, n int, v astro.Vec3) int {
	best := first
	bestScore := math.Inf(-1)
	for i := first; i < first+n; i++ {
		s := insideScore(&tris[i], v)
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

// insideScore is the smallest signed edge distance of v; it is >= 0 when v
// lies inside the triangle, whatever the corner winding.
func insideScore(t *triangle, v astro.Vec3) float64 {
	sign := 1.0
	if t.c[0].Cross(t.c[1]).Dot(t.c[2]) < 0 {
		sign = -1
	}
	a := sign * t.c[0].Cross(t.c[1]).Dot(v)
	b := sign * t.c[1].Cross(t.c[2]).Dot(v)
	c := sign * t.c[2].Cross(t.c[0]).Dot(v)
	return math.Min(a, math.Min(b, c))
}

// Search returns the zones at level whose bounding cap lies fully inside
// the query cap (center dir, cosine radius cosRadius) and the zones that
// only intersect it. Zones in neither list cannot hold a direction inside
// the cap.
func (g *Grid) Search(level int, dir astro.Vec3, cosRadius float64) (inside, border []int) {
	dir = dir.Normalized()
	radius := math.Acos(clamp(cosRadius))
	for i := 0; i < 20; i++ {
		inside, border = g.search(0, i, level, dir, radius, inside, border)
	}
	return inside, border
}

func (g *Grid) search(lev, index, target int, dir astro.Vec3, radius float64, inside, border []int) ([]int, []int) {
	t := &g.levels[lev][index]
	dist := math.Acos(clamp(dir.Dot(t.center)))
	zr := math.Acos(clamp(t.cosRad))

	if dist > radius+zr {
		return inside, border
	}
	if dist+zr <= radius {
		// every descendant is inside too
		span := 1 << (2 * uint(target-lev))
		for z := index * span; z < (index+1)*span; z++ {
			inside = append(inside, z)
		}
		return inside, border
	}
	if lev == target {
		return inside, append(border, index)
	}
	for k := 0; k < 4; k++ {
		inside, border = g.search(lev+1, index*4+k, target, dir, radius, inside, border)
	}
	return inside, border
}

func clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
