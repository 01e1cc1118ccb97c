package qimage

import (
	"github.com/pkg/errors"
)

var (
	// ErrTooFewPoints is returned when less than three distinct points are triangulated.
	ErrTooFewPoints = errors.New("at least 3 distinct points are required")
	// ErrCollinear is returned when all the points lie on a single line.
	ErrCollinear = errors.New("points are collinear")
)

// Point defines a struct having as components the point X and Y coordinate position.
// X is the image column, Y the image row.
type Point struct {
	X, Y float64
}

// Triangulation holds the triangulated points and the triangles built over them.
// Each simplex is a triple of indices into Points.
type Triangulation struct {
	Points    []Point
	Simplices [][3]int
}

// ghost is the vertex at infinity closing the hull. A triangle with a ghost
// node stands for the outer half-plane of its real edge.
const ghost = -1

// triangle references its nodes by index into the working vertex list.
// Real triangles are counter-clockwise in the Y-up sense, that is cross > 0.
// Ghost triangles keep the ghost last and have the outside of the hull on the
// left of their real edge.
type triangle struct {
	nodes [3]int
	// degenerate triangles have collinear nodes. They cover no area, never
	// enclose a point and are left out of the result.
	degenerate bool
}

func (t triangle) isGhost() bool {
	return t.nodes[2] == ghost
}

type edge [2]int

// key returns the edge with its indices ordered, so that both directions compare equal.
func (e edge) key() edge {
	if e[0] > e[1] {
		return edge{e[1], e[0]}
	}
	return e
}

// delaunay keeps the state of an incremental Bowyer-Watson triangulation.
type delaunay struct {
	vertices  []Point
	triangles []triangle
}

// newTriangle creates a triangle keeping the winding of its nodes. A ghost
// node is rotated into the last position.
func (d *delaunay) newTriangle(p0, p1, p2 int) triangle {
	switch ghost {
	case p0:
		p0, p1, p2 = p1, p2, p0
	case p1:
		p0, p1, p2 = p2, p0, p1
	}
	t := triangle{nodes: [3]int{p0, p1, p2}}
	if p2 != ghost {
		t.degenerate = cross(d.vertices[p0], d.vertices[p1], d.vertices[p2]) <= 0
	}
	return t
}

// encloses reports whether p lies strictly inside the circle circumscribing t.
// The circle of a ghost triangle is the open half-plane outside its edge,
// plus the open edge itself so that points landing on the hull split it.
func (d *delaunay) encloses(t triangle, p Point) bool {
	if t.degenerate {
		return false
	}
	a, b := d.vertices[t.nodes[0]], d.vertices[t.nodes[1]]
	if t.isGhost() {
		if c := cross(a, b, p); c != 0 {
			return c > 0
		}
		return (p.X-a.X)*(p.X-b.X)+(p.Y-a.Y)*(p.Y-b.Y) < 0
	}
	return inCircle(a, b, d.vertices[t.nodes[2]], p) > 0
}

// inCircle returns a positive value when p is inside the circumcircle of the
// counter-clockwise triangle abc, negative outside and zero on the circle.
// Coordinates are taken relative to p, which keeps the determinant exact for
// integer coordinates of image sized magnitude.
func inCircle(a, b, c, p Point) float64 {
	adx, ady := a.X-p.X, a.Y-p.Y
	bdx, bdy := b.X-p.X, b.Y-p.Y
	cdx, cdy := c.X-p.X, c.Y-p.Y

	alift := adx*adx + ady*ady
	blift := bdx*bdx + bdy*bdy
	clift := cdx*cdx + cdy*cdy

	return alift*(bdx*cdy-cdx*bdy) -
		blift*(adx*cdy-cdx*ady) +
		clift*(adx*bdy-bdx*ady)
}

// init seeds the triangulation with the triangle abc and the three ghost
// triangles around it.
func (d *delaunay) init(points []Point, a, b, c int) {
	d.vertices = points
	if cross(points[a], points[b], points[c]) < 0 {
		b, c = c, b
	}
	d.triangles = []triangle{
		d.newTriangle(a, b, c),
		d.newTriangle(b, a, ghost),
		d.newTriangle(c, b, ghost),
		d.newTriangle(a, c, ghost),
	}
}

// insert adds the vertex with the given index, re-triangulating the cavity
// formed by the triangles whose circumcircle contains it.
func (d *delaunay) insert(idx int) {
	p := d.vertices[idx]

	var edges []edge
	temps := d.triangles[:0:0]
	for _, t := range d.triangles {
		if d.encloses(t, p) {
			n := t.nodes
			edges = append(edges, edge{n[0], n[1]}, edge{n[1], n[2]}, edge{n[2], n[0]})
		} else {
			temps = append(temps, t)
		}
	}

	// Edges shared by two removed triangles are inside the cavity, the rest
	// form its boundary polygon, wound around p.
	count := make(map[edge]int, len(edges))
	for _, e := range edges {
		count[e.key()]++
	}
	for _, e := range edges {
		if count[e.key()] == 1 {
			temps = append(temps, d.newTriangle(e[0], e[1], idx))
		}
	}
	d.triangles = temps
}

// Triangulate computes the Delaunay triangulation of the points. The
// triangles partition the convex hull of the points.
//
// The returned Points are the input points unchanged and in order. Duplicate
// points are kept but only their first occurrence is referenced by a simplex.
// Simplices are wound counter-clockwise as seen in image space (Y pointing
// down) and never contain repeated indices.
func Triangulate(points []Point) (*Triangulation, error) {
	seen := make(map[Point]struct{}, len(points))
	unique := make([]int, 0, len(points))
	for i, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, i)
	}
	if len(unique) < 3 {
		return nil, errors.Wrapf(ErrTooFewPoints, "got %d", len(unique))
	}
	third := firstOffLine(points, unique)
	if third < 0 {
		return nil, ErrCollinear
	}

	d := &delaunay{}
	d.init(points, unique[0], unique[1], unique[third])
	for k, i := range unique[2:] {
		if k+2 != third {
			d.insert(i)
		}
	}

	result := &Triangulation{Points: points}
	for _, t := range d.triangles {
		if t.isGhost() || t.degenerate {
			continue
		}
		// Counter-clockwise in Y-up coordinates is clockwise on screen.
		a, b, c := t.nodes[0], t.nodes[1], t.nodes[2]
		result.Simplices = append(result.Simplices, [3]int{a, c, b})
	}
	if len(result.Simplices) == 0 {
		return nil, ErrCollinear
	}
	return result, nil
}

// cross returns the z component of (b-a) x (c-a).
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// firstOffLine returns the position in idx of the first point which is not on
// the line through the first two, or -1 when all of them are collinear.
func firstOffLine(points []Point, idx []int) int {
	a, b := points[idx[0]], points[idx[1]]
	for k := 2; k < len(idx); k++ {
		if cross(a, b, points[idx[k]]) != 0 {
			return k
		}
	}
	return -1
}
