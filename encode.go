package qimage

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

// DefaultOutput is the file name the triangulation is written to.
const DefaultOutput = "triangles.json"

// document is the on-disk representation of a triangulation.
type document struct {
	Points    [][2]int `json:"points"`
	Simplices [][3]int `json:"simplices"`
}

// Encode writes the triangulation as a JSON object with a "points" and a
// "simplices" field. Coordinates are truncated toward zero, so fractional
// positions lose their fractional part.
func (t *Triangulation) Encode(w io.Writer) error {
	doc := document{
		Points:    make([][2]int, len(t.Points)),
		Simplices: t.Simplices,
	}
	if doc.Simplices == nil {
		doc.Simplices = [][3]int{}
	}
	for i, p := range t.Points {
		doc.Points[i] = [2]int{int(p.X), int(p.Y)}
	}
	return errors.Wrap(json.NewEncoder(w).Encode(doc), "encoding triangulation")
}

// WriteFile encodes the triangulation into the named file, replacing it.
func (t *Triangulation) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating triangulation file")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return t.Encode(f)
}

// DecodeTriangulation reads a triangulation written by Encode. Indices are
// checked against the number of points.
func DecodeTriangulation(r io.Reader) (*Triangulation, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding triangulation")
	}
	t := &Triangulation{
		Points:    make([]Point, len(doc.Points)),
		Simplices: doc.Simplices,
	}
	for i, p := range doc.Points {
		t.Points[i] = Point{X: float64(p[0]), Y: float64(p[1])}
	}
	for _, s := range t.Simplices {
		for _, i := range s {
			if i < 0 || i >= len(t.Points) {
				return nil, errors.Errorf("simplex %v references point %d out of %d", s, i, len(t.Points))
			}
		}
	}
	return t, nil
}

// ReadFile decodes the triangulation stored in the named file.
func ReadFile(path string) (*Triangulation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening triangulation file")
	}
	defer f.Close()
	return DecodeTriangulation(f)
}

// polygon returns the closed ring of the simplex at index i.
func (t *Triangulation) polygon(i int) orb.Polygon {
	s := t.Simplices[i]
	ring := make(orb.Ring, 0, 4)
	for _, idx := range []int{s[0], s[1], s[2], s[0]} {
		p := t.Points[idx]
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	return orb.Polygon{ring}
}

// FeatureCollection exports every triangle as a GeoJSON polygon feature in
// pixel coordinates. The feature's "simplex" property holds the point indices.
func (t *Triangulation) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, s := range t.Simplices {
		f := geojson.NewFeature(t.polygon(i))
		f.Properties["simplex"] = []int{s[0], s[1], s[2]}
		fc.Append(f)
	}
	return fc
}

// Area returns the summed area of all triangles in square pixels.
func (t *Triangulation) Area() float64 {
	var area float64
	for i := range t.Simplices {
		area += math.Abs(planar.Area(t.polygon(i)))
	}
	return area
}
