/*
Package qimage samples points from an image, triangulates them with a Delaunay
triangulation and exports the mesh for downstream rendering.

The package provides two command line utilities. triangulate writes the mesh of
an image to triangles.json:

	$ triangulate image.png 500

qimage renders the triangulated image, optionally quantized to a palette:

	$ qimage -f image.png -o out.png -n 1500 -s entropy -cp 255,255,255:0,0,0

Points are selected by a Sampler. UniformSampler draws positions uniformly,
WeightedSampler draws them proportionally to a weight mask (edge magnitude by
default), EntropySampler places them greedily on high information regions and
EdgeSampler adds the image corners so the mesh covers the whole canvas.

Scatter paints isolated random triangles instead of a mesh, Lines the same
with short diagonal strokes:

	$ qimage -f image.png -o out.png -tr

Example to triangulate an image and write the result as JSON:

	package main

	import (
		"log"

		"github.com/qimage/qimage"
	)

	func main() {
		img, err := qimage.LoadImage("image.png")
		if err != nil {
			log.Fatal(err)
		}
		p := &qimage.Processor{Strategy: qimage.StrategyEntropy, Points: 500, Corners: true}
		tri, err := p.Process(img)
		if err != nil {
			log.Fatal(err)
		}
		if err := tri.WriteFile(qimage.DefaultOutput); err != nil {
			log.Fatal(err)
		}
	}

The JSON document has two keys: "points", an array of [x, y] integer pairs
truncated from the sampled coordinates, and "simplices", an array of [i, j, k]
index triples into "points".
*/
package qimage
