// Command triangulate samples points from an image, triangulates them and
// writes the mesh to triangles.json in the working directory.
//
//	triangulate <image_path> <n_points>
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/qimage/qimage"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <image_path> <n_points>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Set("logtostderr", "true")
	flag.Usage = usage
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Arg(1), qimage.DefaultOutput); err != nil {
		glog.Exitf("triangulate: %v", err)
	}
}

// run triangulates the image at path with n uniformly sampled points and
// writes the result to output.
func run(path, n, output string) error {
	points, err := strconv.Atoi(n)
	if err != nil {
		return errors.Wrapf(err, "invalid number of points %q", n)
	}
	img, err := qimage.LoadImage(path)
	if err != nil {
		return err
	}
	glog.V(1).Infof("loaded %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())

	p := &qimage.Processor{Strategy: qimage.StrategyUniform, Points: points}
	tri, err := p.Process(img)
	if err != nil {
		return err
	}
	if err := tri.WriteFile(output); err != nil {
		return err
	}
	glog.V(1).Infof("wrote %d points and %d simplices to %s", len(tri.Points), len(tri.Simplices), output)
	return nil
}
