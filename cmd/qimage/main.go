package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/qimage/qimage"
	"github.com/qimage/qimage/utils"
)

var (
	// Flags
	source      = flag.String("f", "", "Source image, directory or http(s) URL")
	destination = flag.String("o", "output.png", "Destination image or directory")
	points      = flag.Int("n", 1500, "Number of sampled points, 0 to only apply the palette")
	strategy    = flag.String("s", "uniform", "Sampling strategy: uniform, weighted or entropy")
	corners     = flag.Bool("corners", true, "Include the image corners in the mesh")
	palette     = flag.String("cp", "", "Colour palette, e.g. 255,255,255:0,0,0")
	fill        = flag.String("fill", "centroid", "Triangle colour: centroid or dominant")
	wireframe   = flag.Int("wireframe", 0, "Wireframe mode (0: none, 1: with wireframe, 2: wireframe only)")
	lineWidth   = flag.Float64("width", 1, "Wireframe line width")
	noise       = flag.Int("noise", 0, "Noise factor")
	seed        = flag.Int64("seed", 0, "Random seed, the clock is used when unset")
	sigma       = flag.Float64("sigma", 15, "Spread of the entropy sampler mask")
	jsonOut     = flag.String("json", "", "Also write the triangulation as JSON to this file (per image <name>.json for a directory)")
	geojsonOut  = flag.String("geojson", "", "Also write the triangles as GeoJSON to this file (per image <name>.geojson for a directory)")
	scatter     = flag.Bool("tr", false, "Paint isolated random triangles instead of a mesh")
	lines       = flag.Bool("l", false, "Paint random diagonal lines instead of a mesh")
)

// job holds the outputs of a single source image.
type job struct {
	out, json, geojson string
}

// Supported image files when the source is a directory.
var extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff", ".webp"}

func main() {
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	if *source == "" {
		glog.Exit("Usage: qimage -f input.jpg -o output.png")
	}
	if *points == 0 && *palette == "" && !*scatter && !*lines {
		glog.Exit("at least one effect should be chosen: -n > 0, -tr, -l or -cp")
	}
	if *scatter && *lines {
		glog.Exit("-tr and -l cannot be combined")
	}

	proc, rend, err := options()
	if err != nil {
		glog.Exitf("qimage: %v", err)
	}
	sc := scatterOptions(rend)

	toProcess, cleanup, err := collect(*source, *destination, *jsonOut, *geojsonOut)
	if err != nil {
		glog.Exitf("qimage: %v", err)
	}
	defer cleanup()

	failed := false
	for in, j := range toProcess {
		spinner := utils.NewSpinner()
		spinner.Start("Generating triangulated image...")
		start := time.Now()
		tri, err := processFile(in, j, proc, rend, sc)
		spinner.Stop()

		if err != nil {
			failed = true
			fmt.Fprintln(os.Stderr, utils.Decorate(fmt.Sprintf("Error converting image %s: %v", in, err), utils.ErrorColor))
			continue
		}
		fmt.Printf("Generated in: %s\n", utils.Decorate(utils.FormatTime(time.Since(start)), utils.SuccessColor))
		if tri != nil {
			fmt.Printf("Total number of %d triangles generated out of %d points\n", len(tri.Simplices), len(tri.Points))
		}
		fmt.Printf("Saved as: %s %s\n", filepath.Base(j.out), utils.Decorate("✓", utils.SuccessColor))
	}
	if failed {
		glog.Flush()
		os.Exit(1)
	}
}

// options builds the processor and renderer from the command line flags.
func options() (*qimage.Processor, *qimage.Renderer, error) {
	s, err := qimage.ParseStrategy(*strategy)
	if err != nil {
		return nil, nil, err
	}
	p := &qimage.Processor{
		Strategy: s,
		Points:   *points,
		Corners:  *corners,
		Sigma:    sigma,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			p.Seed = seed
		}
	})

	r := &qimage.Renderer{
		Wireframe: *wireframe,
		LineWidth: *lineWidth,
		Palette:   qimage.ParsePalette(*palette),
		Noise:     *noise,
	}
	switch strings.ToLower(*fill) {
	case "centroid":
		r.Fill = qimage.FillCentroid
	case "dominant":
		r.Fill = qimage.FillDominant
	default:
		return nil, nil, errors.Errorf("unknown fill mode %q", *fill)
	}
	return p, r, nil
}

// scatterOptions returns the random triangle effect selected by -tr or -l,
// or nil when the mesh is rendered.
func scatterOptions(r *qimage.Renderer) *qimage.Scatter {
	var s *qimage.Scatter
	switch {
	case *scatter:
		s = &qimage.Scatter{}
	case *lines:
		s = qimage.Lines()
	default:
		return nil
	}
	s.Palette = r.Palette
	s.Noise = r.Noise
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			s.Rand = rand.New(rand.NewSource(*seed))
		}
	})
	return s
}

// collect maps every source image to its outputs. A URL source is
// downloaded first, the returned cleanup removes the temporary file. For a
// directory the JSON and GeoJSON outputs are named after each image and
// written next to its PNG.
func collect(src, dst, jsonPath, geojsonPath string) (map[string]job, func(), error) {
	toProcess := make(map[string]job)
	cleanup := func() {}
	single := job{out: dst, json: jsonPath, geojson: geojsonPath}

	if utils.IsURL(src) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		f, err := utils.DownloadImage(ctx, src)
		if err != nil {
			return nil, cleanup, err
		}
		f.Close()
		toProcess[f.Name()] = single
		return toProcess, func() { os.Remove(f.Name()) }, nil
	}

	fs, err := os.Stat(src)
	if err != nil {
		return nil, cleanup, errors.Wrap(err, "unable to open source")
	}
	if !fs.IsDir() {
		toProcess[src] = single
		return toProcess, cleanup, nil
	}

	if ds, err := os.Stat(dst); err != nil || !ds.IsDir() {
		return nil, cleanup, errors.New("destination must be an existing directory")
	}
	files, err := os.ReadDir(src)
	if err != nil {
		return nil, cleanup, errors.Wrap(err, "unable to read dir")
	}
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name()))
		for _, iex := range extensions {
			if ext == iex {
				base := filepath.Join(dst, strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())))
				j := job{out: base + ".png"}
				if jsonPath != "" {
					j.json = base + ".json"
				}
				if geojsonPath != "" {
					j.geojson = base + ".geojson"
				}
				toProcess[filepath.Join(src, f.Name())] = j
			}
		}
	}
	return toProcess, cleanup, nil
}

// processFile triangulates and renders a single image. With a scatter effect
// or no points requested no mesh is built and the returned triangulation is nil.
func processFile(in string, j job, p *qimage.Processor, r *qimage.Renderer, sc *qimage.Scatter) (*qimage.Triangulation, error) {
	img, err := qimage.LoadImage(in)
	if err != nil {
		return nil, err
	}

	var (
		tri    *qimage.Triangulation
		result image.Image
	)
	switch {
	case sc != nil:
		result = sc.Render(img)
	case p.Points == 0:
		result = qimage.Quantize(img, r.Palette)
	default:
		if tri, err = p.Process(img); err != nil {
			return nil, err
		}
		result = r.Render(img, tri)
	}

	if err := savePNG(j.out, result); err != nil {
		return nil, err
	}
	if tri == nil {
		return nil, nil
	}
	if j.json != "" {
		if err := tri.WriteFile(j.json); err != nil {
			return nil, err
		}
	}
	if j.geojson != "" {
		data, err := json.Marshal(tri.FeatureCollection())
		if err != nil {
			return nil, errors.Wrap(err, "encoding geojson")
		}
		if err := os.WriteFile(j.geojson, data, 0o644); err != nil {
			return nil, errors.Wrap(err, "writing geojson")
		}
	}
	glog.V(1).Infof("%s: mesh area %.0f px²", in, tri.Area())
	return tri, nil
}

func savePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return errors.Wrap(png.Encode(f, img), "encoding png")
}
