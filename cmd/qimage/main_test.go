package main

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/qimage/qimage"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	if err := savePNG(path, img); err != nil {
		t.Fatal(err)
	}
}

func TestCollectDirectory(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writePNG(t, filepath.Join(src, "first.png"), 4, 4)
	writePNG(t, filepath.Join(src, "second.png"), 4, 4)
	if err := os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	toProcess, cleanup, err := collect(src, dst, "mesh.json", "mesh.geojson")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	if len(toProcess) != 2 {
		t.Fatalf("Expected 2 images, got %v", toProcess)
	}
	j := toProcess[filepath.Join(src, "first.png")]
	want := job{
		out:     filepath.Join(dst, "first.png"),
		json:    filepath.Join(dst, "first.json"),
		geojson: filepath.Join(dst, "first.geojson"),
	}
	if j != want {
		t.Errorf("Expected %+v, got %+v", want, j)
	}
	if other := toProcess[filepath.Join(src, "second.png")]; other.json == j.json || other.geojson == j.geojson {
		t.Errorf("Expected distinct mesh outputs per image, got %+v and %+v", j, other)
	}

	toProcess, _, err = collect(src, dst, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if j := toProcess[filepath.Join(src, "first.png")]; j.json != "" || j.geojson != "" {
		t.Errorf("Expected no mesh outputs without the flags, got %+v", j)
	}
}

func TestCollectSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writePNG(t, src, 4, 4)

	toProcess, _, err := collect(src, "out.png", "mesh.json", "")
	if err != nil {
		t.Fatal(err)
	}
	if j := toProcess[src]; j != (job{out: "out.png", json: "mesh.json"}) {
		t.Errorf("Expected the flag paths unchanged, got %+v", j)
	}
	if _, _, err := collect(dir, src, "", ""); err == nil {
		t.Error("Expected an error for a directory source with a file destination")
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writePNG(t, src, 30, 20)
	seed := int64(4)
	proc := &qimage.Processor{Points: 12, Corners: true, Seed: &seed}
	rend := &qimage.Renderer{}

	j := job{out: filepath.Join(dir, "mesh.png"), json: filepath.Join(dir, "mesh.json")}
	tri, err := processFile(src, j, proc, rend, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tri.Points) != 16 {
		t.Errorf("Expected 16 points, got %d", len(tri.Points))
	}
	if _, err := qimage.ReadFile(j.json); err != nil {
		t.Errorf("Expected a readable mesh file: %v", err)
	}

	sc := qimage.Lines()
	sc.Count = 20
	sc.Rand = rand.New(rand.NewSource(1))
	j = job{out: filepath.Join(dir, "lines.png"), json: filepath.Join(dir, "lines.json")}
	tri, err = processFile(src, j, proc, rend, sc)
	if err != nil {
		t.Fatal(err)
	}
	if tri != nil {
		t.Error("Expected no mesh for the line effect")
	}
	f, err := os.Open(j.out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 30, 20) {
		t.Errorf("Expected a 30x20 image, got %v", img.Bounds())
	}
	if _, err := os.Stat(j.json); !os.IsNotExist(err) {
		t.Errorf("Expected no mesh file for the line effect, got %v", err)
	}
}
